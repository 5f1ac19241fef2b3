package domain

import "math"

const (
	// sigmaFloor evita que un ensemble que casualmente agrupa muy fuerte
	// produzca probabilidades espuriamente ciertas.
	sigmaFloor = 0.5

	// Sustitutos de ±Inf en unidades de trabajo: lo bastante fuera de
	// cualquier rango de temperatura realista como para comportarse como
	// no-acotado bajo una CDF Normal.
	lowerUnbounded = -100.0
	upperUnbounded = 200.0
)

// NormalCDF es Φ(x) para una Normal(mean, std). Con std ≤ 0 degenera a la
// función escalón en mean.
func NormalCDF(x, mean, std float64) float64 {
	if std <= 0 {
		if x >= mean {
			return 1
		}
		return 0
	}
	return 0.5 * (1 + math.Erf((x-mean)/(std*math.Sqrt2)))
}

// ComputeBucketProbabilities anota cada bucket con la probabilidad de que la
// temperatura máxima caiga en su intervalo, bajo una Normal centrada en la
// media combinada del ensemble.
//
// spreadInflation infla la desviación del ensemble (los ensembles numéricos
// tienden a ser sobreconfiados); biasCorrection es un ajuste aditivo de la
// media reservado para calibración, 0 por defecto.
func ComputeBucketProbabilities(ens Ensemble, buckets []Bucket, spreadInflation, biasCorrection float64) []Bucket {
	cm, cs, ok := ens.Combined()
	if !ok || len(buckets) == 0 {
		return nil
	}

	mu := cm + biasCorrection
	sigma := math.Max(cs*spreadInflation, sigmaFloor)

	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		lower, upper := b.CDFBounds()
		if math.IsInf(lower, -1) {
			lower = lowerUnbounded
		}
		if math.IsInf(upper, 1) {
			upper = upperUnbounded
		}
		prob := NormalCDF(upper, mu, sigma) - NormalCDF(lower, mu, sigma)
		b.ModelProb = math.Max(0, math.Min(1, prob))
		out[i] = b
	}
	return out
}
