package domain

import "sort"

// Side es el lado del contrato sobre el que hay edge.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// Confidence es la nota gruesa de una señal.
type Confidence string

const (
	ConfidenceHigh Confidence = "HIGH"
	ConfidenceMed  Confidence = "MED"
	ConfidenceLow  Confidence = "LOW"
)

// Signal es un bucket con mispricing accionable: el lado elegido, su precio
// efectivo y la fuerza del edge en puntos porcentuales.
type Signal struct {
	Bucket

	Side               Side
	Edge               float64 // edge absoluto del lado elegido (0..1)
	RelEdge            float64 // edge relativo al precio, en %
	EffectivePrice     float64 // lo que cuesta una share del lado elegido
	EffectiveModelProb float64 // prob del modelo para el lado elegido
	EdgeStrength       float64 // |edge| en puntos porcentuales

	Confidence  Confidence
	ModelSpread float64 // |media GFS − media ECMWF|; ver ModelsAgree
	ModelsAgree bool
}

// noFloorPrice: por debajo de este precio YES el lado NO ya no interesa —
// con el bucket casi en cero, NO solo está "barato" por ruido de redondeo.
const noFloorPrice = 0.05

// DetectEdges compara la probabilidad del modelo con el precio de mercado en
// ambos lados de cada bucket operable y emite una señal por bucket donde el
// mejor lado supere minEdge (en puntos porcentuales). maxEntryPrice viene en
// centavos y limita solo las entradas YES.
//
// Si ambos lados son elegibles gana el de mayor edge relativo a su propio
// precio (edge/price), no el de mayor edge absoluto: el absoluto favorecería
// sistemáticamente a NO, que cotiza más cerca de 1 y tiene más recorrido.
func DetectEdges(buckets []Bucket, minEdge, maxEntryPrice float64) []Signal {
	var signals []Signal

	for _, b := range buckets {
		if !b.Tradeable() {
			continue
		}

		yesEdge := b.ModelProb - b.YesPrice
		noPrice := 1 - b.YesPrice
		noProb := 1 - b.ModelProb
		noEdge := noProb - noPrice

		yesBuy := yesEdge > 0 && b.YesPrice <= maxEntryPrice/100
		noBuy := noEdge > 0 && b.YesPrice > noFloorPrice

		sig := Signal{Bucket: b}
		switch {
		case yesBuy && noBuy:
			if yesEdge/b.YesPrice >= noEdge/noPrice {
				sig.Side, sig.Edge, sig.EffectivePrice, sig.EffectiveModelProb = SideYes, yesEdge, b.YesPrice, b.ModelProb
			} else {
				sig.Side, sig.Edge, sig.EffectivePrice, sig.EffectiveModelProb = SideNo, noEdge, noPrice, noProb
			}
		case yesBuy:
			sig.Side, sig.Edge, sig.EffectivePrice, sig.EffectiveModelProb = SideYes, yesEdge, b.YesPrice, b.ModelProb
		case noBuy:
			sig.Side, sig.Edge, sig.EffectivePrice, sig.EffectiveModelProb = SideNo, noEdge, noPrice, noProb
		default:
			continue
		}

		sig.EdgeStrength = abs(sig.Edge) * 100
		if sig.EffectivePrice > 0 {
			sig.RelEdge = sig.Edge / sig.EffectivePrice * 100
		}
		if sig.EdgeStrength < minEdge {
			continue
		}
		signals = append(signals, sig)
	}

	sort.Slice(signals, func(i, j int) bool {
		return signals[i].EdgeStrength > signals[j].EdgeStrength
	})
	return signals
}

// AssessConfidence gradúa una señal según el acuerdo entre modelos y la
// magnitud del edge: HIGH si se dan ambos, MED con exactamente uno, LOW si
// ninguno. Sin media de alguno de los dos modelos, el acuerdo cuenta como no.
func AssessConfidence(sig Signal, ens Ensemble, minEdge, agreementThreshold float64) Signal {
	spread, ok := ens.ModelSpread()
	sig.ModelSpread = spread
	sig.ModelsAgree = ok && spread <= agreementThreshold

	strongEdge := sig.EdgeStrength >= minEdge*2

	switch {
	case sig.ModelsAgree && strongEdge:
		sig.Confidence = ConfidenceHigh
	case sig.ModelsAgree || strongEdge:
		sig.Confidence = ConfidenceMed
	default:
		sig.Confidence = ConfidenceLow
	}
	return sig
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
