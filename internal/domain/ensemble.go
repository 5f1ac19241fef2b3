package domain

import "math"

// fallbackStd es la desviación asumida cuando solo hay un miembro observado:
// una muestra de tamaño 1 no tiene varianza definida y el pipeline no puede
// tratar eso como "sin incertidumbre".
const fallbackStd = 2.0

// Ensemble agrupa los miembros estocásticos de los dos modelos de forecast
// para un (ciudad, fecha). Se construye fresco en cada ciclo; nunca se persiste.
type Ensemble struct {
	GFSMembers   []float64
	ECMWFMembers []float64
}

// GFSMean devuelve la media del modelo GFS, ok=false si no hay miembros.
func (e Ensemble) GFSMean() (float64, bool) {
	if len(e.GFSMembers) == 0 {
		return 0, false
	}
	return mean(e.GFSMembers), true
}

// ECMWFMean devuelve la media del modelo ECMWF, ok=false si no hay miembros.
func (e Ensemble) ECMWFMean() (float64, bool) {
	if len(e.ECMWFMembers) == 0 {
		return 0, false
	}
	return mean(e.ECMWFMembers), true
}

// MemberCount es el total de miembros agregados entre ambos modelos.
func (e Ensemble) MemberCount() int {
	return len(e.GFSMembers) + len(e.ECMWFMembers)
}

// Combined agrupa todos los miembros y devuelve media y desviación estándar
// muestral (denominador N−1). Con un solo miembro la desviación es el
// fallback fijo; sin miembros el ensemble es inutilizable (ok=false) y el
// caller debe saltarse el mercado.
func (e Ensemble) Combined() (mu, sigma float64, ok bool) {
	all := make([]float64, 0, e.MemberCount())
	all = append(all, e.GFSMembers...)
	all = append(all, e.ECMWFMembers...)

	switch len(all) {
	case 0:
		return 0, 0, false
	case 1:
		return all[0], fallbackStd, true
	default:
		return mean(all), stddev(all), true
	}
}

// ModelSpread es la distancia entre las medias de ambos modelos, usada para
// la evaluación de confianza. ok=false si falta alguno de los dos.
func (e Ensemble) ModelSpread() (float64, bool) {
	gfs, okG := e.GFSMean()
	ecmwf, okE := e.ECMWFMean()
	if !okG || !okE {
		return 0, false
	}
	return math.Abs(gfs - ecmwf), true
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stddev es la desviación estándar muestral (N−1). Requiere len ≥ 2.
func stddev(vs []float64) float64 {
	m := mean(vs)
	var ss float64
	for _, v := range vs {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vs)-1))
}
