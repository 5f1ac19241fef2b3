package domain

import "time"

// Market es un mercado de temperatura ya normalizado: ciudad resuelta, fecha
// objetivo extraída del título y buckets parseados y ordenados por temperatura.
type Market struct {
	EventID string
	Title   string
	Slug    string

	City    string // clave canónica en el registro de ciudades
	Location City  // Lat/Lon/unidad por defecto; zero value si la ciudad es desconocida
	HasCity bool

	TargetDate time.Time // fecha calendario (medianoche UTC); zero si no se pudo extraer
	Unit       TempUnit

	Buckets []Bucket // orden ascendente por temperatura efectiva

	Resolved         bool // derivado en la normalización, ver Normalize
	HasSettledBucket bool
	Active           bool
	Volume           float64
}

// Analyzable indica si el mercado tiene todo lo necesario para pasar por el
// pipeline de análisis: sigue abierto, la ciudad es conocida y hay fecha.
func (m Market) Analyzable() bool {
	return !m.Resolved && m.HasCity && !m.TargetDate.IsZero()
}

// DateString devuelve la fecha objetivo en el formato de la API de forecast.
func (m Market) DateString() string {
	if m.TargetDate.IsZero() {
		return ""
	}
	return m.TargetDate.Format("2006-01-02")
}

// BucketByID busca un bucket por su id de contrato.
func (m Market) BucketByID(id string) (Bucket, bool) {
	for _, b := range m.Buckets {
		if b.ID == id {
			return b, true
		}
	}
	return Bucket{}, false
}

// SettledBucket devuelve el bucket que el mercado da por ganador (YES ≥ 0.95),
// si existe. Con buckets mutuamente excluyentes hay como mucho uno.
func (m Market) SettledBucket() (Bucket, bool) {
	for _, b := range m.Buckets {
		if b.YesPrice >= 0.95 {
			return b, true
		}
	}
	return Bucket{}, false
}

// PriceSum suma los precios YES de todos los buckets. En un mercado sano con
// buckets exhaustivos debería ser ≈1; una desviación grande es señal de mala
// calidad de datos, no un error.
func (m Market) PriceSum() float64 {
	var sum float64
	for _, b := range m.Buckets {
		sum += b.YesPrice
	}
	return sum
}

// RawEvent es el registro crudo de un evento tal como lo entrega el proveedor
// de mercados, antes de normalizar. Es el contrato de entrada del pipeline.
type RawEvent struct {
	ID      string
	Title   string
	Slug    string
	Active  bool
	Closed  bool
	Volume  float64
	Markets []RawOutcome
}

// RawOutcome es un contrato hijo (un bucket potencial) dentro de un evento.
type RawOutcome struct {
	ID              string
	Label           string
	YesPrice        float64
	TokenID         string
	Active          bool
	Closed          bool
	AcceptingOrders bool
}
