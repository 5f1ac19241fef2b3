package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// IntervalType clasifica el intervalo de temperatura de un bucket.
type IntervalType string

const (
	IntervalExact IntervalType = "EXACT" // un único grado entero, ej. "75"
	IntervalLTE   IntervalType = "LTE"   // "32 or lower"
	IntervalGTE   IntervalType = "GTE"   // "82 or higher", "82+"
	IntervalRange IntervalType = "RANGE" // "75-76", "75 to 76"
)

// Bucket es un intervalo de payout mutuamente excluyente dentro de un mercado
// de temperatura. Se parsea de nuevo en cada ciclo de scan; los precios cambian
// pero el intervalo es inmutable una vez parseado de su label.
type Bucket struct {
	ID      string
	Label   string
	TokenID string

	Type IntervalType
	Low  float64 // -Inf para LTE
	High float64 // +Inf para GTE
	Unit string  // "C", "F" o "" si el label no lleva símbolo

	YesPrice        float64 // precio YES actual (0..1)
	Active          bool
	Closed          bool
	AcceptingOrders bool

	// ModelProb lo rellena el motor de probabilidades (probability.go).
	ModelProb float64
}

var (
	unitRe  = regexp.MustCompile(`°[CFcf]`)
	lteRe   = regexp.MustCompile(`(?i)^(-?\d+(?:\.\d+)?)\s+or\s+(?:lower|less|below)`)
	gteRe   = regexp.MustCompile(`(?i)^(-?\d+(?:\.\d+)?)\s+or\s+(?:higher|more|above)`)
	plusRe  = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\+$`)
	rangeRe = regexp.MustCompile(`(?i)^(-?\d+(?:\.\d+)?)\s*(?:-|–|—|to)\s*(-?\d+(?:\.\d+)?)`)
	exactRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)$`)
)

// ParseBucketLabel convierte el label de texto libre de un contrato en su
// intervalo numérico. Devuelve ok=false si el label no encaja en ningún
// patrón conocido — el caller descarta el bucket, no es un error fatal.
func ParseBucketLabel(label string) (Bucket, bool) {
	clean := strings.TrimSpace(label)
	if clean == "" {
		return Bucket{}, false
	}

	unit := ""
	switch {
	case strings.Contains(clean, "°C"), strings.Contains(clean, "°c"):
		unit = "C"
	case strings.Contains(clean, "°F"), strings.Contains(clean, "°f"):
		unit = "F"
	}

	// El símbolo de unidad puede aparecer en cualquier posición; se quita
	// antes de parsear los números.
	numeric := strings.TrimSpace(unitRe.ReplaceAllString(clean, ""))

	if m := lteRe.FindStringSubmatch(numeric); m != nil {
		high := parseNum(m[1])
		return Bucket{Label: clean, Type: IntervalLTE, Low: math.Inf(-1), High: high, Unit: unit}, true
	}

	m := gteRe.FindStringSubmatch(numeric)
	if m == nil {
		m = plusRe.FindStringSubmatch(numeric)
	}
	if m != nil {
		low := parseNum(m[1])
		return Bucket{Label: clean, Type: IntervalGTE, Low: low, High: math.Inf(1), Unit: unit}, true
	}

	if m := rangeRe.FindStringSubmatch(numeric); m != nil {
		return Bucket{Label: clean, Type: IntervalRange, Low: parseNum(m[1]), High: parseNum(m[2]), Unit: unit}, true
	}

	if m := exactRe.FindStringSubmatch(numeric); m != nil {
		v := parseNum(m[1])
		return Bucket{Label: clean, Type: IntervalExact, Low: v, High: v, Unit: unit}, true
	}

	return Bucket{}, false
}

// CDFBounds devuelve el intervalo real sobre el que integrar la Normal.
// Los buckets reportan grados enteros de una magnitud continua, así que se
// aplica corrección de continuidad de ±0.5.
func (b Bucket) CDFBounds() (lower, upper float64) {
	switch b.Type {
	case IntervalLTE:
		return math.Inf(-1), b.High + 0.5
	case IntervalGTE:
		return b.Low - 0.5, math.Inf(1)
	case IntervalRange:
		return b.Low - 0.5, b.High + 0.5
	case IntervalExact:
		return b.Low - 0.5, b.Low + 0.5
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

// SortKey es la temperatura efectiva por la que ordenar buckets dentro de un
// mercado. Un bucket LTE no tiene cota inferior, así que ordena por la superior.
func (b Bucket) SortKey() float64 {
	if math.IsInf(b.Low, -1) {
		return b.High
	}
	return b.Low
}

// Settled indica si el mercado ya da el bucket por decidido en cualquiera de
// los dos sentidos. Estos buckets no son operables.
func (b Bucket) Settled() bool {
	return b.YesPrice >= 0.98 || b.YesPrice <= 0.002
}

// Tradeable indica si el bucket sigue abierto a nuevas posiciones.
func (b Bucket) Tradeable() bool {
	return b.Active && !b.Closed && !b.Settled()
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
