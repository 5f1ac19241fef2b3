package domain

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// City contiene la geolocalización y metadata de una ciudad con mercados de
// temperatura conocidos. Station es el identificador METAR de la estación que
// resuelve el mercado.
type City struct {
	Name     string
	Lat      float64
	Lon      float64
	Unit     TempUnit // unidad por defecto de los mercados de esta ciudad
	Station  string
	Timezone string
}

// TempUnit es la unidad de temperatura en el formato que espera la API de
// forecast ("fahrenheit" | "celsius").
type TempUnit string

const (
	UnitFahrenheit TempUnit = "fahrenheit"
	UnitCelsius    TempUnit = "celsius"
)

// cities: ciudades (y alias) reconocidas en títulos de mercados.
var cities = map[string]City{
	"new york":      {Lat: 40.7128, Lon: -74.006, Unit: UnitFahrenheit, Station: "KLGA", Timezone: "America/New_York"},
	"nyc":           {Lat: 40.7128, Lon: -74.006, Unit: UnitFahrenheit, Station: "KLGA", Timezone: "America/New_York"},
	"chicago":       {Lat: 41.8781, Lon: -87.6298, Unit: UnitFahrenheit, Station: "KORD", Timezone: "America/Chicago"},
	"miami":         {Lat: 25.7617, Lon: -80.1918, Unit: UnitFahrenheit, Station: "KMIA", Timezone: "America/New_York"},
	"dallas":        {Lat: 32.7767, Lon: -96.797, Unit: UnitFahrenheit, Station: "KDFW", Timezone: "America/Chicago"},
	"los angeles":   {Lat: 34.0522, Lon: -118.2437, Unit: UnitFahrenheit, Station: "KLAX", Timezone: "America/Los_Angeles"},
	"atlanta":       {Lat: 33.749, Lon: -84.388, Unit: UnitFahrenheit, Station: "KATL", Timezone: "America/New_York"},
	"seattle":       {Lat: 47.6062, Lon: -122.3321, Unit: UnitFahrenheit, Station: "KSEA", Timezone: "America/Los_Angeles"},
	"denver":        {Lat: 39.7392, Lon: -104.9903, Unit: UnitFahrenheit, Station: "KDEN", Timezone: "America/Denver"},
	"san francisco": {Lat: 37.7749, Lon: -122.4194, Unit: UnitFahrenheit, Station: "KSFO", Timezone: "America/Los_Angeles"},
	"washington":    {Lat: 38.9072, Lon: -77.0369, Unit: UnitFahrenheit, Station: "KDCA", Timezone: "America/New_York"},
	"boston":        {Lat: 42.3601, Lon: -71.0589, Unit: UnitFahrenheit, Station: "KBOS", Timezone: "America/New_York"},
	"houston":       {Lat: 29.7604, Lon: -95.3698, Unit: UnitFahrenheit, Station: "KIAH", Timezone: "America/Chicago"},
	"phoenix":       {Lat: 33.4484, Lon: -112.074, Unit: UnitFahrenheit, Station: "KPHX", Timezone: "America/Phoenix"},
	"philadelphia":  {Lat: 39.9526, Lon: -75.1652, Unit: UnitFahrenheit, Station: "KPHL", Timezone: "America/New_York"},
	"london":        {Lat: 51.5074, Lon: -0.1278, Unit: UnitCelsius, Station: "EGLC", Timezone: "Europe/London"},
	"paris":         {Lat: 48.8566, Lon: 2.3522, Unit: UnitCelsius, Station: "LFPG", Timezone: "Europe/Paris"},
	"berlin":        {Lat: 52.52, Lon: 13.405, Unit: UnitCelsius, Station: "EDDB", Timezone: "Europe/Berlin"},
	"moscow":        {Lat: 55.7558, Lon: 37.6173, Unit: UnitCelsius, Station: "UUEE", Timezone: "Europe/Moscow"},
	"istanbul":      {Lat: 41.0082, Lon: 28.9784, Unit: UnitCelsius, Station: "LTFM", Timezone: "Europe/Istanbul"},
	"ankara":        {Lat: 39.9334, Lon: 32.8597, Unit: UnitCelsius, Station: "LTAC", Timezone: "Europe/Istanbul"},
	"tokyo":         {Lat: 35.6762, Lon: 139.6503, Unit: UnitCelsius, Station: "RJTT", Timezone: "Asia/Tokyo"},
	"seoul":         {Lat: 37.5665, Lon: 126.978, Unit: UnitCelsius, Station: "RKSS", Timezone: "Asia/Seoul"},
	"beijing":       {Lat: 39.9042, Lon: 116.4074, Unit: UnitCelsius, Station: "ZBAA", Timezone: "Asia/Shanghai"},
	"taipei":        {Lat: 25.033, Lon: 121.5654, Unit: UnitCelsius, Station: "RCTP", Timezone: "Asia/Taipei"},
	"hong kong":     {Lat: 22.3193, Lon: 114.1694, Unit: UnitCelsius, Station: "VHHH", Timezone: "Asia/Hong_Kong"},
	"singapore":     {Lat: 1.3521, Lon: 103.8198, Unit: UnitCelsius, Station: "WSSS", Timezone: "Asia/Singapore"},
	"kuala lumpur":  {Lat: 3.139, Lon: 101.6869, Unit: UnitCelsius, Station: "WMKK", Timezone: "Asia/Kuala_Lumpur"},
	"jakarta":       {Lat: -6.2088, Lon: 106.8456, Unit: UnitCelsius, Station: "WIII", Timezone: "Asia/Jakarta"},
	"bangkok":       {Lat: 13.7563, Lon: 100.5018, Unit: UnitCelsius, Station: "VTBS", Timezone: "Asia/Bangkok"},
	"mumbai":        {Lat: 19.076, Lon: 72.8777, Unit: UnitCelsius, Station: "VABB", Timezone: "Asia/Kolkata"},
	"dubai":         {Lat: 25.2048, Lon: 55.2708, Unit: UnitCelsius, Station: "OMDB", Timezone: "Asia/Dubai"},
	"cairo":         {Lat: 30.0444, Lon: 31.2357, Unit: UnitCelsius, Station: "HECA", Timezone: "Africa/Cairo"},
	"lagos":         {Lat: 6.5244, Lon: 3.3792, Unit: UnitCelsius, Station: "DNMM", Timezone: "Africa/Lagos"},
	"nairobi":       {Lat: -1.2921, Lon: 36.8219, Unit: UnitCelsius, Station: "HKJK", Timezone: "Africa/Nairobi"},
	"sydney":        {Lat: -33.8688, Lon: 151.2093, Unit: UnitCelsius, Station: "YSSY", Timezone: "Australia/Sydney"},
	"buenos aires":  {Lat: -34.6037, Lon: -58.3816, Unit: UnitCelsius, Station: "SABE", Timezone: "America/Argentina/Buenos_Aires"},
	"lima":          {Lat: -12.0464, Lon: -77.0428, Unit: UnitCelsius, Station: "SPJC", Timezone: "America/Lima"},
	"mexico city":   {Lat: 19.4326, Lon: -99.1332, Unit: UnitCelsius, Station: "MMMX", Timezone: "America/Mexico_City"},
	"toronto":       {Lat: 43.6532, Lon: -79.3832, Unit: UnitCelsius, Station: "CYYZ", Timezone: "America/Toronto"},
	"rio de janeiro": {Lat: -22.9068, Lon: -43.1729, Unit: UnitCelsius, Station: "SBGL", Timezone: "America/Sao_Paulo"},
	"rio":            {Lat: -22.9068, Lon: -43.1729, Unit: UnitCelsius, Station: "SBGL", Timezone: "America/Sao_Paulo"},
}

var (
	sortedNamesOnce sync.Once
	sortedNames     []string
)

// cityNamesByLength devuelve los nombres de ciudad ordenados de más largo a
// más corto. Probar primero los largos evita que "york" o "rio" hagan sombra
// a "new york" / "rio de janeiro".
func cityNamesByLength() []string {
	sortedNamesOnce.Do(func() {
		sortedNames = make([]string, 0, len(cities))
		for name := range cities {
			sortedNames = append(sortedNames, name)
		}
		sort.Slice(sortedNames, func(i, j int) bool {
			if len(sortedNames[i]) != len(sortedNames[j]) {
				return len(sortedNames[i]) > len(sortedNames[j])
			}
			return sortedNames[i] < sortedNames[j]
		})
	})
	return sortedNames
}

// LookupCity busca una ciudad conocida por nombre exacto (en minúsculas).
func LookupCity(name string) (City, bool) {
	c, ok := cities[strings.ToLower(name)]
	if ok {
		c.Name = strings.ToLower(name)
	}
	return c, ok
}

// ExtractCity localiza una ciudad conocida dentro de un título de mercado.
func ExtractCity(title string) (City, bool) {
	lower := strings.ToLower(title)
	for _, name := range cityNamesByLength() {
		if strings.Contains(lower, name) {
			return LookupCity(name)
		}
	}

	// Fallback: "temperature in <ciudad> on ..." con la ciudad en medio.
	if m := cityPatternRe.FindStringSubmatch(lower); m != nil {
		extracted := strings.TrimSpace(m[1])
		for _, name := range cityNamesByLength() {
			if strings.Contains(extracted, name) {
				return LookupCity(name)
			}
		}
	}
	return City{}, false
}

var cityPatternRe = regexp.MustCompile(`(?:temperature|weather)\s+in\s+(.+?)\s+on\s`)
