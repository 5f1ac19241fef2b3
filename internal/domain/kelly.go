package domain

import "math"

// maxKellyFraction es el tope duro sobre el full Kelly, independiente de la
// fracción configurada por el usuario.
const maxKellyFraction = 0.25

// KellySize calcula el stake en dólares según el criterio de Kelly para un
// contrato binario que paga $1 por share.
//
// Devuelve 0 si p ≤ price o el precio está fuera de (0,1): nunca dimensiona
// una posición sin edge teórico positivo. El full Kelly se recorta a
// [0, 0.25] antes de aplicar la fracción del usuario, y el resultado se
// trunca al centavo.
func KellySize(p, price, bankroll, fraction float64) float64 {
	if p <= price || price <= 0 || price >= 1 {
		return 0
	}
	edge := p - price
	odds := (1 - price) / price
	kelly := (edge*odds - (1 - p)) / odds
	clamped := math.Max(0, math.Min(kelly, maxKellyFraction))
	return math.Floor(bankroll*clamped*fraction*100) / 100
}
