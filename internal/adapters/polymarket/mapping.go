package polymarket

import (
	"strconv"

	"github.com/Flxry/weather-bot/internal/domain"
)

// mapEvent convierte un gammaEvent a la entidad de dominio neutra.
func mapEvent(ev gammaEvent) domain.RawEvent {
	out := domain.RawEvent{
		ID:     string(ev.ID),
		Title:  ev.Title,
		Slug:   ev.Slug,
		Active: boolOr(ev.Active, true),
		Closed: boolOr(ev.Closed, false),
		Volume: float64(ev.Volume),
	}

	for _, m := range ev.Markets {
		out.Markets = append(out.Markets, mapMarket(m))
	}
	return out
}

// mapMarket convierte un contrato hijo. El label del bucket viene en
// groupItemTitle; question es el fallback para mercados sueltos.
func mapMarket(m gammaMarket) domain.RawOutcome {
	label := m.GroupItemTitle
	if label == "" {
		label = m.Question
	}

	// outcomePrices[0] es el precio YES; puede faltar o venir vacío.
	var yesPrice float64
	if len(m.OutcomePrices) > 0 {
		yesPrice, _ = strconv.ParseFloat(m.OutcomePrices[0], 64)
	}

	var tokenID string
	if len(m.ClobTokenIDs) > 0 {
		tokenID = m.ClobTokenIDs[0]
	}

	return domain.RawOutcome{
		ID:              string(m.ID),
		Label:           label,
		YesPrice:        yesPrice,
		TokenID:         tokenID,
		Active:          boolOr(m.Active, true),
		Closed:          boolOr(m.Closed, false),
		AcceptingOrders: boolOr(m.AcceptingOrders, true),
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
