package polymarket

import (
	"encoding/json"
	"io"
	"strconv"
)

// DTOs raw de la API Gamma. Solo se usan dentro de este paquete; la
// conversión a domain se hace en mapping.go.
//
// Gamma es poco consistente con los tipos: ids y volúmenes llegan como número
// o como string según el endpoint, y outcomePrices/clobTokenIds son arrays
// JSON codificados DENTRO de un string. Los tipos flexibles de abajo absorben
// todo eso.

// gammaEvent es un evento con sus mercados hijos.
type gammaEvent struct {
	ID      flexString    `json:"id"`
	Title   string        `json:"title"`
	Slug    string        `json:"slug"`
	Active  *bool         `json:"active"`
	Closed  *bool         `json:"closed"`
	Volume  flexNumber    `json:"volume"`
	Markets []gammaMarket `json:"markets"`
}

// gammaMarket es un contrato individual (un bucket potencial).
type gammaMarket struct {
	ID              flexString `json:"id"`
	Question        string     `json:"question"`
	GroupItemTitle  string     `json:"groupItemTitle"`
	OutcomePrices   flexArray  `json:"outcomePrices"`
	ClobTokenIDs    flexArray  `json:"clobTokenIds"`
	Active          *bool      `json:"active"`
	Closed          *bool      `json:"closed"`
	AcceptingOrders *bool      `json:"acceptingOrders"`
	EventTitle      string     `json:"eventTitle"`
	EventSlug       string     `json:"eventSlug"`
	GroupSlug       string     `json:"groupSlug"`
}

// flexString acepta string o número JSON.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexNumber acepta un número JSON o un número codificado como string.
// Un string no numérico vale 0, no es error.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexNumber(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(v)
	return nil
}

// flexArray acepta un array JSON de strings, o ese mismo array codificado
// como string (`"[\"0.12\", \"0.88\"]"`).
type flexArray []string

func (f *flexArray) UnmarshalJSON(data []byte) error {
	var direct []string
	if err := json.Unmarshal(data, &direct); err == nil {
		*f = direct
		return nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	if encoded == "" {
		*f = nil
		return nil
	}
	var inner []string
	if err := json.Unmarshal([]byte(encoded), &inner); err != nil {
		// Dato malformado: se trata como vacío, no como error fatal.
		*f = nil
		return nil
	}
	*f = inner
	return nil
}

// eventsEnvelope tolera las distintas formas de respuesta de listado:
// array directo, o envuelto en data/events/results.
type eventsEnvelope []gammaEvent

func (e *eventsEnvelope) UnmarshalJSON(data []byte) error {
	var direct []gammaEvent
	if err := json.Unmarshal(data, &direct); err == nil {
		*e = direct
		return nil
	}
	var wrapped struct {
		Data    []gammaEvent `json:"data"`
		Events  []gammaEvent `json:"events"`
		Results []gammaEvent `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	switch {
	case wrapped.Data != nil:
		*e = wrapped.Data
	case wrapped.Events != nil:
		*e = wrapped.Events
	default:
		*e = wrapped.Results
	}
	return nil
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}
