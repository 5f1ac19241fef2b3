package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Flxry/weather-bot/internal/domain"
)

const (
	pageSize      = 100
	maxPageOffset = 400
	// minEventsFound: con menos eventos que esto se sigue probando la
	// siguiente estrategia de búsqueda.
	minEventsFound = 3
)

// FetchWeatherEvents implementa ports.MarketProvider combinando varias
// estrategias: búsquedas por tag/slug/texto, y si no alcanzan, paginación
// amplia ordenada por volumen con filtro client-side. Los queries fallidos se
// acumulan como warnings; solo es error que TODAS las estrategias fallen sin
// producir nada.
func (c *Client) FetchWeatherEvents(ctx context.Context) ([]domain.RawEvent, error) {
	found := make(map[string]gammaEvent)
	var errs []string

	searchURLs := []string{
		fmt.Sprintf("%s/events?limit=%d&active=true&closed=false&tag=temperature", c.base, pageSize),
		fmt.Sprintf("%s/events?limit=%d&active=true&closed=false&tag=weather", c.base, pageSize),
		fmt.Sprintf("%s/events?limit=%d&active=true&closed=false&slug=temperature", c.base, pageSize),
		fmt.Sprintf("%s/events?limit=%d&active=true&closed=false&_q=temperature", c.base, pageSize),
	}

	for _, url := range searchURLs {
		var events eventsEnvelope
		if err := c.get(ctx, url, &events); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", url, err))
			continue
		}
		for _, ev := range events {
			if isWeatherEvent(ev) {
				found[string(ev.ID)] = ev
			}
		}
	}

	if len(found) < minEventsFound {
		c.paginateEvents(ctx, found, &errs)
	}

	if len(found) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("polymarket.FetchWeatherEvents: all strategies failed: %s", strings.Join(errs, "; "))
	}

	result := make([]domain.RawEvent, 0, len(found))
	for _, ev := range found {
		// Listados que devuelven el evento sin sus mercados hijos: se
		// rellenan con el endpoint de detalle.
		if len(ev.Markets) == 0 {
			c.backfillMarkets(ctx, &ev)
		}
		result = append(result, mapEvent(ev))
	}

	slog.Info("weather event discovery complete",
		"events", len(result),
		"query_errors", len(errs),
	)
	if len(errs) > 0 {
		slog.Debug("discovery query errors", "errs", strings.Join(errs, "; "))
	}
	return result, nil
}

// paginateEvents recorre los eventos activos por volumen descendente y filtra
// los de clima en el cliente.
func (c *Client) paginateEvents(ctx context.Context, found map[string]gammaEvent, errs *[]string) {
	for offset := 0; offset <= maxPageOffset; offset += pageSize {
		url := fmt.Sprintf("%s/events?limit=%d&offset=%d&active=true&closed=false&order=volume24hr&ascending=false",
			c.base, pageSize, offset)

		var events eventsEnvelope
		if err := c.get(ctx, url, &events); err != nil {
			// Si falla un offset, lo más probable es que fallen todos.
			*errs = append(*errs, fmt.Sprintf("broad search offset=%d: %v", offset, err))
			return
		}
		for _, ev := range events {
			if isWeatherEvent(ev) {
				found[string(ev.ID)] = ev
			}
		}
		if len(events) < pageSize {
			return
		}
	}
}

// backfillMarkets obtiene los mercados hijos de un evento vía su detalle.
func (c *Client) backfillMarkets(ctx context.Context, ev *gammaEvent) {
	url := fmt.Sprintf("%s/events/%s", c.base, string(ev.ID))
	var detail gammaEvent
	if err := c.get(ctx, url, &detail); err != nil {
		slog.Debug("event market backfill failed", "event_id", string(ev.ID), "err", err)
		return
	}
	ev.Markets = detail.Markets
}

// isWeatherEvent filtra por texto los eventos que parecen mercados de
// temperatura.
func isWeatherEvent(ev gammaEvent) bool {
	text := strings.ToLower(ev.Title + " " + ev.Slug)
	if strings.Contains(text, "temperature") ||
		strings.Contains(text, "highest temp") ||
		strings.Contains(text, "lowest temp") {
		return true
	}
	return strings.Contains(text, "weather") &&
		(strings.Contains(text, "°f") || strings.Contains(text, "°c") || strings.Contains(text, "degree"))
}
