package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Flxry/weather-bot/internal/domain"
)

const (
	modelGFS   = "gfs025"
	modelECMWF = "ecmwf_ifs025"

	// Índice máximo de miembro a sondear por modelo. GFS publica ~31
	// miembros, ECMWF IFS ~51.
	gfsMaxMember   = 30
	ecmwfMaxMember = 50

	minForecastDays = 3
	maxForecastDays = 16
)

// FetchEnsemble implementa ports.ForecastProvider: pide los miembros de GFS y
// ECMWF en paralelo para la temperatura máxima diaria en targetDate. El fallo
// de un modelo se loguea y no invalida el otro; solo hay error si fallan los
// dos.
func (c *Client) FetchEnsemble(ctx context.Context, lat, lon float64, targetDate time.Time, unit domain.TempUnit) (domain.Ensemble, error) {
	days := forecastDays(time.Now().UTC(), targetDate)
	date := targetDate.Format("2006-01-02")

	var (
		wg       sync.WaitGroup
		ens      domain.Ensemble
		gfsErr   error
		ecmwfErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		ens.GFSMembers, gfsErr = c.fetchModelMembers(ctx, lat, lon, date, unit, modelGFS, days, gfsMaxMember)
	}()
	go func() {
		defer wg.Done()
		ens.ECMWFMembers, ecmwfErr = c.fetchModelMembers(ctx, lat, lon, date, unit, modelECMWF, days, ecmwfMaxMember)
	}()
	wg.Wait()

	if gfsErr != nil {
		slog.Warn("gfs ensemble fetch failed", "date", date, "err", gfsErr)
	}
	if ecmwfErr != nil {
		slog.Warn("ecmwf ensemble fetch failed", "date", date, "err", ecmwfErr)
	}
	if gfsErr != nil && ecmwfErr != nil {
		return domain.Ensemble{}, fmt.Errorf("openmeteo.FetchEnsemble: both models failed: gfs: %v; ecmwf: %v", gfsErr, ecmwfErr)
	}
	return ens, nil
}

// forecastDays calcula el horizonte a pedir: hasta la fecha objetivo más un
// margen de 2 días, acotado a [3, 16] (el máximo que sirve la API).
func forecastDays(now, target time.Time) int {
	daysOut := int(math.Ceil(target.Sub(now).Hours() / 24))
	if daysOut < 1 {
		daysOut = 1
	}
	days := daysOut + 2
	if days < minForecastDays {
		days = minForecastDays
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}
	return days
}

// fetchModelMembers pide la serie diaria de un modelo y extrae el valor de
// cada miembro en la fecha objetivo.
func (c *Client) fetchModelMembers(ctx context.Context, lat, lon float64, date string, unit domain.TempUnit, model string, days, maxMember int) ([]float64, error) {
	url := fmt.Sprintf("%s?latitude=%g&longitude=%g&daily=temperature_2m_max&models=%s&forecast_days=%d&temperature_unit=%s",
		c.base, lat, lon, model, days, unit)

	var resp ensembleResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return extractMembers(resp.Daily, date, maxMember), nil
}

// ensembleResponse es la respuesta cruda. Las claves de daily dependen del
// número de miembros del modelo, así que se decodifica como mapa.
type ensembleResponse struct {
	Daily map[string]json.RawMessage `json:"daily"`
}

// extractMembers localiza la fecha en la serie "time" y recoge el valor de
// cada miembro en ese índice. Tolera claves de miembro con y sin zero-padding
// y descarta valores null/NaN.
func extractMembers(daily map[string]json.RawMessage, date string, maxMember int) []float64 {
	if daily == nil {
		return nil
	}

	var dates []string
	if raw, ok := daily["time"]; ok {
		if err := json.Unmarshal(raw, &dates); err != nil {
			return nil
		}
	}
	dateIdx := -1
	for i, d := range dates {
		if d == date {
			dateIdx = i
			break
		}
	}
	if dateIdx == -1 {
		return nil
	}

	var members []float64
	for i := 0; i <= maxMember; i++ {
		padded := fmt.Sprintf("temperature_2m_max_member%02d", i)
		unpadded := fmt.Sprintf("temperature_2m_max_member%d", i)

		raw, ok := daily[padded]
		if !ok {
			raw, ok = daily[unpadded]
		}
		if !ok {
			continue
		}

		var series []*float64
		if err := json.Unmarshal(raw, &series); err != nil {
			continue
		}
		if dateIdx >= len(series) || series[dateIdx] == nil {
			continue
		}
		v := *series[dateIdx]
		if math.IsNaN(v) {
			continue
		}
		members = append(members, v)
	}
	return members
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}
