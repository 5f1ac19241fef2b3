package scanner

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Flxry/weather-bot/internal/domain"
)

// normalizer.go — convierte eventos crudos en Markets analizables: ciudad,
// fecha objetivo, unidad y buckets parseados y ordenados.

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

var (
	// "on February 10, 2026" / "on February 10" / "on Feb 10 2026"
	titleDateRe = regexp.MustCompile(`on\s+(\w+)\s+(\d{1,2})(?:,?\s*(\d{4}))?`)
	isoDateRe   = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
)

// Normalize convierte un evento crudo en un Market. ok=false si no tiene
// ningún bucket parseable — el evento se descarta, no es un error. La fecha
// actual se pasa explícitamente para que el cómputo de resolución sea puro.
func Normalize(ev domain.RawEvent, now time.Time) (domain.Market, bool) {
	m := domain.Market{
		EventID: ev.ID,
		Title:   ev.Title,
		Slug:    ev.Slug,
		Active:  ev.Active,
		Volume:  ev.Volume,
	}

	if city, ok := domain.ExtractCity(ev.Title); ok {
		m.City = city.Name
		m.Location = city
		m.HasCity = true
	}
	m.TargetDate = extractDate(ev.Title, now)

	for _, raw := range ev.Markets {
		b, ok := domain.ParseBucketLabel(raw.Label)
		if !ok {
			continue // label irreconocible: bucket excluido en silencio
		}
		b.ID = raw.ID
		b.TokenID = raw.TokenID
		b.YesPrice = raw.YesPrice
		b.Active = raw.Active
		b.Closed = raw.Closed
		b.AcceptingOrders = raw.AcceptingOrders
		m.Buckets = append(m.Buckets, b)
	}
	if len(m.Buckets) == 0 {
		return domain.Market{}, false
	}

	sort.SliceStable(m.Buckets, func(i, j int) bool {
		return m.Buckets[i].SortKey() < m.Buckets[j].SortKey()
	})

	// Unidad: la detectada en los labels manda sobre el default de la ciudad.
	m.Unit = detectUnit(m.Buckets, m.Location)

	_, m.HasSettledBucket = m.SettledBucket()
	m.Resolved = computeResolved(m, ev, now)
	return m, true
}

// computeResolved: un mercado está resuelto si algún bucket cotiza YES ≥ 0.95,
// la fecha objetivo ya pasó, todos los contratos están cerrados, o el evento
// viene marcado como cerrado.
func computeResolved(m domain.Market, ev domain.RawEvent, now time.Time) bool {
	if m.HasSettledBucket || ev.Closed {
		return true
	}
	if !m.TargetDate.IsZero() {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if m.TargetDate.Before(today) {
			return true
		}
	}
	if len(ev.Markets) > 0 {
		allClosed := true
		for _, raw := range ev.Markets {
			if !raw.Closed {
				allClosed = false
				break
			}
		}
		if allClosed {
			return true
		}
	}
	return false
}

// extractDate saca la fecha objetivo del título: primero el patrón natural
// "on <Month> <Day>[, <Year>]" (año en curso si se omite), después ISO
// YYYY-MM-DD. Zero value si no hay fecha.
func extractDate(title string, now time.Time) time.Time {
	lower := strings.ToLower(title)

	if m := titleDateRe.FindStringSubmatch(lower); m != nil {
		if month, ok := months[m[1]]; ok {
			day, _ := strconv.Atoi(m[2])
			year := now.Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		}
	}

	if m := isoDateRe.FindStringSubmatch(title); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// detectUnit determina la unidad de temperatura del mercado.
func detectUnit(buckets []domain.Bucket, loc domain.City) domain.TempUnit {
	for _, b := range buckets {
		switch b.Unit {
		case "C":
			return domain.UnitCelsius
		case "F":
			return domain.UnitFahrenheit
		}
	}
	if loc.Unit != "" {
		return loc.Unit
	}
	return domain.UnitFahrenheit
}
