package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Flxry/weather-bot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el resultado del ciclo en el modo configurado.
func (c *Console) Notify(_ context.Context, markets []domain.Market, signals []domain.Signal, pf domain.Portfolio) error {
	if len(signals) == 0 {
		fmt.Fprintf(c.out, "[%s] %d markets scanned — no edges found\n",
			time.Now().Format("15:04:05"), len(markets))
		return nil
	}

	if c.table {
		c.printFull(markets, signals, pf)
	} else {
		c.printCompact(markets, signals, pf)
	}

	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(markets []domain.Market, signals []domain.Signal, pf domain.Portfolio) {
	now := time.Now().Format("15:04:05")
	high, med, low := countByConfidence(signals)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d mkts → %d signals H:%d M:%d L:%d | bank $%.2f",
		now, len(markets), len(signals), high, med, low, pf.Bankroll())

	shown := 0
	for _, sig := range signals {
		if shown >= 4 {
			break
		}
		if sig.Confidence == domain.ConfidenceLow {
			break
		}

		label := signalLabel(sig, markets, 22)
		fmt.Fprintf(&sb, " | [%s]%s %s %.0fc edge%+.1f",
			confidenceIcon(sig.Confidence), label, sig.Side,
			sig.EffectivePrice*100, sig.EdgeStrength)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de señales y el estado del portfolio.
func (c *Console) printFull(markets []domain.Market, signals []domain.Signal, pf domain.Portfolio) {
	now := time.Now().Format("15:04:05")
	high, med, low := countByConfidence(signals)

	fmt.Fprintf(c.out, "\n[%s] %d markets — %d signals H:%d M:%d L:%d\n",
		now, len(markets), len(signals), high, med, low)

	c.printSignalTable(markets, signals)
	c.printPortfolio(pf)
}

// printSignalTable imprime la tabla de señales rankeadas.
func (c *Console) printSignalTable(markets []domain.Market, signals []domain.Signal) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Conf", "Market", "Bucket", "Side", "Price", "Model", "Edge", "Rel%", "Agree")

	for i, sig := range signals {
		agree := "no"
		if sig.ModelsAgree {
			agree = fmt.Sprintf("yes (Δ%.1f)", sig.ModelSpread)
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			confidenceIcon(sig.Confidence),
			signalLabel(sig, markets, 28),
			truncate(sig.Label, 14),
			string(sig.Side),
			fmt.Sprintf("%.0fc", sig.EffectivePrice*100),
			fmt.Sprintf("%.1f%%", sig.EffectiveModelProb*100),
			fmt.Sprintf("%+.1f", sig.EdgeStrength),
			fmt.Sprintf("%+.0f%%", sig.RelEdge),
			agree,
		)
	}

	table.Render()

	fmt.Fprintln(c.out, "  Price = coste por share del lado elegido | Model = prob del ensemble")
	fmt.Fprintln(c.out, "  Edge = model − price en puntos | Rel% = edge relativo al precio")
	fmt.Fprintln(c.out, "  Conf: [H] spread<umbral y edge≥2×min | [M] una de las dos | [L] ninguna")
}

// printPortfolio imprime posiciones abiertas y estadísticas acumuladas.
func (c *Console) printPortfolio(pf domain.Portfolio) {
	open := pf.OpenTrades()
	stats := pf.Stats()

	fmt.Fprintf(c.out, "\n=== PORTFOLIO — bankroll $%.2f | open %d/%d | deployed $%.2f ===\n",
		pf.Bankroll(), len(open), pf.Settings.MaxPositions, stats.OpenCost)

	if len(open) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Header("ID", "City", "Date", "Bucket", "Side", "Entry", "Shares", "Cost", "Opened")

		for _, t := range open {
			table.Append(
				fmt.Sprintf("%d", t.ID),
				t.City,
				t.TargetDate.Format("Jan 2"),
				truncate(t.BucketLabel, 14),
				string(t.Side),
				fmt.Sprintf("%.0fc", t.EntryPrice*100),
				fmt.Sprintf("%.2f", t.Shares),
				fmt.Sprintf("$%.2f", t.Cost),
				t.OpenedAt.Format("01-02 15:04"),
			)
		}
		table.Render()
	}

	if stats.ClosedTrades == 0 {
		fmt.Fprintln(c.out)
		return
	}

	fmt.Fprintf(c.out, "  Closed: %d | W/L: %d/%d (%.0f%%) | PnL: $%.2f | avg win $%.2f / avg loss $%.2f\n\n",
		stats.ClosedTrades, stats.Wins, stats.Losses, stats.WinRate,
		stats.TotalPnL, stats.AvgWin, stats.AvgLoss)
}

// PrintHistory imprime el historial completo de trades cerrados. Lo usa el
// flag -history, que imprime y sale sin escanear.
func (c *Console) PrintHistory(pf domain.Portfolio) {
	var closed []domain.Trade
	for _, t := range pf.Trades {
		if t.Status == domain.TradeClosed {
			closed = append(closed, t)
		}
	}

	if len(closed) == 0 {
		fmt.Fprintln(c.out, "\n  No closed trades yet.")
		c.printPortfolio(pf)
		return
	}

	fmt.Fprintf(c.out, "\n=== TRADE HISTORY — %d closed ===\n", len(closed))

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "City", "Date", "Bucket", "Side", "Entry", "Exit", "PnL", "Reason")

	for _, t := range closed {
		table.Append(
			fmt.Sprintf("%d", t.ID),
			t.City,
			t.TargetDate.Format("Jan 2"),
			truncate(t.BucketLabel, 14),
			string(t.Side),
			fmt.Sprintf("%.0fc", t.EntryPrice*100),
			fmt.Sprintf("%.0fc", t.ExitPrice*100),
			fmt.Sprintf("$%+.2f", t.PnL),
			string(t.ExitReason),
		)
	}
	table.Render()

	c.printPortfolio(pf)
}

// --- helpers ---

func countByConfidence(signals []domain.Signal) (high, med, low int) {
	for _, s := range signals {
		switch s.Confidence {
		case domain.ConfidenceHigh:
			high++
		case domain.ConfidenceMed:
			med++
		case domain.ConfidenceLow:
			low++
		}
	}
	return
}

func confidenceIcon(c domain.Confidence) string {
	switch c {
	case domain.ConfidenceHigh:
		return "H"
	case domain.ConfidenceMed:
		return "M"
	default:
		return "L"
	}
}

// signalLabel localiza el mercado dueño del bucket para mostrar ciudad y
// fecha; si no aparece cae al label del bucket.
func signalLabel(sig domain.Signal, markets []domain.Market, maxLen int) string {
	for _, m := range markets {
		if _, ok := m.BucketByID(sig.ID); ok {
			return truncate(fmt.Sprintf("%s %s", m.City, m.TargetDate.Format("Jan 2")), maxLen)
		}
	}
	return truncate(sig.Label, maxLen)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
