package notifier

import (
	"fmt"
	"strings"

	"github.com/guregu/null/v6"

	"MarketSentinel/internal/model"
)

func fmtNull(v null.Float, format string) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf(format, v.Float64)
}

// FormatSnapshot formats a snapshot into a Telegram HTML message.
func FormatSnapshot(s *model.Snapshot) string {
	var b strings.Builder
	ind := s.Indicators

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", s.Instrument, s.AsOfDate))
	b.WriteString(fmt.Sprintf("Close: %.2f (O %.2f H %.2f L %.2f)\n", s.Price.Close, s.Price.Open, s.Price.High, s.Price.Low))
	b.WriteString(fmt.Sprintf("Volume: %d\n\n", s.Price.Volume))

	b.WriteString("📈 <b>Indicators</b>\n")
	b.WriteString(fmt.Sprintf("  Bollinger: %s / %s / %s\n",
		fmtNull(ind.Bollinger.Lower, "%.2f"), fmtNull(ind.Bollinger.MA, "%.2f"), fmtNull(ind.Bollinger.Upper, "%.2f")))
	b.WriteString(fmt.Sprintf("  RSI: %s\n", fmtNull(ind.RSI, "%.1f")))
	b.WriteString(fmt.Sprintf("  MACD: %s (signal %s, hist %s)\n",
		fmtNull(ind.MACD.Line, "%+.3f"), fmtNull(ind.MACD.Signal, "%+.3f"), fmtNull(ind.MACD.Hist, "%+.3f")))
	b.WriteString(fmt.Sprintf("  CMF: %s\n", fmtNull(ind.CMF, "%+.3f")))
	b.WriteString(fmt.Sprintf("  OBV: %s\n\n", fmtNull(ind.OBV, "%.0f")))

	b.WriteString(fmt.Sprintf("Support: %s | Resistance: %s\n",
		fmtNull(s.Levels.SupportHint, "%.2f"), fmtNull(s.Levels.ResistanceHint, "%.2f")))
	b.WriteString(fmt.Sprintf("HV proxy: %s\n", fmtNull(s.Volatility.Proxy, "%.4f")))
	return b.String()
}
