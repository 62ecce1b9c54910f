package bot

import (
	"fmt"
	"strings"
	"time"

	"durak.dev/arrivals/model"
)

const maxDestinationLen = 45

// FormatResult renders a resolved lookup as chat text. Non-live
// sources get a footer so the reader knows the times are placeholders.
func FormatResult(result model.Result, now time.Time) string {
	var b strings.Builder

	name := result.StationName
	if name == "" {
		name = "Bilinmiyor"
	}
	fmt.Fprintf(&b, "🕐 %s itibarıyla\n", now.Format("15:04"))
	fmt.Fprintf(&b, "🚏 %s\n\n", name)

	if len(result.Records) == 0 {
		b.WriteString("Şu an yaklaşan otobüs görünmüyor.\n")
	}

	for _, rec := range result.Records {
		b.WriteString(formatRecord(rec))
		b.WriteByte('\n')
	}

	switch result.Source {
	case model.SourceSynthetic:
		b.WriteString("\n⚠️ Canlı veri alınamadı, tahmini saatler gösteriliyor.")
	case model.SourceDataset:
		b.WriteString("\n⚠️ Canlı veri alınamadı, hat listesinden tahmin üretildi.")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatRecord(rec model.Record) string {
	dest := rec.Destination
	if runes := []rune(dest); len(runes) > maxDestinationLen {
		dest = string(runes[:maxDestinationLen]) + "..."
	}

	var eta string
	switch {
	case rec.ETAMinutes <= 1:
		eta = "🔴 geldi"
	case rec.ETAMinutes <= 5:
		eta = fmt.Sprintf("🟡 %d dk", rec.ETAMinutes)
	default:
		eta = fmt.Sprintf("🟢 %d dk", rec.ETAMinutes)
	}

	line := fmt.Sprintf("🚌 %s → %s: %s", rec.Line, dest, eta)
	if rec.ClockTime != "" {
		line += fmt.Sprintf(" (%s)", rec.ClockTime)
	}
	return line
}
