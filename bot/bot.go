// Package bot is the chat-facing command layer: it maps user messages
// to pipeline queries and renders results as text. It is
// transport-agnostic; whatever delivers messages (Telegram, a REPL)
// just calls HandleMessage.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"durak.dev/arrivals/model"
	"durak.dev/arrivals/store"
)

// StopResolver is the one thing the bot needs from the pipeline.
type StopResolver interface {
	Resolve(ctx context.Context, stopCode string) model.Result
}

type Bot struct {
	Resolver StopResolver
	Store    store.Store
	TimeNow  func() time.Time
	Logger   *slog.Logger
}

func New(resolver StopResolver, st store.Store) *Bot {
	return &Bot{
		Resolver: resolver,
		Store:    st,
		TimeNow:  time.Now,
	}
}

var (
	stopCodeParam    = regexp.MustCompile(`dkod=(\d+)`)
	stationNameParam = regexp.MustCompile(`stationname=([^&\s]+)`)
	bareStopCode     = regexp.MustCompile(`^\d{6,}$`)
)

// HandleMessage dispatches one user message and returns the reply
// text.
func (b *Bot) HandleMessage(ctx context.Context, userID, text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		return b.handleCommand(ctx, userID, text)
	}

	// A pasted stop-detail URL sets the stop and queries right away.
	if strings.Contains(text, "dkod=") {
		return b.handleStopURL(ctx, userID, text)
	}

	if bareStopCode.MatchString(text) {
		b.saveStation(userID, text, "")
		return fmt.Sprintf("Durak %s kaydedildi. Otobüsler için: /otobusler", text)
	}

	return usageText
}

func (b *Bot) handleCommand(ctx context.Context, userID, text string) string {
	fields := strings.Fields(text)
	command := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	switch command {
	case "start", "yardim", "help":
		return helpText

	case "durak":
		if len(args) == 0 {
			return "Durak kodu gerekli. Örnek: /durak 151434"
		}
		code := args[0]
		b.saveStation(userID, code, "")
		return fmt.Sprintf("Durak %s kaydedildi. Otobüsler için: /otobusler", code)

	case "otobusler", "bus":
		return b.queryStation(ctx, userID)

	case "duragim":
		station, ok, err := b.Store.Get(userID)
		if err != nil || !ok {
			return "Kayıtlı durağın yok. Ayarlamak için: /durak <kod>"
		}
		name := station.DisplayName
		if name == "" {
			name = "Bilinmiyor"
		}
		return fmt.Sprintf("Kayıtlı durağın: %s (kod %s)", name, station.StopCode)

	case "sil":
		if err := b.Store.Delete(userID); err != nil {
			return "Durak silinemedi, tekrar dene."
		}
		return "Kayıtlı durağın silindi."

	default:
		return usageText
	}
}

func (b *Bot) handleStopURL(ctx context.Context, userID, text string) string {
	code := ExtractStopCode(text)
	if code == "" {
		return "URL'den durak kodu çıkarılamadı."
	}
	name := ExtractStationName(text)
	b.saveStation(userID, code, name)
	return b.queryStation(ctx, userID)
}

func (b *Bot) queryStation(ctx context.Context, userID string) string {
	station, ok, err := b.Store.Get(userID)
	if err != nil {
		if b.Logger != nil {
			b.Logger.Error("reading station", "user", userID, "error", err)
		}
		return "Durak bilgisi okunamadı, tekrar dene."
	}
	if !ok {
		return "Önce durak ayarla: /durak <kod>"
	}

	result := b.Resolver.Resolve(ctx, station.StopCode)

	station.LastUsed = b.now()
	if result.StationName != "" && station.DisplayName == "" {
		station.DisplayName = result.StationName
	}
	if err := b.Store.Save(station); err != nil && b.Logger != nil {
		b.Logger.Error("saving station", "user", userID, "error", err)
	}

	return FormatResult(result, b.now())
}

func (b *Bot) saveStation(userID, code, name string) {
	err := b.Store.Save(store.Station{
		UserID:      userID,
		StopCode:    code,
		DisplayName: name,
		LastUsed:    b.now(),
	})
	if err != nil && b.Logger != nil {
		b.Logger.Error("saving station", "user", userID, "error", err)
	}
}

func (b *Bot) now() time.Time {
	if b.TimeNow == nil {
		return time.Now()
	}
	return b.TimeNow()
}

// ExtractStopCode pulls the dkod query parameter out of a stop-detail
// URL, or returns "".
func ExtractStopCode(text string) string {
	m := stopCodeParam.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractStationName pulls and decodes the stationname query
// parameter, or returns "".
func ExtractStationName(text string) string {
	m := stationNameParam.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name, err := url.QueryUnescape(m[1])
	if err != nil {
		return ""
	}
	return name
}

const usageText = `Nasıl kullanılır?
- Durak ayarla: /durak <kod>
- Otobüsleri gör: /otobusler
- Durak sayfası URL'si de gönderebilirsin.
Yardım: /yardim`

const helpText = `Otobüs durak botu.

Komutlar:
- /durak <kod>  durak ayarla
- /otobusler    kayıtlı durağı sorgula
- /duragim      kayıtlı durağı göster
- /sil          kayıtlı durağı sil

Durak kodunu durak sayfasının URL'sindeki dkod parametresinden
bulabilirsin; URL'yi doğrudan da yapıştırabilirsin.`
