package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"market-sentiment/config"
	"net/http"

	"go.uber.org/zap/zapcore"
)

const keySendAlert = "send_alert"

// alertCore mirrors entries flagged with SendAlertField to a Telegram chat
// via the Bot HTTP API. Sending is async so logging never blocks on network.
type alertCore struct {
	cfg      *config.Config
	core     zapcore.Core
	minLevel zapcore.Level
}

func newAlertCore(cfg *config.Config, core zapcore.Core, minLevel zapcore.Level) zapcore.Core {
	return &alertCore{cfg: cfg, core: core, minLevel: minLevel}
}

func (a *alertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *alertCore) With(fields []zapcore.Field) zapcore.Core {
	return &alertCore{
		cfg:      a.cfg,
		core:     a.core.With(fields),
		minLevel: a.minLevel,
	}
}

func (a *alertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *alertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == keySendAlert && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}
	if entry.Level >= a.minLevel && shouldSend {
		go a.sendTelegramAlert(entry, fields)
	}
	return a.core.Write(entry, fields)
}

func (a *alertCore) Sync() error {
	return a.core.Sync()
}

func (a *alertCore) sendTelegramAlert(entry zapcore.Entry, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	fieldStr := ""
	for k, v := range enc.Fields {
		if k == keySendAlert {
			continue
		}
		fieldStr += fmt.Sprintf("• %s: %v\n", k, v)
	}

	message := fmt.Sprintf(
		"🚨 *%s Alert*\n\n*Message:* %s\n\n*Fields:*\n%s\n*Time:* %s",
		entry.Level.CapitalString(),
		entry.Message,
		fieldStr,
		entry.Time.Format("2006-01-02 15:04:05"),
	)

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", a.cfg.Telegram.BotToken)
	payload := map[string]interface{}{
		"chat_id":    a.cfg.Telegram.ChatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	jsonBody, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return
	}
	_ = resp.Body.Close()
}
