package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fx-signal-alerts/internal/signal"
)

// Alert couples an approved signal with an optional rendered chart.
type Alert struct {
	Signal signal.Signal
	Chart  []byte
}

// Notifier delivers approved signals on a best-effort basis.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// TelegramNotifier pushes signals through the Telegram Bot API, as a photo
// with caption when a chart is attached, as plain text otherwise.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram delivery channel.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify delivers the alert. A photo payload falls back to sendMessage when
// the chart is absent.
func (n *TelegramNotifier) Notify(ctx context.Context, alert Alert) error {
	var err error
	if len(alert.Chart) > 0 {
		err = n.sendPhoto(ctx, alert.Chart, renderMessage(alert.Signal))
	} else {
		err = n.sendMessage(ctx, renderMessage(alert.Signal))
	}
	if err != nil {
		return err
	}

	n.logger.Info().
		Str("instrument", alert.Signal.Instrument).
		Str("action", string(alert.Signal.Action)).
		Int("confidence", alert.Signal.Confidence).
		Bool("chart", len(alert.Chart) > 0).
		Msg("signal delivered")
	return nil
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return n.do(req)
}

func (n *TelegramNotifier) sendPhoto(ctx context.Context, photo []byte, caption string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", n.chatID); err != nil {
		return fmt.Errorf("write chat_id field: %w", err)
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return fmt.Errorf("write caption field: %w", err)
	}
	part, err := writer.CreateFormFile("photo", "signal.png")
	if err != nil {
		return fmt.Errorf("create photo part: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(photo)); err != nil {
		return fmt.Errorf("copy photo bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return n.do(req)
}

func (n *TelegramNotifier) do(req *http.Request) error {
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}
	return nil
}

func renderMessage(sig signal.Signal) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("[FX Signal] %s %s\n", sig.Action, sig.Instrument))
	builder.WriteString(fmt.Sprintf("Entry: %s\n", sig.Entry.StringFixed(5)))
	if !sig.StopLoss.IsZero() {
		builder.WriteString(fmt.Sprintf("Stop loss: %s\n", sig.StopLoss.StringFixed(5)))
	}
	if !sig.TakeProfit.IsZero() {
		builder.WriteString(fmt.Sprintf("Take profit: %s\n", sig.TakeProfit.StringFixed(5)))
	}
	builder.WriteString(fmt.Sprintf("Confidence: %d%%\n", sig.Confidence))
	builder.WriteString(fmt.Sprintf("Risk: %s\n", sig.Risk))

	if len(sig.Reasons) > 0 {
		builder.WriteString("Reasons:\n")
		reasons := sig.Reasons
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}
		for i, reason := range reasons {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, reason))
		}
	}

	builder.WriteString(fmt.Sprintf("Evaluated: %s UTC", sig.EvaluatedAt.UTC().Format(time.RFC3339)))
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
