// Package alert delivers strong-signal notifications to a webhook endpoint.
package alert

import (
	"context"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	drepo "TradePulse/internal/domain/repository"
	xhttp "TradePulse/pkg/http"
	"TradePulse/pkg/logger"
	"TradePulse/pkg/util"
)

// Webhook posts a JSON payload per alert. Delivery is best effort; the
// caller owns retry and de-duplication policy.
type Webhook struct {
	url  string
	http *xhttp.Client
	log  *logger.Logger
}

func NewWebhook(url string, log *logger.Logger) *Webhook {
	return &Webhook{
		url:  url,
		http: xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		log:  log,
	}
}

var _ drepo.Notifier = (*Webhook)(nil)

type payload struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Action    string  `json:"action"`
	Strength  int     `json:"strength"`
	Band      string  `json:"band"`
	Price     float64 `json:"price"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
}

func (w *Webhook) Notify(ctx context.Context, sig models.Signal) error {
	p := payload{
		Symbol:    sig.Symbol,
		Name:      sig.Name,
		Action:    string(sig.Action),
		Strength:  sig.Strength,
		Band:      sig.Band,
		Price:     sig.Indicators.Close,
		Text:      fmt.Sprintf("%s %s %s (strength %d)", sig.Action, sig.Name, util.FormatMoney(sig.Currency, sig.Indicators.Close), sig.Strength),
		Timestamp: sig.Timestamp.UTC().Format(time.RFC3339),
	}

	err := w.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    w.url,
		Body:   p,
	}, nil)
	if err != nil {
		return fmt.Errorf("webhook notify %s: %w", sig.Symbol, err)
	}

	w.log.Info("alert delivered", logger.String("symbol", sig.Symbol), logger.Int("strength", sig.Strength))
	return nil
}
