package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	config "github.com/oskar87/swe2/configs"
	"github.com/oskar87/swe2/internal/models"
)

type SMSResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SMSNotifier sends order confirmations through the Africa's Talking
// messaging API.
type SMSNotifier struct {
	cfg    config.AfricaTalkingConfig
	client *http.Client
	logger *zap.Logger
}

func NewSMSNotifier(cfg config.AfricaTalkingConfig, logger *zap.Logger) *SMSNotifier {
	return &SMSNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// BestellungAngelegt is a no-op for a Kunde without a phone number.
func (n *SMSNotifier) BestellungAngelegt(ctx context.Context, kunde *models.Kunde, b *models.Bestellung) error {
	if kunde == nil || kunde.Telefon == "" {
		return nil
	}
	return n.send(ctx, kunde.Telefon, b)
}

func (n *SMSNotifier) send(ctx context.Context, toPhoneNumber string, b *models.Bestellung) error {
	message := fmt.Sprintf(
		"Ihre Bestellung #%d ist eingegangen! Gesamtbetrag: EUR %s. Vielen Dank fuer Ihren Einkauf!",
		b.ID, b.Gesamtbetrag().StringFixed(2))

	data := url.Values{}
	data.Set("username", n.cfg.Username)
	data.Set("to", toPhoneNumber)
	data.Set("message", message)
	data.Set("from", n.cfg.SenderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.SMSURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", n.cfg.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("SMS send failed",
			zap.String("to", toPhoneNumber),
			zap.Uint("bestellung_id", b.ID),
			zap.Error(err))
		return fmt.Errorf("SMS send failed: %w", err)
	}
	defer resp.Body.Close()

	var smsResp SMSResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&smsResp)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		if decodeErr == nil {
			n.logger.Error("SMS API returned error",
				zap.Int("status", resp.StatusCode),
				zap.String("message", smsResp.SMSMessageData.Message),
				zap.Uint("bestellung_id", b.ID))
		}
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode SMS response: %w", decodeErr)
	}

	n.logger.Info("SMS sent",
		zap.String("to", toPhoneNumber),
		zap.Uint("bestellung_id", b.ID),
		zap.String("message", smsResp.SMSMessageData.Message))
	return nil
}
