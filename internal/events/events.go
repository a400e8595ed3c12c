package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oskar87/swe2/internal/models"
)

const TypeBestellungAngelegt = "BESTELLUNG_ANGELEGT"

type Position struct {
	ArtikelID uint  `json:"artikel_id"`
	Anzahl    int16 `json:"anzahl"`
}

// BestellungAngelegtEvent is published once a new Bestellung is committed.
type BestellungAngelegtEvent struct {
	EventID      string          `json:"event_id"`
	Type         string          `json:"type"`
	BestellungID uint            `json:"bestellung_id"`
	KundeID      uint            `json:"kunde_id"`
	Status       string          `json:"status"`
	Positionen   []Position      `json:"positionen"`
	Gesamtbetrag decimal.Decimal `json:"gesamtbetrag"`
	Timestamp    time.Time       `json:"timestamp"`
	RequestID    string          `json:"request_id,omitempty"`
}

func NewBestellungAngelegt(b *models.Bestellung, requestID string) BestellungAngelegtEvent {
	positionen := make([]Position, 0, len(b.Bestellpositionen))
	for _, bp := range b.Bestellpositionen {
		positionen = append(positionen, Position{ArtikelID: bp.ArtikelID, Anzahl: bp.Anzahl})
	}
	return BestellungAngelegtEvent{
		EventID:      uuid.New().String(),
		Type:         TypeBestellungAngelegt,
		BestellungID: b.ID,
		KundeID:      b.KundeID,
		Status:       string(b.Status),
		Positionen:   positionen,
		Gesamtbetrag: b.Gesamtbetrag(),
		Timestamp:    time.Now().UTC(),
		RequestID:    requestID,
	}
}

type Publisher interface {
	PublishBestellungAngelegt(ctx context.Context, event BestellungAngelegtEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBestellungAngelegt(context.Context, BestellungAngelegtEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
