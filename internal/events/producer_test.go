package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oskar87/swe2/internal/events"
	"github.com/oskar87/swe2/internal/models"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testBestellung() *models.Bestellung {
	return &models.Bestellung{
		ID:      7,
		KundeID: 3,
		Status:  models.StatusInBearbeitung,
		Bestellpositionen: []models.Bestellposition{
			{Anzahl: 2, ArtikelID: 11, Artikel: &models.Artikel{ID: 11, Preis: decimal.RequireFromString("10.50")}},
		},
	}
}

func TestNewBestellungAngelegt(t *testing.T) {
	event := events.NewBestellungAngelegt(testBestellung(), "req-1")

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, events.TypeBestellungAngelegt, event.Type)
	assert.Equal(t, uint(7), event.BestellungID)
	assert.Equal(t, uint(3), event.KundeID)
	assert.Equal(t, "IN_BEARBEITUNG", event.Status)
	assert.Equal(t, []events.Position{{ArtikelID: 11, Anzahl: 2}}, event.Positionen)
	assert.Equal(t, "21", event.Gesamtbetrag.String())
	assert.Equal(t, "req-1", event.RequestID)
}

func TestKafkaProducerPublish(t *testing.T) {
	writer := &fakeWriter{}
	producer := events.NewProducerWithWriter(writer, zap.NewNop())

	event := events.NewBestellungAngelegt(testBestellung(), "")
	require.NoError(t, producer.PublishBestellungAngelegt(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "BESTELLUNG#7", string(msg.Key))

	var decoded events.BestellungAngelegtEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.True(t, event.Gesamtbetrag.Equal(decoded.Gesamtbetrag))

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}

func TestKafkaProducerPublishError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	producer := events.NewProducerWithWriter(writer, zap.NewNop())

	err := producer.PublishBestellungAngelegt(context.Background(), events.NewBestellungAngelegt(testBestellung(), ""))
	assert.EqualError(t, err, "broker down")
}
