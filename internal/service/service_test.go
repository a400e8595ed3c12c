package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oskar87/swe2/internal/db"
	"github.com/oskar87/swe2/internal/events"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/repository"
	"github.com/oskar87/swe2/internal/service"
	"github.com/oskar87/swe2/internal/validation"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []events.BestellungAngelegtEvent
}

func (p *fakePublisher) PublishBestellungAngelegt(_ context.Context, event events.BestellungAngelegtEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []uint
	kunde []uint
}

func (n *fakeNotifier) BestellungAngelegt(_ context.Context, kunde *models.Kunde, b *models.Bestellung) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, b.ID)
	n.kunde = append(n.kunde, kunde.ID)
	return nil
}

type testEnv struct {
	store        *repository.Store
	artikel      *service.ArtikelService
	kunden       *service.KundeService
	bestellungen *service.BestellungService
	publisher    *fakePublisher
	notifier     *fakeNotifier
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	testDB, err := db.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	v, err := validation.New()
	require.NoError(t, err)

	store := repository.NewStore(testDB)
	logger := zap.NewNop()
	env := &testEnv{
		store:     store,
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
	}
	env.artikel = service.NewArtikelService(store, v, logger)
	env.kunden = service.NewKundeService(store, v, logger)
	env.bestellungen = service.NewBestellungService(store, v, env.publisher, env.notifier, logger)
	return env
}

func newKunde(nachname, email string) *models.Kunde {
	return &models.Kunde{
		Nachname:      nachname,
		Vorname:       "Test",
		Email:         email,
		AgbAkzeptiert: true,
		Adresse: &models.Adresse{
			Plz:     "76133",
			Ort:     "Karlsruhe",
			Strasse: "Moltkestr.",
		},
	}
}

func newArtikel(bezeichnung, preis string) *models.Artikel {
	return &models.Artikel{
		Bezeichnung: bezeichnung,
		Preis:       decimal.RequireFromString(preis),
		Verfuegbar:  true,
	}
}
