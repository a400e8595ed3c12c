package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/db"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/repository"
)

func setupStore(t *testing.T) *repository.Store {
	t.Helper()

	// Every test gets its own in-memory database
	testDB, err := db.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return repository.NewStore(testDB)
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

func newArtikel(bezeichnung, preis string, verfuegbar bool) *models.Artikel {
	return &models.Artikel{
		Bezeichnung: bezeichnung,
		Preis:       decimal.RequireFromString(preis),
		Verfuegbar:  verfuegbar,
	}
}

func TestTransactionRollsBack(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx *repository.Store) error {
		require.NoError(t, tx.Artikel.Create(ctx, newArtikel("Tisch", "49.90", true)))
		return apperror.Conflict("abort")
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	artikel, err := store.Artikel.FindVerfuegbare(ctx)
	require.NoError(t, err)
	assert.Empty(t, artikel)
}

func TestTransactionCommits(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a := newArtikel("Stuhl", "19.90", true)
	err := store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Artikel.Create(ctx, a)
	})
	require.NoError(t, err)

	found, err := store.Artikel.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stuhl", found.Bezeichnung)
}

func TestPing(t *testing.T) {
	store := setupStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
