package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oskar87/swe2/internal/apperror"
)

// Store groups the repositories that share one database handle. A Store
// handed out by Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB

	Kunden       *KundeRepository
	Artikel      *ArtikelRepository
	Bestellungen *BestellungRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Kunden:       &KundeRepository{db: db},
		Artikel:      &ArtikelRepository{db: db},
		Bestellungen: &BestellungRepository{db: db},
	}
}

// Transaction runs fn in one database transaction. fn must only use the tx Store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// updateVersioned writes values to the row with the given id only while its
// stored version still equals version, and bumps the version.
func updateVersioned(ctx context.Context, db *gorm.DB, model any, entity string, id uint, version int, values map[string]any) error {
	values["version"] = version + 1

	res := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", id, version).
		Updates(values)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("failed to update %s", entity))
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("version conflict - %s with ID %d was modified concurrently", entity, id)
	}
	return nil
}

func translate(err error, message string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.Wrap(apperror.CodeNotFound, message, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Wrap(apperror.CodeDuplicate, message, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.Wrap(apperror.CodeConflict, message, err)
	default:
		return fmt.Errorf("%s: %w", message, err)
	}
}
