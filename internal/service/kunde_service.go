package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/repository"
	"github.com/oskar87/swe2/internal/validation"
)

type KundeService struct {
	store     *repository.Store
	validator *validation.Validator
	logger    *zap.Logger
}

func NewKundeService(store *repository.Store, validator *validation.Validator, logger *zap.Logger) *KundeService {
	return &KundeService{store: store, validator: validator, logger: logger}
}

func (s *KundeService) FindKundeByID(ctx context.Context, id uint, fetch repository.FetchType) (*models.Kunde, error) {
	return s.store.Kunden.FindByID(ctx, id, fetch)
}

func (s *KundeService) FindAllKunden(ctx context.Context, fetch repository.FetchType) ([]models.Kunde, error) {
	return s.store.Kunden.FindAll(ctx, fetch)
}

// FindKundenByNachname returns all Kunden for a blank nachname. An empty
// result is NotFound.
func (s *KundeService) FindKundenByNachname(ctx context.Context, nachname string, fetch repository.FetchType) ([]models.Kunde, error) {
	nachname = strings.TrimSpace(nachname)

	var (
		kunden []models.Kunde
		err    error
	)
	if nachname == "" {
		kunden, err = s.store.Kunden.FindAll(ctx, fetch)
	} else {
		kunden, err = s.store.Kunden.FindByNachname(ctx, nachname, fetch)
	}
	if err != nil {
		return nil, err
	}
	if len(kunden) == 0 {
		if nachname == "" {
			return nil, apperror.NotFound("no Kunden found")
		}
		return nil, apperror.NotFound("no Kunde found with nachname %s", nachname)
	}
	return kunden, nil
}

func (s *KundeService) FindKundeByEmail(ctx context.Context, email string) (*models.Kunde, error) {
	return s.store.Kunden.FindByEmail(ctx, strings.TrimSpace(email))
}

func (s *KundeService) CreateKunde(ctx context.Context, kunde *models.Kunde, locale language.Tag) (*models.Kunde, error) {
	if kunde == nil {
		return nil, nil
	}
	if err := s.validator.Check(kunde, locale, validation.Default); err != nil {
		return nil, err
	}

	kunde.ID = 0
	kunde.Version = 0
	kunde.Bestellungen = nil
	if kunde.Adresse != nil {
		kunde.Adresse.ID = 0
		kunde.Adresse.KundeID = 0
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkEmailUnused(ctx, tx, kunde.Email, 0); err != nil {
			return err
		}
		return tx.Kunden.Create(ctx, kunde)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Kunde created",
		zap.Uint("kunde_id", kunde.ID),
		zap.String("email", kunde.Email))
	return kunde, nil
}

// UpdateKunde writes the editable state of kunde onto the stored Kunde. The
// version sent by the client decides whether the write wins.
func (s *KundeService) UpdateKunde(ctx context.Context, kunde *models.Kunde, locale language.Tag) (*models.Kunde, error) {
	if kunde == nil {
		return nil, nil
	}
	if err := s.validator.Check(kunde, locale, validation.Update); err != nil {
		return nil, err
	}

	var updated *models.Kunde
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Kunden.FindByID(ctx, kunde.ID, repository.NurKunde)
		if err != nil {
			return err
		}
		if !current.Equal(kunde) {
			if err := checkEmailUnused(ctx, tx, kunde.Email, kunde.ID); err != nil {
				return err
			}
		}

		current.SetValues(kunde)
		if err := tx.Kunden.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Kunde updated",
		zap.Uint("kunde_id", updated.ID),
		zap.Int("version", updated.Version))
	return updated, nil
}

func (s *KundeService) DeleteKunde(ctx context.Context, kunde *models.Kunde) error {
	if kunde == nil {
		return nil
	}
	return s.DeleteKundeByID(ctx, kunde.ID)
}

// DeleteKundeByID is idempotent. A Kunde that still has Bestellungen is kept
// and the call fails with a Conflict.
func (s *KundeService) DeleteKundeByID(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Kunden.FindByID(ctx, id, repository.NurKunde); err != nil {
			s.logger.Debug("Kunde to delete not found", zap.Uint("kunde_id", id), zap.Error(err))
			return nil
		}

		n, err := tx.Bestellungen.CountByKundeID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("Kunde with ID %d still has %d Bestellungen", id, n)
		}

		if err := tx.Kunden.Delete(ctx, id); err != nil {
			return err
		}
		s.logger.Info("Kunde deleted", zap.Uint("kunde_id", id))
		return nil
	})
}

// checkEmailUnused fails with Duplicate if a Kunde other than ownerID already
// uses email.
func checkEmailUnused(ctx context.Context, tx *repository.Store, email string, ownerID uint) error {
	existing, err := tx.Kunden.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == ownerID {
		return nil
	}
	return apperror.New(apperror.CodeDuplicate, "email %s already exists", email)
}
