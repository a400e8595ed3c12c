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

type ArtikelService struct {
	store     *repository.Store
	validator *validation.Validator
	logger    *zap.Logger
}

func NewArtikelService(store *repository.Store, validator *validation.Validator, logger *zap.Logger) *ArtikelService {
	return &ArtikelService{store: store, validator: validator, logger: logger}
}

func (s *ArtikelService) FindVerfuegbareArtikel(ctx context.Context) ([]models.Artikel, error) {
	return s.store.Artikel.FindVerfuegbare(ctx)
}

func (s *ArtikelService) FindArtikelByID(ctx context.Context, id uint) (*models.Artikel, error) {
	return s.store.Artikel.FindByID(ctx, id)
}

// FindArtikelByBezeichnung falls back to the available Artikel for a blank
// search term.
func (s *ArtikelService) FindArtikelByBezeichnung(ctx context.Context, bezeichnung string) ([]models.Artikel, error) {
	bezeichnung = strings.TrimSpace(bezeichnung)
	if bezeichnung == "" {
		return s.FindVerfuegbareArtikel(ctx)
	}
	return s.store.Artikel.FindByBezeichnung(ctx, bezeichnung)
}

func (s *ArtikelService) FindArtikelByIDs(ctx context.Context, ids []uint) ([]models.Artikel, error) {
	if len(ids) == 0 {
		return []models.Artikel{}, nil
	}
	return s.store.Artikel.FindByIDs(ctx, ids)
}

func (s *ArtikelService) CreateArtikel(ctx context.Context, artikel *models.Artikel, locale language.Tag) (*models.Artikel, error) {
	if artikel == nil {
		return nil, nil
	}
	if err := s.validator.Check(artikel, locale, validation.Default); err != nil {
		return nil, err
	}

	artikel.ID = 0
	artikel.Version = 0
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Artikel.Create(ctx, artikel)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Artikel created",
		zap.Uint("artikel_id", artikel.ID),
		zap.String("bezeichnung", artikel.Bezeichnung))
	return artikel, nil
}

// UpdateArtikel writes artikel if it still exists and its version is current.
// A vanished Artikel is ConcurrentlyDeleted, a stale version a Conflict.
func (s *ArtikelService) UpdateArtikel(ctx context.Context, artikel *models.Artikel, locale language.Tag) (*models.Artikel, error) {
	if artikel == nil {
		return nil, nil
	}
	if err := s.validator.Check(artikel, locale, validation.Update); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Artikel.FindByID(ctx, artikel.ID); err != nil {
			if apperror.IsCode(err, apperror.CodeNotFound) {
				return apperror.ConcurrentlyDeleted("Artikel", artikel.ID)
			}
			return err
		}
		return tx.Artikel.Update(ctx, artikel)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Artikel updated",
		zap.Uint("artikel_id", artikel.ID),
		zap.Int("version", artikel.Version))
	return artikel, nil
}

func (s *ArtikelService) DeleteArtikel(ctx context.Context, artikel *models.Artikel) error {
	if artikel == nil {
		return nil
	}
	return s.DeleteArtikelByID(ctx, artikel.ID)
}

// DeleteArtikelByID is idempotent: an Artikel that cannot be found counts as
// deleted.
func (s *ArtikelService) DeleteArtikelByID(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Artikel.FindByID(ctx, id); err != nil {
			s.logger.Debug("Artikel to delete not found", zap.Uint("artikel_id", id), zap.Error(err))
			return nil
		}
		if err := tx.Artikel.Delete(ctx, id); err != nil {
			return err
		}
		s.logger.Info("Artikel deleted", zap.Uint("artikel_id", id))
		return nil
	})
}
