package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/models"
)

type ArtikelRepository struct {
	db *gorm.DB
}

func (r *ArtikelRepository) FindByID(ctx context.Context, id uint) (*models.Artikel, error) {
	var artikel models.Artikel
	err := r.db.WithContext(ctx).First(&artikel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("no Artikel found with ID %d", id)
	}
	if err != nil {
		return nil, translate(err, "failed to find Artikel")
	}
	return &artikel, nil
}

func (r *ArtikelRepository) FindVerfuegbare(ctx context.Context) ([]models.Artikel, error) {
	var artikel []models.Artikel
	err := r.db.WithContext(ctx).
		Where("verfuegbar = ?", true).
		Order("id").
		Find(&artikel).Error
	if err != nil {
		return nil, translate(err, "failed to find verfuegbare Artikel")
	}
	return artikel, nil
}

// FindByBezeichnung matches bezeichnung as a substring.
func (r *ArtikelRepository) FindByBezeichnung(ctx context.Context, bezeichnung string) ([]models.Artikel, error) {
	var artikel []models.Artikel
	err := r.db.WithContext(ctx).
		Where("bezeichnung LIKE ?", "%"+bezeichnung+"%").
		Order("id").
		Find(&artikel).Error
	if err != nil {
		return nil, translate(err, "failed to find Artikel by bezeichnung")
	}
	return artikel, nil
}

// FindByIDs loads all Artikel with the given ids in one query. Unknown ids are
// silently absent from the result.
func (r *ArtikelRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Artikel, error) {
	var artikel []models.Artikel
	if len(ids) == 0 {
		return artikel, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id").
		Find(&artikel).Error
	if err != nil {
		return nil, translate(err, "failed to find Artikel by ids")
	}
	return artikel, nil
}

func (r *ArtikelRepository) Create(ctx context.Context, artikel *models.Artikel) error {
	if err := r.db.WithContext(ctx).Create(artikel).Error; err != nil {
		return translate(err, "failed to create Artikel")
	}
	return nil
}

// Update writes artikel if its version is still current and advances
// artikel.Version on success.
func (r *ArtikelRepository) Update(ctx context.Context, artikel *models.Artikel) error {
	now := time.Now()
	err := updateVersioned(ctx, r.db, &models.Artikel{}, "Artikel", artikel.ID, artikel.Version, map[string]any{
		"bezeichnung":  artikel.Bezeichnung,
		"preis":        artikel.Preis,
		"verfuegbar":   artikel.Verfuegbar,
		"aktualisiert": now,
	})
	if err != nil {
		return err
	}
	artikel.Version++
	artikel.Aktualisiert = now
	return nil
}

func (r *ArtikelRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Artikel{}, id).Error; err != nil {
		return translate(err, "failed to delete Artikel")
	}
	return nil
}
