package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/models"
)

// FetchType controls which associations a Kunde lookup loads.
type FetchType int

const (
	NurKunde FetchType = iota
	MitBestellungen
)

type KundeRepository struct {
	db *gorm.DB
}

func (r *KundeRepository) query(ctx context.Context, fetch FetchType) *gorm.DB {
	q := r.db.WithContext(ctx).Preload("Adresse")
	if fetch == MitBestellungen {
		q = q.Preload("Bestellungen", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).Preload("Bestellungen.Bestellpositionen")
	}
	return q
}

func (r *KundeRepository) FindByID(ctx context.Context, id uint, fetch FetchType) (*models.Kunde, error) {
	var kunde models.Kunde
	err := r.query(ctx, fetch).First(&kunde, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("no Kunde found with ID %d", id)
	}
	if err != nil {
		return nil, translate(err, "failed to find Kunde")
	}
	return &kunde, nil
}

func (r *KundeRepository) FindByEmail(ctx context.Context, email string) (*models.Kunde, error) {
	var kunde models.Kunde
	err := r.query(ctx, NurKunde).Where("email = ?", email).First(&kunde).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("no Kunde found with email %s", email)
	}
	if err != nil {
		return nil, translate(err, "failed to find Kunde by email")
	}
	return &kunde, nil
}

func (r *KundeRepository) FindAll(ctx context.Context, fetch FetchType) ([]models.Kunde, error) {
	var kunden []models.Kunde
	if err := r.query(ctx, fetch).Order("id").Find(&kunden).Error; err != nil {
		return nil, translate(err, "failed to find Kunden")
	}
	return kunden, nil
}

func (r *KundeRepository) FindByNachname(ctx context.Context, nachname string, fetch FetchType) ([]models.Kunde, error) {
	var kunden []models.Kunde
	err := r.query(ctx, fetch).
		Where("nachname = ?", nachname).
		Order("id").
		Find(&kunden).Error
	if err != nil {
		return nil, translate(err, "failed to find Kunden by nachname")
	}
	return kunden, nil
}

// Create inserts the Kunde together with its Adresse. Bestellungen are never
// written through the Kunde.
func (r *KundeRepository) Create(ctx context.Context, kunde *models.Kunde) error {
	if err := r.db.WithContext(ctx).Omit("Bestellungen").Create(kunde).Error; err != nil {
		return translate(err, "failed to create Kunde")
	}
	return nil
}

// Update writes kunde and its Adresse if the Kunde version is still current.
func (r *KundeRepository) Update(ctx context.Context, kunde *models.Kunde) error {
	now := time.Now()
	err := updateVersioned(ctx, r.db, &models.Kunde{}, "Kunde", kunde.ID, kunde.Version, map[string]any{
		"nachname":       kunde.Nachname,
		"vorname":        kunde.Vorname,
		"kategorie":      kunde.Kategorie,
		"email":          kunde.Email,
		"telefon":        kunde.Telefon,
		"newsletter":     kunde.Newsletter,
		"agb_akzeptiert": kunde.AgbAkzeptiert,
		"seit":           kunde.Seit,
		"type":           kunde.Type,
		"aktualisiert":   now,
	})
	if err != nil {
		return err
	}
	kunde.Version++
	kunde.Aktualisiert = now

	if kunde.Adresse == nil {
		return nil
	}
	err = r.db.WithContext(ctx).
		Model(&models.Adresse{}).
		Where("kunde_id = ?", kunde.ID).
		Updates(map[string]any{
			"plz":          kunde.Adresse.Plz,
			"ort":          kunde.Adresse.Ort,
			"strasse":      kunde.Adresse.Strasse,
			"hausnummer":   kunde.Adresse.Hausnummer,
			"version":      gorm.Expr("version + 1"),
			"aktualisiert": now,
		}).Error
	if err != nil {
		return translate(err, "failed to update Adresse")
	}
	return nil
}

func (r *KundeRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("kunde_id = ?", id).Delete(&models.Adresse{}).Error; err != nil {
		return translate(err, "failed to delete Adresse")
	}
	if err := db.Delete(&models.Kunde{}, id).Error; err != nil {
		return translate(err, "failed to delete Kunde")
	}
	return nil
}
