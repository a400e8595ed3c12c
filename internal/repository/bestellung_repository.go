package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/models"
)

const positionenBatchSize = 100

type BestellungRepository struct {
	db *gorm.DB
}

func (r *BestellungRepository) withPositionen(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Bestellpositionen", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Bestellpositionen.Artikel")
}

func (r *BestellungRepository) FindByID(ctx context.Context, id uint) (*models.Bestellung, error) {
	var bestellung models.Bestellung
	err := r.withPositionen(ctx).First(&bestellung, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("no Bestellung found with ID %d", id)
	}
	if err != nil {
		return nil, translate(err, "failed to find Bestellung")
	}
	return &bestellung, nil
}

// FindByIDs loads the Bestellungen with the given ids together with their
// Lieferungen.
func (r *BestellungRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Bestellung, error) {
	var bestellungen []models.Bestellung
	if len(ids) == 0 {
		return bestellungen, nil
	}
	err := r.withPositionen(ctx).
		Preload("Lieferungen").
		Where("id IN ?", ids).
		Order("id").
		Find(&bestellungen).Error
	if err != nil {
		return nil, translate(err, "failed to find Bestellungen by ids")
	}
	return bestellungen, nil
}

func (r *BestellungRepository) FindByKundeID(ctx context.Context, kundeID uint) ([]models.Bestellung, error) {
	var bestellungen []models.Bestellung
	err := r.withPositionen(ctx).
		Where("kunde_id = ?", kundeID).
		Order("id").
		Find(&bestellungen).Error
	if err != nil {
		return nil, translate(err, "failed to find Bestellungen by kunde")
	}
	return bestellungen, nil
}

// CountByKundeID reports how many Bestellungen reference the Kunde.
func (r *BestellungRepository) CountByKundeID(ctx context.Context, kundeID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Bestellung{}).
		Where("kunde_id = ?", kundeID).
		Count(&n).Error
	if err != nil {
		return 0, translate(err, "failed to count Bestellungen")
	}
	return n, nil
}

func (r *BestellungRepository) FindKundeByBestellungID(ctx context.Context, id uint) (*models.Kunde, error) {
	var kunde models.Kunde
	err := r.db.WithContext(ctx).
		Preload("Adresse").
		Joins("JOIN bestellung ON bestellung.kunde_id = kunde.id").
		Where("bestellung.id = ?", id).
		First(&kunde).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("no Kunde found for Bestellung with ID %d", id)
	}
	if err != nil {
		return nil, translate(err, "failed to find Kunde by Bestellung")
	}
	return &kunde, nil
}

// FindLieferungen returns the Lieferungen of the Bestellung, or NotFound when
// the Bestellung does not exist.
func (r *BestellungRepository) FindLieferungen(ctx context.Context, id uint) ([]models.Lieferung, error) {
	var bestellung models.Bestellung
	err := r.db.WithContext(ctx).
		Preload("Lieferungen", func(db *gorm.DB) *gorm.DB {
			return db.Order("lieferung.id")
		}).
		First(&bestellung, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("no Bestellung found with ID %d", id)
	}
	if err != nil {
		return nil, translate(err, "failed to find Lieferungen")
	}
	return bestellung.Lieferungen, nil
}

// Create inserts the Bestellung and then its lines. No association of the
// Bestellung is written, the owning Kunde in particular stays untouched.
func (r *BestellungRepository) Create(ctx context.Context, bestellung *models.Bestellung) error {
	db := r.db.WithContext(ctx)
	positionen := bestellung.Bestellpositionen

	if err := db.Omit(clause.Associations).Create(bestellung).Error; err != nil {
		return translate(err, "failed to create Bestellung")
	}
	if len(positionen) == 0 {
		return nil
	}
	for i := range positionen {
		positionen[i].BestellungID = bestellung.ID
	}
	if err := db.Omit(clause.Associations).CreateInBatches(&positionen, positionenBatchSize).Error; err != nil {
		return translate(err, "failed to create Bestellpositionen")
	}
	return nil
}

// CreateLieferung inserts a Lieferung and links it to the given Bestellungen.
func (r *BestellungRepository) CreateLieferung(ctx context.Context, lieferung *models.Lieferung, bestellungIDs ...uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(lieferung).Error; err != nil {
			return translate(err, "failed to create Lieferung")
		}
		if len(bestellungIDs) == 0 {
			return nil
		}
		links := make([]map[string]any, 0, len(bestellungIDs))
		for _, id := range bestellungIDs {
			links = append(links, map[string]any{"bestellung_id": id, "lieferung_id": lieferung.ID})
		}
		if err := tx.Table("bestellung_lieferung").Create(&links).Error; err != nil {
			return translate(err, "failed to link Lieferung")
		}
		return nil
	})
}
