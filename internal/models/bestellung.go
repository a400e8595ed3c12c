package models

import (
	"encoding/xml"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BestellStatus string

const (
	StatusInBearbeitung BestellStatus = "IN_BEARBEITUNG"
	StatusVerschickt    BestellStatus = "VERSCHICKT"
	StatusStorniert     BestellStatus = "STORNIERT"
)

type Bestellung struct {
	XMLName xml.Name `gorm:"-" json:"-" xml:"bestellung" validate:"-"`

	ID      uint          `gorm:"primaryKey" json:"id" xml:"id,attr"`
	Version int           `gorm:"not null" json:"version" xml:"version,attr"`
	Status  BestellStatus `gorm:"size:16;not null" json:"status,omitempty" xml:"status,omitempty"`

	KundeID  uint   `gorm:"not null;index" json:"-" xml:"-" validate:"required"`
	Kunde    *Kunde `gorm:"foreignKey:KundeID" json:"-" xml:"-" validate:"-"`
	KundeURI string `gorm:"-" json:"kundeUri" xml:"kundeUri"`

	Bestellpositionen []Bestellposition `gorm:"foreignKey:BestellungID;constraint:OnDelete:CASCADE" json:"bestellpositionen" xml:"bestellpositionen>bestellposition" validate:"required,min=1,dive"`

	Lieferungen    []Lieferung `gorm:"many2many:bestellung_lieferung;" json:"-" xml:"-" validate:"-"`
	LieferungenURI string      `gorm:"-" json:"lieferungenUri,omitempty" xml:"lieferungenUri,omitempty"`

	Erzeugt      time.Time `gorm:"autoCreateTime" json:"-" xml:"-"`
	Aktualisiert time.Time `gorm:"autoUpdateTime" json:"-" xml:"-"`
}

func (Bestellung) TableName() string { return "bestellung" }

func (b *Bestellung) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusInBearbeitung
	}
	return nil
}

// Gesamtbetrag sums anzahl * preis over all lines with a resolved Artikel.
func (b *Bestellung) Gesamtbetrag() decimal.Decimal {
	sum := decimal.Zero
	for _, bp := range b.Bestellpositionen {
		if bp.Artikel == nil {
			continue
		}
		sum = sum.Add(bp.Artikel.Preis.Mul(decimal.NewFromInt(int64(bp.Anzahl))))
	}
	return sum
}

type Bestellposition struct {
	XMLName xml.Name `gorm:"-" json:"-" xml:"bestellposition" validate:"-"`

	ID           uint  `gorm:"primaryKey" json:"id,omitempty" xml:"id,attr,omitempty"`
	Version      int   `gorm:"not null" json:"version" xml:"version,attr"`
	Anzahl       int16 `gorm:"not null" json:"anzahl" xml:"anzahl" validate:"min=1"`
	BestellungID uint  `gorm:"not null;index" json:"-" xml:"-"`

	ArtikelID  uint     `gorm:"not null;index" json:"-" xml:"-" validate:"required"`
	Artikel    *Artikel `gorm:"foreignKey:ArtikelID" json:"-" xml:"-" validate:"-"`
	ArtikelURI string   `gorm:"-" json:"artikelUri" xml:"artikelUri"`
}

func (Bestellposition) TableName() string { return "bestellposition" }
