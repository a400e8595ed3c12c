package models

import (
	"encoding/xml"
	"time"

	"gorm.io/gorm"
)

const (
	KundeTypPrivat = "P"
	KundeTypFirma  = "F"
)

type Kunde struct {
	XMLName xml.Name `gorm:"-" json:"-" xml:"kunde" validate:"-"`

	ID            uint      `gorm:"primaryKey" json:"id" xml:"id,attr" validate:"required"`
	Version       int       `gorm:"not null" json:"version" xml:"version,attr"`
	Nachname      string    `gorm:"size:32;not null;index" json:"nachname" xml:"nachname" validate:"required,min=2,max=32"`
	Vorname       string    `gorm:"size:32" json:"vorname" xml:"vorname" validate:"max=32"`
	Kategorie     int16     `gorm:"not null" json:"kategorie" xml:"kategorie" validate:"gte=0,lte=3"`
	Email         string    `gorm:"size:128;uniqueIndex;not null" json:"email" xml:"email" validate:"required,email,max=128"`
	Telefon       string    `gorm:"size:32" json:"telefon,omitempty" xml:"telefon,omitempty" validate:"omitempty,e164"`
	Newsletter    bool      `gorm:"not null" json:"newsletter" xml:"newsletter"`
	AgbAkzeptiert bool      `gorm:"not null" json:"agbAkzeptiert" xml:"agbAkzeptiert" validate:"eq=true"`
	Seit          time.Time `json:"seit" xml:"seit"`
	Type          string    `gorm:"size:1;not null" json:"type" xml:"type" validate:"omitempty,oneof=P F"`
	Adresse       *Adresse  `gorm:"foreignKey:KundeID;constraint:OnDelete:CASCADE" json:"adresse" xml:"adresse" validate:"required"`

	// Not cascaded: deleting a Kunde must never take its Bestellungen with it.
	Bestellungen    []Bestellung `gorm:"foreignKey:KundeID" json:"-" xml:"-" validate:"-"`
	BestellungenURI string       `gorm:"-" json:"bestellungenUri,omitempty" xml:"bestellungenUri,omitempty"`

	Erzeugt      time.Time `gorm:"autoCreateTime" json:"-" xml:"-"`
	Aktualisiert time.Time `gorm:"autoUpdateTime" json:"-" xml:"-"`
}

func (Kunde) TableName() string { return "kunde" }

func (k *Kunde) BeforeCreate(tx *gorm.DB) error {
	if k.Type == "" {
		k.Type = KundeTypPrivat
	}
	if k.Seit.IsZero() {
		k.Seit = time.Now()
	}
	return nil
}

// Equal compares by email, the business key of a Kunde.
func (k *Kunde) Equal(other *Kunde) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.Email == other.Email
}

// SetValues copies the client-editable state of other onto k, keeping identity
// and the stored address row.
func (k *Kunde) SetValues(other *Kunde) {
	k.Version = other.Version
	k.Nachname = other.Nachname
	k.Vorname = other.Vorname
	k.Kategorie = other.Kategorie
	k.Email = other.Email
	k.Telefon = other.Telefon
	k.Newsletter = other.Newsletter
	k.AgbAkzeptiert = other.AgbAkzeptiert
	if !other.Seit.IsZero() {
		k.Seit = other.Seit
	}
	if other.Type != "" {
		k.Type = other.Type
	}
	if other.Adresse == nil {
		return
	}
	if k.Adresse == nil {
		k.Adresse = &Adresse{}
	}
	k.Adresse.Plz = other.Adresse.Plz
	k.Adresse.Ort = other.Adresse.Ort
	k.Adresse.Strasse = other.Adresse.Strasse
	k.Adresse.Hausnummer = other.Adresse.Hausnummer
}

type Adresse struct {
	XMLName xml.Name `gorm:"-" json:"-" xml:"adresse" validate:"-"`

	ID         uint   `gorm:"primaryKey" json:"-" xml:"-"`
	Version    int    `gorm:"not null" json:"-" xml:"-"`
	Plz        string `gorm:"size:5;not null" json:"plz" xml:"plz" validate:"required,len=5,numeric"`
	Ort        string `gorm:"size:32;not null" json:"ort" xml:"ort" validate:"required,max=32"`
	Strasse    string `gorm:"size:32;not null" json:"strasse" xml:"strasse" validate:"required,max=32"`
	Hausnummer string `gorm:"size:4" json:"hausnummer,omitempty" xml:"hausnummer,omitempty" validate:"max=4"`
	KundeID    uint   `gorm:"uniqueIndex;not null" json:"-" xml:"-"`

	Erzeugt      time.Time `gorm:"autoCreateTime" json:"-" xml:"-"`
	Aktualisiert time.Time `gorm:"autoUpdateTime" json:"-" xml:"-"`
}

func (Adresse) TableName() string { return "adresse" }
