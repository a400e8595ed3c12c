package models

import (
	"encoding/xml"
	"time"

	"github.com/shopspring/decimal"
)

type Artikel struct {
	XMLName xml.Name `gorm:"-" json:"-" xml:"artikel" validate:"-"`

	ID          uint            `gorm:"primaryKey" json:"id" xml:"id,attr" validate:"required"`
	Version     int             `gorm:"not null" json:"version" xml:"version,attr"`
	Bezeichnung string          `gorm:"size:32;not null;index" json:"bezeichnung" xml:"bezeichnung" validate:"required,max=32"`
	Preis       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"preis" xml:"preis" validate:"gt=0"`
	Verfuegbar  bool            `gorm:"not null" json:"verfuegbar" xml:"verfuegbar"`

	Erzeugt      time.Time `gorm:"autoCreateTime" json:"-" xml:"-"`
	Aktualisiert time.Time `gorm:"autoUpdateTime" json:"-" xml:"-"`
}

func (Artikel) TableName() string { return "artikel" }
