package models

import (
	"encoding/xml"
	"time"
)

type TransportArt string

const (
	TransportStrasse TransportArt = "STRASSE"
	TransportSchiene TransportArt = "SCHIENE"
	TransportLuft    TransportArt = "LUFT"
	TransportWasser  TransportArt = "WASSER"
)

type Lieferung struct {
	XMLName xml.Name `gorm:"-" json:"-" xml:"lieferung" validate:"-"`

	ID           uint         `gorm:"primaryKey" json:"id" xml:"id,attr"`
	Version      int          `gorm:"not null" json:"version" xml:"version,attr"`
	LieferNr     string       `gorm:"size:12;uniqueIndex;not null" json:"lieferNr" xml:"lieferNr" validate:"required,max=12"`
	TransportArt TransportArt `gorm:"size:8" json:"transportArt,omitempty" xml:"transportArt,omitempty" validate:"omitempty,oneof=STRASSE SCHIENE LUFT WASSER"`

	Bestellungen []Bestellung `gorm:"many2many:bestellung_lieferung;" json:"-" xml:"-" validate:"-"`

	Erzeugt      time.Time `gorm:"autoCreateTime" json:"erzeugt" xml:"erzeugt"`
	Aktualisiert time.Time `gorm:"autoUpdateTime" json:"-" xml:"-"`
}

func (Lieferung) TableName() string { return "lieferung" }
