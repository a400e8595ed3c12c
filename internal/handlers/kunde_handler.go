package handlers

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/repository"
	"github.com/oskar87/swe2/internal/service"
	"github.com/oskar87/swe2/internal/urihelper"
)

const kundenVersion = "1.0"

// KundeForm is the HTML form variant of a new Kunde.
type KundeForm struct {
	Nachname      string `form:"nachname"`
	Vorname       string `form:"vorname"`
	Email         string `form:"email"`
	Plz           string `form:"plz"`
	Ort           string `form:"ort"`
	Strasse       string `form:"strasse"`
	Hausnummer    string `form:"hausnummer"`
	AgbAkzeptiert bool   `form:"agb"`
}

func (f KundeForm) Kunde() *models.Kunde {
	return &models.Kunde{
		Nachname:      f.Nachname,
		Vorname:       f.Vorname,
		Email:         f.Email,
		AgbAkzeptiert: f.AgbAkzeptiert,
		Adresse: &models.Adresse{
			Plz:        f.Plz,
			Ort:        f.Ort,
			Strasse:    f.Strasse,
			Hausnummer: f.Hausnummer,
		},
	}
}

type kundenXML struct {
	XMLName xml.Name       `xml:"kunden"`
	Kunden  []models.Kunde `xml:"kunde"`
}

type KundeHandler struct {
	responder
	kunden       *service.KundeService
	bestellungen *service.BestellungService
}

func NewKundeHandler(kunden *service.KundeService, bestellungen *service.BestellungService, prefix string, logger *zap.Logger) *KundeHandler {
	return &KundeHandler{
		responder:    responder{prefix: prefix, logger: logger},
		kunden:       kunden,
		bestellungen: bestellungen,
	}
}

// Register mounts the routes below rg. guard, if set, protects the mutating
// routes.
func (h *KundeHandler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("/kunden/version", h.Version)
	rg.GET("/kunden", h.FindKunden)
	rg.GET("/kunden/:id", h.FindKundeByID)
	rg.GET("/kunden/:id/bestellungen", h.FindBestellungenByKundeID)
	rg.POST("/kunden", withGuard(guard, h.CreateKunde)...)
	rg.PUT("/kunden", withGuard(guard, h.UpdateKunde)...)
	rg.DELETE("/kunden/:id", withGuard(guard, h.DeleteKunde)...)
}

// GET /kunden/version
func (h *KundeHandler) Version(c *gin.Context) {
	c.String(http.StatusOK, kundenVersion)
}

// GET /kunden/:id
func (h *KundeHandler) FindKundeByID(c *gin.Context) {
	id, err := pathID(c, "Kunde")
	if err != nil {
		h.fail(c, err)
		return
	}

	kunde, err := h.kunden.FindKundeByID(c.Request.Context(), id, repository.NurKunde)
	if err != nil {
		h.fail(c, err)
		return
	}

	urihelper.UpdateKunde(h.baseURI(c), kunde)
	render(c, http.StatusOK, kunde)
}

// GET /kunden?nachname=
func (h *KundeHandler) FindKunden(c *gin.Context) {
	kunden, err := h.kunden.FindKundenByNachname(c.Request.Context(), c.Query("nachname"), repository.NurKunde)
	if err != nil {
		h.fail(c, err)
		return
	}

	base := h.baseURI(c)
	for i := range kunden {
		urihelper.UpdateKunde(base, &kunden[i])
	}
	respond(c, http.StatusOK, kunden, kundenXML{Kunden: kunden})
}

// GET /kunden/:id/bestellungen
func (h *KundeHandler) FindBestellungenByKundeID(c *gin.Context) {
	id, err := pathID(c, "Kunde")
	if err != nil {
		h.fail(c, err)
		return
	}

	bestellungen, err := h.bestellungen.FindBestellungenByKundeID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	base := h.baseURI(c)
	for i := range bestellungen {
		urihelper.UpdateBestellung(base, &bestellungen[i])
	}
	respond(c, http.StatusOK, bestellungen, bestellungenXML{Bestellungen: bestellungen})
}

// POST /kunden
func (h *KundeHandler) CreateKunde(c *gin.Context) {
	var kunde *models.Kunde
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		var form KundeForm
		if err := bindBody(c, &form); err != nil {
			h.fail(c, err)
			return
		}
		kunde = form.Kunde()
	default:
		kunde = &models.Kunde{}
		if err := bindBody(c, kunde); err != nil {
			h.fail(c, err)
			return
		}
	}

	created, err := h.kunden.CreateKunde(c.Request.Context(), kunde, locale(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", urihelper.KundeURI(h.baseURI(c), created.ID))
	c.Status(http.StatusCreated)
}

// PUT /kunden
func (h *KundeHandler) UpdateKunde(c *gin.Context) {
	var kunde models.Kunde
	if err := bindBody(c, &kunde); err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.kunden.UpdateKunde(c.Request.Context(), &kunde, locale(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /kunden/:id
func (h *KundeHandler) DeleteKunde(c *gin.Context) {
	id, err := pathID(c, "Kunde")
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.kunden.DeleteKundeByID(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
