package handlers

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/service"
	"github.com/oskar87/swe2/internal/urihelper"
)

type bestellungenXML struct {
	XMLName      xml.Name            `xml:"bestellungen"`
	Bestellungen []models.Bestellung `xml:"bestellung"`
}

type lieferungenXML struct {
	XMLName     xml.Name           `xml:"lieferungen"`
	Lieferungen []models.Lieferung `xml:"lieferung"`
}

type BestellungHandler struct {
	responder
	bestellungen *service.BestellungService
}

func NewBestellungHandler(bestellungen *service.BestellungService, prefix string, logger *zap.Logger) *BestellungHandler {
	return &BestellungHandler{
		responder:    responder{prefix: prefix, logger: logger},
		bestellungen: bestellungen,
	}
}

func (h *BestellungHandler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("/bestellungen", h.FindBestellungenByIDs)
	rg.GET("/bestellungen/:id", h.FindBestellungByID)
	rg.GET("/bestellungen/:id/kunde", h.FindKundeByBestellungID)
	rg.GET("/bestellungen/:id/lieferungen", h.FindLieferungenByBestellungID)
	rg.POST("/bestellungen", withGuard(guard, h.CreateBestellung)...)
}

// GET /bestellungen/:id
func (h *BestellungHandler) FindBestellungByID(c *gin.Context) {
	id, err := pathID(c, "Bestellung")
	if err != nil {
		h.fail(c, err)
		return
	}

	bestellung, err := h.bestellungen.FindBestellungByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	urihelper.UpdateBestellung(h.baseURI(c), bestellung)
	render(c, http.StatusOK, bestellung)
}

// GET /bestellungen?ids=1,2,3
func (h *BestellungHandler) FindBestellungenByIDs(c *gin.Context) {
	raw := c.Query("ids")
	var ids []uint
	for _, s := range strings.Split(raw, ",") {
		if id, err := urihelper.ParseID(s); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		h.fail(c, apperror.NotFound("no Bestellungen found with IDs %s", raw))
		return
	}

	bestellungen, err := h.bestellungen.FindBestellungenByIDs(c.Request.Context(), ids)
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

// GET /bestellungen/:id/kunde
func (h *BestellungHandler) FindKundeByBestellungID(c *gin.Context) {
	id, err := pathID(c, "Bestellung")
	if err != nil {
		h.fail(c, err)
		return
	}

	kunde, err := h.bestellungen.FindKundeByBestellungID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	urihelper.UpdateKunde(h.baseURI(c), kunde)
	render(c, http.StatusOK, kunde)
}

// GET /bestellungen/:id/lieferungen
func (h *BestellungHandler) FindLieferungenByBestellungID(c *gin.Context) {
	id, err := pathID(c, "Bestellung")
	if err != nil {
		h.fail(c, err)
		return
	}

	lieferungen, err := h.bestellungen.FindLieferungenByBestellungID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, lieferungen, lieferungenXML{Lieferungen: lieferungen})
}

// POST /bestellungen
func (h *BestellungHandler) CreateBestellung(c *gin.Context) {
	var bestellung models.Bestellung
	if err := bindBody(c, &bestellung); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.bestellungen.CreateBestellung(c.Request.Context(), &bestellung, locale(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", urihelper.BestellungURI(h.baseURI(c), created.ID))
	c.Status(http.StatusCreated)
}
