package handlers

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/service"
	"github.com/oskar87/swe2/internal/urihelper"
)

type artikelXML struct {
	XMLName xml.Name         `xml:"artikel-liste"`
	Artikel []models.Artikel `xml:"artikel"`
}

type ArtikelHandler struct {
	responder
	artikel *service.ArtikelService
}

func NewArtikelHandler(artikel *service.ArtikelService, prefix string, logger *zap.Logger) *ArtikelHandler {
	return &ArtikelHandler{
		responder: responder{prefix: prefix, logger: logger},
		artikel:   artikel,
	}
}

func (h *ArtikelHandler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("/artikel", h.FindArtikel)
	rg.GET("/artikel/:id", h.FindArtikelByID)
	rg.POST("/artikel", withGuard(guard, h.CreateArtikel)...)
	rg.PUT("/artikel", withGuard(guard, h.UpdateArtikel)...)
	rg.DELETE("/artikel/:id", withGuard(guard, h.DeleteArtikel)...)
}

// GET /artikel/:id
func (h *ArtikelHandler) FindArtikelByID(c *gin.Context) {
	id, err := pathID(c, "Artikel")
	if err != nil {
		h.fail(c, err)
		return
	}

	artikel, err := h.artikel.FindArtikelByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, http.StatusOK, artikel)
}

// GET /artikel?bezeichnung=
func (h *ArtikelHandler) FindArtikel(c *gin.Context) {
	bezeichnung := c.Query("bezeichnung")
	artikel, err := h.artikel.FindArtikelByBezeichnung(c.Request.Context(), bezeichnung)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(artikel) == 0 {
		h.fail(c, apperror.NotFound("no Artikel found with bezeichnung %s", bezeichnung))
		return
	}
	respond(c, http.StatusOK, artikel, artikelXML{Artikel: artikel})
}

// POST /artikel
func (h *ArtikelHandler) CreateArtikel(c *gin.Context) {
	var artikel models.Artikel
	if err := bindBody(c, &artikel); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.artikel.CreateArtikel(c.Request.Context(), &artikel, locale(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", urihelper.ArtikelURI(h.baseURI(c), created.ID))
	c.Status(http.StatusCreated)
}

// PUT /artikel
func (h *ArtikelHandler) UpdateArtikel(c *gin.Context) {
	var artikel models.Artikel
	if err := bindBody(c, &artikel); err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.artikel.UpdateArtikel(c.Request.Context(), &artikel, locale(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /artikel/:id
func (h *ArtikelHandler) DeleteArtikel(c *gin.Context) {
	id, err := pathID(c, "Artikel")
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.artikel.DeleteArtikelByID(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
