package urihelper_test

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/urihelper"
)

func TestBaseURI(t *testing.T) {
	t.Run("plain http", func(t *testing.T) {
		req := httptest.NewRequest("GET", "http://shop.local:8080/api/kunden/1", nil)
		assert.Equal(t, "http://shop.local:8080/api", urihelper.BaseURI(req, "/api"))
	})

	t.Run("tls", func(t *testing.T) {
		req := httptest.NewRequest("GET", "https://shop.local/api/kunden/1", nil)
		req.TLS = &tls.ConnectionState{}
		assert.Equal(t, "https://shop.local/api", urihelper.BaseURI(req, "api/"))
	})

	t.Run("forwarded proto", func(t *testing.T) {
		req := httptest.NewRequest("GET", "http://shop.local/api/kunden/1", nil)
		req.Header.Set("X-Forwarded-Proto", "https, http")
		assert.Equal(t, "https://shop.local/api", urihelper.BaseURI(req, "/api"))
	})
}

func TestResourceURIs(t *testing.T) {
	base := "http://shop.local/api"

	assert.Equal(t, "http://shop.local/api/kunden/3", urihelper.KundeURI(base, 3))
	assert.Equal(t, "http://shop.local/api/kunden/3/bestellungen", urihelper.BestellungenURI(base, 3))
	assert.Equal(t, "http://shop.local/api/bestellungen/7", urihelper.BestellungURI(base, 7))
	assert.Equal(t, "http://shop.local/api/bestellungen/7/lieferungen", urihelper.LieferungenURI(base, 7))
	assert.Equal(t, "http://shop.local/api/artikel/11", urihelper.ArtikelURI(base, 11))
}

func TestUpdateBestellung(t *testing.T) {
	base := "http://shop.local/api"
	b := &models.Bestellung{
		ID:      7,
		KundeID: 3,
		Bestellpositionen: []models.Bestellposition{
			{Anzahl: 1, ArtikelID: 11},
			{Anzahl: 2, ArtikelID: 12},
		},
	}

	urihelper.UpdateBestellung(base, b)

	assert.Equal(t, "http://shop.local/api/kunden/3", b.KundeURI)
	assert.Equal(t, "http://shop.local/api/bestellungen/7/lieferungen", b.LieferungenURI)
	assert.Equal(t, "http://shop.local/api/artikel/11", b.Bestellpositionen[0].ArtikelURI)
	assert.Equal(t, "http://shop.local/api/artikel/12", b.Bestellpositionen[1].ArtikelURI)

	urihelper.UpdateBestellung(base, nil)
}

func TestUpdateKunde(t *testing.T) {
	kunde := &models.Kunde{ID: 3}
	urihelper.UpdateKunde("http://shop.local/api", kunde)
	assert.Equal(t, "http://shop.local/api/kunden/3/bestellungen", kunde.BestellungenURI)
}

func TestIDFromURI(t *testing.T) {
	valid := map[string]uint{
		"http://shop.local/api/kunden/42":  42,
		"http://shop.local/api/kunden/42/": 42,
		"/artikel/5":                       5,
		"17":                               17,
	}
	for uri, want := range valid {
		id, err := urihelper.IDFromURI(uri)
		require.NoError(t, err, uri)
		assert.Equal(t, want, id, uri)
	}

	for _, uri := range []string{"", "http://shop.local/api/kunden/abc", "/artikel/-1", "/artikel/0", "/artikel/1.5"} {
		_, err := urihelper.IDFromURI(uri)
		assert.ErrorIs(t, err, urihelper.ErrMalformedID, uri)
	}
}

func TestSuffix(t *testing.T) {
	assert.Equal(t, "abc", urihelper.Suffix("http://x/y/abc"))
	assert.Equal(t, "abc", urihelper.Suffix("abc"))
	assert.Equal(t, "", urihelper.Suffix(""))
}
