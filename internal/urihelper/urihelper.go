// Package urihelper builds the URIs used to navigate between resources.
package urihelper

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oskar87/swe2/internal/models"
)

var ErrMalformedID = errors.New("malformed id")

// BaseURI returns scheme, host and API prefix of the request, e.g.
// "https://shop.example.com/api".
func BaseURI(r *http.Request, prefix string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host + "/" + strings.Trim(prefix, "/")
}

func KundeURI(base string, id uint) string {
	return fmt.Sprintf("%s/kunden/%d", base, id)
}

func BestellungenURI(base string, kundeID uint) string {
	return KundeURI(base, kundeID) + "/bestellungen"
}

func BestellungURI(base string, id uint) string {
	return fmt.Sprintf("%s/bestellungen/%d", base, id)
}

func LieferungenURI(base string, bestellungID uint) string {
	return BestellungURI(base, bestellungID) + "/lieferungen"
}

func ArtikelURI(base string, id uint) string {
	return fmt.Sprintf("%s/artikel/%d", base, id)
}

// UpdateKunde sets the navigation URIs of kunde.
func UpdateKunde(base string, kunde *models.Kunde) {
	if kunde == nil {
		return
	}
	kunde.BestellungenURI = BestellungenURI(base, kunde.ID)
}

// UpdateBestellung sets the navigation URIs of b and of each of its lines.
func UpdateBestellung(base string, b *models.Bestellung) {
	if b == nil {
		return
	}
	b.KundeURI = KundeURI(base, b.KundeID)
	b.LieferungenURI = LieferungenURI(base, b.ID)
	for i := range b.Bestellpositionen {
		bp := &b.Bestellpositionen[i]
		if bp.ArtikelID != 0 {
			bp.ArtikelURI = ArtikelURI(base, bp.ArtikelID)
		}
	}
}

// IDFromURI parses the text after the last "/" of uri as an id. A bare id
// without any slash is accepted as well.
func IDFromURI(uri string) (uint, error) {
	suffix := Suffix(uri)
	id, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, suffix)
	}
	return uint(id), nil
}

// Suffix returns the text after the last "/" of uri, ignoring a trailing slash.
func Suffix(uri string) string {
	uri = strings.TrimRight(strings.TrimSpace(uri), "/")
	return uri[strings.LastIndex(uri, "/")+1:]
}

// ParseID parses a path parameter as an id.
func ParseID(s string) (uint, error) {
	return IDFromURI(s)
}
