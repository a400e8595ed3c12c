package notifier

import (
	"context"
	"errors"

	"github.com/oskar87/swe2/internal/models"
)

// Notifier tells a Kunde about a newly placed Bestellung.
type Notifier interface {
	BestellungAngelegt(ctx context.Context, kunde *models.Kunde, b *models.Bestellung) error
}

// Multi fans a notification out to every Notifier and joins their errors.
type Multi []Notifier

func (m Multi) BestellungAngelegt(ctx context.Context, kunde *models.Kunde, b *models.Bestellung) error {
	var errs []error
	for _, n := range m {
		if err := n.BestellungAngelegt(ctx, kunde, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
