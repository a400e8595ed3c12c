package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/events"
	"github.com/oskar87/swe2/internal/middleware"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/notifier"
	"github.com/oskar87/swe2/internal/repository"
	"github.com/oskar87/swe2/internal/urihelper"
	"github.com/oskar87/swe2/internal/validation"
)

const notifyTimeout = 30 * time.Second

type BestellungService struct {
	store     *repository.Store
	validator *validation.Validator
	publisher events.Publisher
	notifier  notifier.Notifier
	logger    *zap.Logger

	pending sync.WaitGroup
}

// NewBestellungService wires the service. A nil publisher or notifier
// disables that side effect.
func NewBestellungService(
	store *repository.Store,
	validator *validation.Validator,
	publisher events.Publisher,
	n notifier.Notifier,
	logger *zap.Logger,
) *BestellungService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if n == nil {
		n = notifier.Multi{}
	}
	return &BestellungService{
		store:     store,
		validator: validator,
		publisher: publisher,
		notifier:  n,
		logger:    logger,
	}
}

func (s *BestellungService) FindBestellungByID(ctx context.Context, id uint) (*models.Bestellung, error) {
	return s.store.Bestellungen.FindByID(ctx, id)
}

// FindBestellungenByIDs loads the Bestellungen with their Lieferungen. Unknown
// ids are skipped, an empty result is NotFound.
func (s *BestellungService) FindBestellungenByIDs(ctx context.Context, ids []uint) ([]models.Bestellung, error) {
	bestellungen, err := s.store.Bestellungen.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(bestellungen) == 0 {
		return nil, apperror.NotFound("no Bestellungen found with IDs %v", ids)
	}
	return bestellungen, nil
}

func (s *BestellungService) FindBestellungenByKundeID(ctx context.Context, kundeID uint) ([]models.Bestellung, error) {
	bestellungen, err := s.store.Bestellungen.FindByKundeID(ctx, kundeID)
	if err != nil {
		return nil, err
	}
	if len(bestellungen) == 0 {
		return nil, apperror.NotFound("no Bestellungen found for Kunde with ID %d", kundeID)
	}
	return bestellungen, nil
}

func (s *BestellungService) FindKundeByBestellungID(ctx context.Context, id uint) (*models.Kunde, error) {
	return s.store.Bestellungen.FindKundeByBestellungID(ctx, id)
}

func (s *BestellungService) FindLieferungenByBestellungID(ctx context.Context, id uint) ([]models.Lieferung, error) {
	lieferungen, err := s.store.Bestellungen.FindLieferungen(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(lieferungen) == 0 {
		return nil, apperror.NotFound("no Lieferungen found for Bestellung with ID %d", id)
	}
	return lieferungen, nil
}

// CreateBestellung resolves the Kunde and the Artikel of b from their URIs and
// stores b with every line whose Artikel exists. Lines with a malformed or
// unknown Artikel URI are dropped.
func (s *BestellungService) CreateBestellung(ctx context.Context, b *models.Bestellung, locale language.Tag) (*models.Bestellung, error) {
	if b == nil {
		return nil, nil
	}

	kundeID, err := urihelper.IDFromURI(b.KundeURI)
	if err != nil {
		return nil, apperror.NotFound("no Kunde found for URI %q", b.KundeURI)
	}

	var kunde *models.Kunde
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		k, err := tx.Kunden.FindByID(ctx, kundeID, repository.MitBestellungen)
		if err != nil {
			return err
		}
		kunde = k

		positionen, err := s.resolvePositionen(ctx, tx, b.Bestellpositionen)
		if err != nil {
			return err
		}

		b.ID = 0
		b.Version = 0
		b.Status = ""
		b.KundeID = kunde.ID
		b.Kunde = kunde
		b.Lieferungen = nil
		b.Bestellpositionen = positionen

		if err := s.validator.Check(b, locale, validation.Default); err != nil {
			return err
		}
		return tx.Bestellungen.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bestellung created",
		zap.Uint("bestellung_id", b.ID),
		zap.Uint("kunde_id", b.KundeID),
		zap.Int("positionen", len(b.Bestellpositionen)),
		zap.String("gesamtbetrag", b.Gesamtbetrag().String()))

	s.afterCreate(ctx, kunde, b)
	return b, nil
}

// resolvePositionen pairs every line with the Artikel its URI refers to,
// loading all Artikel in one query.
func (s *BestellungService) resolvePositionen(ctx context.Context, tx *repository.Store, positionen []models.Bestellposition) ([]models.Bestellposition, error) {
	type ref struct {
		index int
		id    uint
	}

	refs := make([]ref, 0, len(positionen))
	ids := make([]uint, 0, len(positionen))
	suffixes := make([]string, 0, len(positionen))
	for i, bp := range positionen {
		suffixes = append(suffixes, urihelper.Suffix(bp.ArtikelURI))
		id, err := urihelper.IDFromURI(bp.ArtikelURI)
		if err != nil {
			s.logger.Debug("Skipping Bestellposition with malformed Artikel URI",
				zap.String("uri", bp.ArtikelURI))
			continue
		}
		refs = append(refs, ref{index: i, id: id})
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperror.NotFound("no Artikel found with IDs [%s]", strings.Join(suffixes, ", "))
	}

	artikel, err := tx.Artikel.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(artikel) == 0 {
		return nil, apperror.NotFound("no Artikel found with IDs %v", ids)
	}
	byID := make(map[uint]*models.Artikel, len(artikel))
	for i := range artikel {
		byID[artikel[i].ID] = &artikel[i]
	}

	resolved := make([]models.Bestellposition, 0, len(refs))
	for _, r := range refs {
		a, ok := byID[r.id]
		if !ok {
			s.logger.Debug("Dropping Bestellposition with unknown Artikel", zap.Uint("artikel_id", r.id))
			continue
		}
		bp := positionen[r.index]
		bp.ID = 0
		bp.Version = 0
		bp.BestellungID = 0
		bp.ArtikelID = a.ID
		bp.Artikel = a
		resolved = append(resolved, bp)
	}
	return resolved, nil
}

// afterCreate publishes the event and starts the notifications. Failures are
// logged only.
func (s *BestellungService) afterCreate(ctx context.Context, kunde *models.Kunde, b *models.Bestellung) {
	event := events.NewBestellungAngelegt(b, middleware.RequestIDFromContext(ctx))
	if err := s.publisher.PublishBestellungAngelegt(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.Uint("bestellung_id", b.ID),
			zap.Error(err))
	}

	snapshot := *b
	snapshot.Bestellpositionen = slices.Clone(b.Bestellpositionen)
	empfaenger := *kunde

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.BestellungAngelegt(nctx, &empfaenger, &snapshot); err != nil {
			s.logger.Error("Failed to notify Kunde",
				zap.Uint("bestellung_id", snapshot.ID),
				zap.Uint("kunde_id", empfaenger.ID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until all notifications started so far are done.
func (s *BestellungService) Wait() {
	s.pending.Wait()
}
