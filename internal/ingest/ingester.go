package ingest

import (
	"context"
	"fmt"
	"time"

	"boradedesconto/offerworker/internal/browse"
	"boradedesconto/offerworker/internal/domain"
	"boradedesconto/offerworker/internal/extract"
	"boradedesconto/offerworker/logger"
	apperrors "boradedesconto/offerworker/pkg/errors"
)

const syntheticCount = 5

// OfferStore is the persistence sink: insert-or-update keyed by
// (merchant, external_id), preserving the row id across updates.
type OfferStore interface {
	Upsert(ctx context.Context, offer *domain.Offer) (int64, error)
}

// Runner is one merchant ingestion unit as seen by the worker.
type Runner interface {
	Merchant() string
	Run(ctx context.Context) ([]domain.Offer, error)
}

// Config describes one merchant's ingestion run.
type Config struct {
	Merchant string

	// EntryURL is the first page of the run.
	EntryURL string

	// ItemSelectors are tried in order; the first one matching any element
	// on the page wins. Marketplaces change their markup often enough that
	// a single selector does not survive long.
	ItemSelectors []string

	Profile extract.Profile

	// NextPage strategies locate the next-page control, same precedence
	// discipline as field resolution. Empty result terminates pagination.
	NextPage []extract.Strategy

	MaxPages          int
	TargetOffers      int
	SynthesizeOnEmpty bool
	NavigationTimeout time.Duration
}

// Ingester drives one merchant run: navigate, extract, paginate, then
// submit the collected batch to the offer store.
type Ingester struct {
	cfg     Config
	session browse.Session
	store   OfferStore
	log     *logger.Logger
	now     func() time.Time
}

// New creates an ingester for one merchant
func New(cfg Config, session browse.Session, store OfferStore) *Ingester {
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	if cfg.TargetOffers < 1 {
		cfg.TargetOffers = 10
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}

	return &Ingester{
		cfg:     cfg,
		session: session,
		store:   store,
		log:     logger.ForMerchant(cfg.Merchant),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Merchant returns the merchant token of this run.
func (i *Ingester) Merchant() string {
	return i.cfg.Merchant
}

// Run executes one full ingestion run and returns the offers that were
// persisted. A navigation failure terminates the run early with whatever
// was collected so far; it never propagates to sibling merchant runs.
func (i *Ingester) Run(ctx context.Context) ([]domain.Offer, error) {
	batch := i.collect(ctx)

	if len(batch) == 0 && i.cfg.SynthesizeOnEmpty {
		i.log.Warn().Msg("No offers extracted, synthesizing placeholder batch")
		batch = i.synthesize()
	}

	return i.submit(ctx, batch)
}

// collect walks the result pages and extracts offers element by element.
// One bad element never aborts the page or the run.
func (i *Ingester) collect(ctx context.Context) []*domain.Offer {
	var batch []*domain.Offer
	pageURL := i.cfg.EntryURL

	for page := 1; page <= i.cfg.MaxPages; page++ {
		navCtx, cancel := context.WithTimeout(ctx, i.cfg.NavigationTimeout)
		err := i.session.Navigate(navCtx, pageURL)
		cancel()
		if err != nil {
			navErr := apperrors.NewNavigation(i.cfg.Merchant, fmt.Sprintf("page %d", page), err)
			i.log.Warn().Err(navErr).Int("page", page).Msg("Navigation failed, terminating run")
			break
		}

		elements := i.queryCandidates()
		i.log.Debug().Int("page", page).Int("candidates", len(elements)).Msg("Extracting page")

		for _, el := range elements {
			offer, err := extract.Assemble(el, i.cfg.Profile, i.now())
			if err != nil {
				i.log.Debug().Err(err).Msg("Element skipped")
				continue
			}
			batch = append(batch, offer)
			if len(batch) >= i.cfg.TargetOffers {
				break
			}
		}

		if len(batch) >= i.cfg.TargetOffers {
			i.log.Debug().Int("offers", len(batch)).Msg("Target offer count reached")
			break
		}
		if page == i.cfg.MaxPages {
			break
		}

		next := extract.Resolve(i.session.Root(), i.cfg.NextPage)
		if next == "" {
			i.log.Debug().Int("page", page).Msg("No next page control found")
			break
		}
		pageURL = i.cfg.Profile.ResolveURL(next)
	}

	return batch
}

// queryCandidates tries the configured item selectors in order and returns
// the matches of the first selector that finds anything.
func (i *Ingester) queryCandidates() []browse.Element {
	for _, selector := range i.cfg.ItemSelectors {
		if elements := i.session.QueryAll(selector); len(elements) > 0 {
			return elements
		}
	}
	return nil
}

// submit upserts the batch, one call per offer. A persistence failure is
// fatal for that offer only; siblings already persisted stay persisted.
func (i *Ingester) submit(ctx context.Context, batch []*domain.Offer) ([]domain.Offer, error) {
	stored := make([]domain.Offer, 0, len(batch))
	var firstErr error

	for _, offer := range batch {
		id, err := i.store.Upsert(ctx, offer)
		if err != nil {
			persErr := apperrors.NewPersistence(i.cfg.Merchant, "upsert "+offer.ExternalID, err)
			i.log.Error().Err(persErr).Str("external_id", offer.ExternalID).Msg("Upsert failed")
			if firstErr == nil {
				firstErr = persErr
			}
			continue
		}
		offer.ID = id
		stored = append(stored, *offer)
	}

	i.log.Info().Int("extracted", len(batch)).Int("stored", len(stored)).Msg("Run finished")
	return stored, firstErr
}

// synthesize emits a small batch of clearly-marked placeholder offers so an
// empty run still produces rows the read side can render. Every placeholder
// carries Synthetic=true; consumers filter on it.
func (i *Ingester) synthesize() []*domain.Offer {
	ts := i.now()
	offers := make([]*domain.Offer, 0, syntheticCount)

	for n := 1; n <= syntheticCount; n++ {
		original := 100.0
		price := original - float64(n*5)
		offers = append(offers, &domain.Offer{
			Merchant:      i.cfg.Merchant,
			ExternalID:    fmt.Sprintf("synthetic-%d", n),
			Title:         fmt.Sprintf("Oferta indisponível %d (%s)", n, i.cfg.Merchant),
			URL:           i.cfg.EntryURL,
			Price:         price,
			OriginalPrice: original,
			DiscountPct:   extract.Discount(original, price),
			Synthetic:     true,
			Timestamp:     ts,
		})
	}
	return offers
}
