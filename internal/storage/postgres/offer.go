package postgres

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"boradedesconto/offerworker/internal/domain"
)

//go:embed schema.sql
var schema string

// OfferStore persists canonical offers in Postgres.
type OfferStore struct {
	db *sqlx.DB
}

// NewOfferStore creates an offer store on an open connection
func NewOfferStore(db *sqlx.DB) *OfferStore {
	return &OfferStore{db: db}
}

// Connect opens and pings a Postgres connection.
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the offers tables and indexes if they do not exist.
func (s *OfferStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Upsert inserts the offer or, when a row with the same
// (merchant, external_id) already exists, overwrites its mutable fields.
// The row id is generated once and preserved across updates; last write
// wins. Concurrent upserts for the same identity are serialized by the
// uniqueness constraint, not by application-level locking.
func (s *OfferStore) Upsert(ctx context.Context, offer *domain.Offer) (int64, error) {
	query := `
		INSERT INTO offers (
			merchant, external_id, title, url, price, original_price,
			discount_pct, synthetic, ts
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (merchant, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			url = EXCLUDED.url,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			discount_pct = EXCLUDED.discount_pct,
			synthetic = EXCLUDED.synthetic,
			ts = EXCLUDED.ts
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		offer.Merchant,
		offer.ExternalID,
		offer.Title,
		offer.URL,
		offer.Price,
		offer.OriginalPrice,
		offer.DiscountPct,
		offer.Synthetic,
		offer.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByIdentity looks a persisted offer up by its uniqueness key.
func (s *OfferStore) GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.Offer, error) {
	var offer domain.Offer
	err := s.db.GetContext(ctx, &offer,
		"SELECT * FROM offers WHERE merchant = $1 AND external_id = $2",
		identity.Merchant, identity.ExternalID,
	)
	if err != nil {
		return nil, err
	}
	return &offer, nil
}
