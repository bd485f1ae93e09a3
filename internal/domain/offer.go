package domain

import (
	"encoding/json"
	"time"
)

// Known merchant tokens.
const (
	MerchantAmazon       = "amazon"
	MerchantMercadoLivre = "mercadolivre"
)

// Offer is the canonical, deduplicated unit produced by an extraction pass.
// An Offer value is built fresh on every pass and never mutated; the store
// merges it into the persisted row identified by (Merchant, ExternalID).
type Offer struct {
	ID            int64     `db:"id" json:"id,omitempty"`
	Merchant      string    `db:"merchant" json:"merchant"`
	ExternalID    string    `db:"external_id" json:"external_id"`
	Title         string    `db:"title" json:"title"`
	URL           string    `db:"url" json:"url"`
	Price         float64   `db:"price" json:"price"`
	OriginalPrice float64   `db:"original_price" json:"original_price"`
	DiscountPct   int       `db:"discount_pct" json:"discount_pct"`
	Synthetic     bool      `db:"synthetic" json:"synthetic,omitempty"`
	Timestamp     time.Time `db:"ts" json:"timestamp"`
}

// Identity is the uniqueness key for persisted offers. At most one live row
// exists per identity.
type Identity struct {
	Merchant   string
	ExternalID string
}

// Identity returns the offer's uniqueness key.
func (o *Offer) Identity() Identity {
	return Identity{Merchant: o.Merchant, ExternalID: o.ExternalID}
}

// ToJSON serializes the offer for stream publication.
func (o *Offer) ToJSON() ([]byte, error) {
	return json.Marshal(o)
}
