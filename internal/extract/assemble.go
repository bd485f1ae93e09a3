package extract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"boradedesconto/offerworker/internal/browse"
	"boradedesconto/offerworker/internal/domain"
)

// Rejection reasons. A rejected element is discarded, never persisted.
const (
	ReasonMissingIdentity = "missing_identity"
	ReasonMissingTitle    = "missing_title"
)

// Rejection reports why a candidate element could not become an Offer.
type Rejection struct {
	Merchant string
	Reason   string
}

// Error implements the error interface
func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: element rejected: %s", r.Merchant, r.Reason)
}

// IsRejection reports whether err is a per-element rejection.
func IsRejection(err error) bool {
	_, ok := err.(*Rejection)
	return ok
}

// Profile describes how to turn one merchant's page elements into Offers.
type Profile struct {
	Merchant string
	BaseURL  string

	// Ordered extraction strategies per logical field.
	Identity      []Strategy
	Title         []Strategy
	Link          []Strategy
	Price         []Strategy
	OriginalPrice []Strategy

	// LinkFallback builds a product URL from the external identifier when
	// no link could be extracted.
	LinkFallback func(externalID string) string

	// Affiliate tagging: when TrackingDomain matches the resolved URL and
	// TrackingParam is not already present, "TrackingParam=TrackingValue"
	// is appended.
	TrackingDomain string
	TrackingParam  string
	TrackingValue  string
}

// Assemble combines resolved fields into a canonical Offer.
//
// Identity is resolved first; without it the element is rejected outright.
// A missing title rejects as well. A missing or unparseable price does not:
// the normalizer degrades to 0.0 and the offer is still assembled.
func Assemble(el browse.Element, profile Profile, ts time.Time) (*domain.Offer, error) {
	externalID := Resolve(el, profile.Identity)
	if externalID == "" {
		return nil, &Rejection{Merchant: profile.Merchant, Reason: ReasonMissingIdentity}
	}

	title := Resolve(el, profile.Title)
	if title == "" {
		return nil, &Rejection{Merchant: profile.Merchant, Reason: ReasonMissingTitle}
	}

	link := Resolve(el, profile.Link)
	if link == "" && profile.LinkFallback != nil {
		link = profile.LinkFallback(externalID)
	}
	link = profile.tagURL(profile.ResolveURL(link))

	price := NormalizePrice(Resolve(el, profile.Price))

	// Original price defaults to the current price when absent or not
	// actually higher.
	originalPrice := NormalizePrice(Resolve(el, profile.OriginalPrice))
	if originalPrice <= price {
		originalPrice = price
	}

	return &domain.Offer{
		Merchant:      profile.Merchant,
		ExternalID:    externalID,
		Title:         title,
		URL:           link,
		Price:         price,
		OriginalPrice: originalPrice,
		DiscountPct:   Discount(originalPrice, price),
		Timestamp:     ts,
	}, nil
}

// ResolveURL resolves a possibly relative link against the merchant base URL.
func (p Profile) ResolveURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || p.BaseURL == "" {
		return link
	}

	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	if ref.IsAbs() {
		return link
	}

	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}

// tagURL appends the affiliate tracking parameter per the merchant rule.
func (p Profile) tagURL(link string) string {
	if link == "" || p.TrackingDomain == "" || p.TrackingParam == "" {
		return link
	}
	if !strings.Contains(link, p.TrackingDomain) {
		return link
	}
	if strings.Contains(link, p.TrackingParam+"=") {
		return link
	}

	separator := "?"
	if strings.Contains(link, "?") {
		separator = "&"
	}
	return link + separator + p.TrackingParam + "=" + p.TrackingValue
}
