package ingest

import (
	"strings"
	"time"

	"boradedesconto/offerworker/config"
	"boradedesconto/offerworker/helpers"
	"boradedesconto/offerworker/internal/browse"
	"boradedesconto/offerworker/internal/domain"
	"boradedesconto/offerworker/internal/extract"
	"boradedesconto/offerworker/services/cache"
)

// blockTime is how long a merchant stays blocked after rate-limiting us.
const blockTime = 500 * time.Second

// CreateIngesters builds one ingester per configured merchant, each with its
// own browsing session.
func CreateIngesters(cfg *config.Config, cacheSvc cache.CacheService, store OfferStore) []*Ingester {
	amazon := New(
		amazonConfig(cfg),
		browse.NewHTTPSession(cacheSvc, "amazon_rate_limited", blockTime),
		store,
	)

	// Mercado Livre assembles its offer carousels with JavaScript, so the
	// run goes through ChromeDB when one is configured.
	var mlSession browse.Session
	if cfg.ChromeDBAddr != "" {
		mlSession = browse.NewChromeSession(cfg.ChromeDBAddr, cacheSvc, "mercadolivre_rate_limited", blockTime)
	} else {
		mlSession = browse.NewHTTPSession(cacheSvc, "mercadolivre_rate_limited", blockTime)
	}
	mercadolivre := New(mercadoLivreConfig(cfg), mlSession, store)

	return []*Ingester{amazon, mercadolivre}
}

func amazonConfig(cfg *config.Config) Config {
	return Config{
		Merchant: domain.MerchantAmazon,
		EntryURL: cfg.AmazonSearchURL,
		ItemSelectors: []string{
			`[data-component-type="s-search-result"]`,
			".s-result-item.s-asin",
			".s-card-container",
		},
		Profile: extract.Profile{
			Merchant: domain.MerchantAmazon,
			BaseURL:  "https://www.amazon.com.br",
			Identity: []extract.Strategy{
				extract.Attr("data-asin"),
				extract.ChildAttr("[data-asin]", "data-asin"),
			},
			Title: []extract.Strategy{
				extract.ChildText("h2 a span"),
				extract.ChildText(".a-text-normal"),
				extract.ChildText(".a-link-normal .a-text-normal"),
				extract.ChildText(".a-color-base.a-text-normal"),
			},
			Link: []extract.Strategy{
				extract.ChildAttr(`h2 a[href*="/dp/"]`, "href"),
				extract.ChildAttr(`.a-link-normal[href*="/dp/"]`, "href"),
				extract.ChildAttr("h2 a", "href"),
			},
			Price: []extract.Strategy{
				extract.ChildText(".a-price .a-offscreen"),
				extract.ChildText(".a-price-whole"),
				extract.ChildText(".a-color-price"),
			},
			OriginalPrice: []extract.Strategy{
				extract.ChildText(".a-text-price .a-offscreen"),
				extract.ChildText(".a-text-price"),
			},
			LinkFallback: func(asin string) string {
				return "https://www.amazon.com.br/dp/" + asin
			},
			TrackingDomain: "amazon.com.br",
			TrackingParam:  "tag",
			TrackingValue:  cfg.AffiliateTag,
		},
		NextPage: []extract.Strategy{
			extract.ChildAttr(".s-pagination-next:not(.s-pagination-disabled)", "href"),
			extract.ChildAttr(".a-pagination .a-last a", "href"),
			extract.ChildAttr(`a[aria-label="Próxima página"]`, "href"),
		},
		MaxPages:          cfg.MaxPages,
		TargetOffers:      cfg.TargetOffers,
		SynthesizeOnEmpty: false,
		NavigationTimeout: cfg.NavigationTimeout,
	}
}

func mercadoLivreConfig(cfg *config.Config) Config {
	linkStrategies := []extract.Strategy{
		extract.ChildAttr(`a[href*="/p/"]`, "href"),
		extract.ChildAttr(`a[href*="mercadolivre.com"]`, "href"),
	}

	identityStrategies := make([]extract.Strategy, 0, len(linkStrategies))
	for _, s := range linkStrategies {
		identityStrategies = append(identityStrategies, extract.Map(s, mercadoLivreID))
	}

	return Config{
		Merchant: domain.MerchantMercadoLivre,
		EntryURL: cfg.MercadoLivreURL,
		ItemSelectors: []string{
			".andes-carousel-snapped__slide",
			".promotion-item",
			".ui-search-result, .ui-search-layout__item",
		},
		Profile: extract.Profile{
			Merchant: domain.MerchantMercadoLivre,
			BaseURL:  "https://www.mercadolivre.com.br",
			Identity: identityStrategies,
			Title: []extract.Strategy{
				extract.ChildText(".promotion-item__title"),
				extract.ChildText(`[class*="title"]`),
				extract.ChildText("h2"),
				extract.ChildAttr("img", "alt"),
			},
			Link: linkStrategies,
			Price: []extract.Strategy{
				extract.ChildText(".promotion-item__price"),
				extract.ChildText(".andes-money-amount__fraction"),
				extract.ChildText(`[class*="price"]`),
			},
			OriginalPrice: []extract.Strategy{
				extract.ChildText(".promotion-item__oldprice"),
				extract.ChildText("s.andes-money-amount--previous"),
			},
		},
		NextPage: []extract.Strategy{
			extract.ChildAttr(`a[title="Seguinte"]`, "href"),
			extract.ChildAttr("li.andes-pagination__button--next a", "href"),
			extract.ChildAttr(`a[rel="next"]`, "href"),
		},
		MaxPages:          cfg.MaxPages,
		TargetOffers:      cfg.TargetOffers,
		SynthesizeOnEmpty: cfg.FallbackSynthesis,
		NavigationTimeout: cfg.NavigationTimeout,
	}
}

// mercadoLivreID derives the external identifier from an MLB product link.
// Returns "" when the link carries no recognizable code, which rejects the
// element instead of fabricating an identifier.
func mercadoLivreID(link string) string {
	switch {
	case strings.Contains(link, "MLB-"):
		part, err := helpers.GetSplitPart(link, "MLB-", 1)
		if err != nil {
			return ""
		}
		return strings.SplitN(part, "-", 2)[0]
	case strings.Contains(link, "/p/MLB"):
		part, err := helpers.GetSplitPart(link, "/p/MLB", 1)
		if err != nil {
			return ""
		}
		return strings.SplitN(part, "/", 2)[0]
	case strings.Contains(link, "MLB"):
		part, err := helpers.GetSplitPart(link, "MLB", 1)
		if err != nil {
			return ""
		}
		digits := helpers.DigitsOnly(part)
		if len(digits) > 8 {
			digits = digits[:8]
		}
		return digits
	}
	return ""
}
