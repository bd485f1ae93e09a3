package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() Profile {
	return Profile{
		Merchant: "amazon",
		BaseURL:  "https://www.amazon.com.br",
		Identity: []Strategy{Attr("data-asin")},
		Title:    []Strategy{ChildText("h2 span")},
		Link:     []Strategy{ChildAttr("h2 a", "href")},
		Price:    []Strategy{ChildText(".price")},
		OriginalPrice: []Strategy{
			ChildText(".old-price"),
		},
		TrackingDomain: "amazon.com.br",
		TrackingParam:  "tag",
		TrackingValue:  "wagnermontezu-20",
	}
}

func TestAssembleFullyPopulated(t *testing.T) {
	html := `
		<div class="product" data-asin="B0ABC123">
			<h2><a href="/dp/B0ABC123"><span>Fone de Ouvido Bluetooth</span></a></h2>
			<span class="price">R$ 199,90</span>
			<span class="old-price">R$ 249,90</span>
		</div>
	`
	el := elementFromHTML(t, html, ".product")
	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	offer, err := Assemble(el, testProfile(), ts)
	require.NoError(t, err)

	assert.Equal(t, "amazon", offer.Merchant)
	assert.Equal(t, "B0ABC123", offer.ExternalID)
	assert.Equal(t, "Fone de Ouvido Bluetooth", offer.Title)
	assert.Equal(t, "https://www.amazon.com.br/dp/B0ABC123?tag=wagnermontezu-20", offer.URL)
	assert.InDelta(t, 199.90, offer.Price, 0.0001)
	assert.InDelta(t, 249.90, offer.OriginalPrice, 0.0001)
	assert.Equal(t, 20, offer.DiscountPct)
	assert.Equal(t, ts, offer.Timestamp)
	assert.False(t, offer.Synthetic)
}

func TestAssembleMissingIdentity(t *testing.T) {
	html := `
		<div class="product">
			<h2><a href="/dp/B0ABC123"><span>Sem ASIN</span></a></h2>
		</div>
	`
	el := elementFromHTML(t, html, ".product")

	offer, err := Assemble(el, testProfile(), time.Now())
	assert.Nil(t, offer)
	require.Error(t, err)
	assert.True(t, IsRejection(err))
	assert.Equal(t, ReasonMissingIdentity, err.(*Rejection).Reason)
}

func TestAssembleMissingTitle(t *testing.T) {
	html := `<div class="product" data-asin="B0ABC123"></div>`
	el := elementFromHTML(t, html, ".product")

	offer, err := Assemble(el, testProfile(), time.Now())
	assert.Nil(t, offer)
	require.Error(t, err)
	assert.True(t, IsRejection(err))
	assert.Equal(t, ReasonMissingTitle, err.(*Rejection).Reason)
}

func TestAssembleUnparseablePriceStillAssembles(t *testing.T) {
	html := `
		<div class="product" data-asin="B0NOPRICE">
			<h2><a href="/dp/B0NOPRICE"><span>Produto sem preço</span></a></h2>
		</div>
	`
	el := elementFromHTML(t, html, ".product")

	offer, err := Assemble(el, testProfile(), time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 0.0, offer.Price, 0.0001)
	assert.InDelta(t, 0.0, offer.OriginalPrice, 0.0001)
	assert.Equal(t, 0, offer.DiscountPct)
}

func TestAssembleOriginalPriceDefaultsToCurrent(t *testing.T) {
	// Original below the current price is not a discount; it defaults up.
	html := `
		<div class="product" data-asin="B0DEF456">
			<h2><a href="/dp/B0DEF456"><span>Produto</span></a></h2>
			<span class="price">R$ 100,00</span>
			<span class="old-price">R$ 80,00</span>
		</div>
	`
	el := elementFromHTML(t, html, ".product")

	offer, err := Assemble(el, testProfile(), time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 100.0, offer.Price, 0.0001)
	assert.InDelta(t, 100.0, offer.OriginalPrice, 0.0001)
	assert.Equal(t, 0, offer.DiscountPct)
}

func TestAssembleLinkFallback(t *testing.T) {
	profile := testProfile()
	profile.LinkFallback = func(externalID string) string {
		return "https://www.amazon.com.br/dp/" + externalID
	}

	html := `
		<div class="product" data-asin="B0FALL01">
			<h2><span>Produto sem link</span></h2>
		</div>
	`
	el := elementFromHTML(t, html, ".product")

	offer, err := Assemble(el, profile, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "https://www.amazon.com.br/dp/B0FALL01?tag=wagnermontezu-20", offer.URL)
}

func TestResolveURL(t *testing.T) {
	profile := testProfile()

	testCases := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "relative path",
			link:     "/dp/B0ABC123",
			expected: "https://www.amazon.com.br/dp/B0ABC123",
		},
		{
			name:     "absolute url untouched",
			link:     "https://www.amazon.com.br/dp/B0ABC123",
			expected: "https://www.amazon.com.br/dp/B0ABC123",
		},
		{
			name:     "empty stays empty",
			link:     "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, profile.ResolveURL(tc.link))
		})
	}
}

func TestTagURL(t *testing.T) {
	profile := testProfile()

	testCases := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "append with question mark",
			link:     "https://www.amazon.com.br/dp/B0ABC123",
			expected: "https://www.amazon.com.br/dp/B0ABC123?tag=wagnermontezu-20",
		},
		{
			name:     "append with ampersand",
			link:     "https://www.amazon.com.br/dp/B0ABC123?ref=sr_1",
			expected: "https://www.amazon.com.br/dp/B0ABC123?ref=sr_1&tag=wagnermontezu-20",
		},
		{
			name:     "existing tag untouched",
			link:     "https://www.amazon.com.br/dp/B0ABC123?tag=other-21",
			expected: "https://www.amazon.com.br/dp/B0ABC123?tag=other-21",
		},
		{
			name:     "foreign domain untouched",
			link:     "https://www.example.com/product/1",
			expected: "https://www.example.com/product/1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, profile.tagURL(tc.link))
		})
	}
}
