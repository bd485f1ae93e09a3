package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	withCause := NewNavigation("amazon", "load search page", cause)
	assert.Equal(t, "[navigation] amazon: load search page - connection refused", withCause.Error())

	withoutCause := NewValidation("mercadolivre", "element without identity")
	assert.Equal(t, "[validation] mercadolivre: element without identity", withoutCause.Error())
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("duplicate key")
	err := NewPersistence("amazon", "upsert B0ABC123", cause)

	assert.True(t, errors.Is(err, cause))

	var ingestErr *IngestError
	assert.True(t, errors.As(fmt.Errorf("run failed: %w", err), &ingestErr))
	assert.Equal(t, ErrorTypePersistence, ingestErr.Type)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err       *IngestError
		retryable bool
	}{
		{NewNavigation("amazon", "timeout", nil), true},
		{NewPersistence("amazon", "upsert", nil), true},
		{NewParsing("amazon", "bad markup", nil), false},
		{NewRateLimit("amazon", 500 * time.Second), false},
		{NewPublisher("amazon", "publish", nil), false},
		{NewValidation("amazon", "no title"), false},
		{NewConfiguration("missing url", nil), false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.retryable, tc.err.IsRetryable(), "type %s", tc.err.Type)
	}
}

func TestConstructorsSetFields(t *testing.T) {
	before := time.Now()
	err := NewRateLimit("mercadolivre", 500*time.Second)

	assert.Equal(t, ErrorTypeRateLimit, err.Type)
	assert.Equal(t, "mercadolivre", err.Merchant)
	assert.Contains(t, err.Message, "8m20s")
	assert.False(t, err.Time.Before(before))

	cfgErr := NewConfiguration("REDIS_ADDR must not be empty", nil)
	assert.Empty(t, cfgErr.Merchant)
}
