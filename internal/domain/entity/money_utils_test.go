package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	t.Run("should parse whole numbers", func(t *testing.T) {
		cents, err := ParseAmount("10")
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), cents)
	})

	t.Run("should parse one decimal place", func(t *testing.T) {
		cents, err := ParseAmount("10.5")
		assert.NoError(t, err)
		assert.Equal(t, int64(1050), cents)
	})

	t.Run("should parse two decimal places", func(t *testing.T) {
		cents, err := ParseAmount("10.57")
		assert.NoError(t, err)
		assert.Equal(t, int64(1057), cents)
	})

	t.Run("should parse trailing decimal point", func(t *testing.T) {
		cents, err := ParseAmount("10.")
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), cents)
	})

	t.Run("should parse zero", func(t *testing.T) {
		cents, err := ParseAmount("0")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), cents)
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := ParseAmount("-10.00")
		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})

	t.Run("should reject more than two decimal places", func(t *testing.T) {
		_, err := ParseAmount("10.123")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should reject empty values", func(t *testing.T) {
		_, err := ParseAmount("  ")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should reject non-numeric values", func(t *testing.T) {
		_, err := ParseAmount("ten")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should reject multiple decimal points", func(t *testing.T) {
		_, err := ParseAmount("10.0.0")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestFormatCents(t *testing.T) {
	t.Run("should format standard amounts", func(t *testing.T) {
		assert.Equal(t, "10.15", FormatCents(1015))
		assert.Equal(t, "10.00", FormatCents(1000))
	})

	t.Run("should format amounts under one credit", func(t *testing.T) {
		assert.Equal(t, "0.05", FormatCents(5))
		assert.Equal(t, "0.50", FormatCents(50))
	})

	t.Run("should format zero", func(t *testing.T) {
		assert.Equal(t, "0.00", FormatCents(0))
	})

	t.Run("should format negative amounts", func(t *testing.T) {
		assert.Equal(t, "-10.15", FormatCents(-1015))
		assert.Equal(t, "-0.05", FormatCents(-5))
	})

	t.Run("should round-trip with ParseAmount", func(t *testing.T) {
		for _, cents := range []int64{0, 1, 99, 100, 1015, 123456} {
			parsed, err := ParseAmount(FormatCents(cents))
			assert.NoError(t, err)
			assert.Equal(t, cents, parsed)
		}
	})
}
