package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

func TestPriceCents(t *testing.T) {
	t.Run("should price each job type at low priority", func(t *testing.T) {
		assert.Equal(t, int64(2500), PriceCents(entity.JobGrayscale, entity.PriorityLow))
		assert.Equal(t, int64(1500), PriceCents(entity.JobResize, entity.PriorityLow))
		assert.Equal(t, int64(2000), PriceCents(entity.JobThumbnail, entity.PriorityLow))
	})

	t.Run("should apply priority multipliers", func(t *testing.T) {
		assert.Equal(t, int64(3000), PriceCents(entity.JobThumbnail, entity.PriorityMedium))
		assert.Equal(t, int64(3000), PriceCents(entity.JobResize, entity.PriorityHigh))
		assert.Equal(t, int64(7500), PriceCents(entity.JobGrayscale, entity.PriorityUrgent))
	})

	t.Run("should fall back to the default base for unknown types", func(t *testing.T) {
		assert.Equal(t, int64(100), PriceCents(entity.JobType("sharpen"), entity.PriorityLow))
		assert.Equal(t, int64(300), PriceCents(entity.JobType("sharpen"), entity.PriorityUrgent))
	})

	t.Run("should treat unknown priority as 1x", func(t *testing.T) {
		assert.Equal(t, int64(2500), PriceCents(entity.JobGrayscale, entity.Priority("whenever")))
	})
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "75.00", Price(entity.JobGrayscale, entity.PriorityUrgent))
	assert.Equal(t, "15.00", Price(entity.JobResize, entity.PriorityLow))
	assert.Equal(t, "30.00", Price(entity.JobThumbnail, entity.PriorityMedium))
}
