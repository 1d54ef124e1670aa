// Package pricing maps a job's type and priority to its credit cost. It is
// pure and deterministic: no I/O, no clock.
package pricing

import (
	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// Base prices in cents per job type
var basePriceCents = map[entity.JobType]int64{
	entity.JobGrayscale: 2500,
	entity.JobResize:    1500,
	entity.JobThumbnail: 2000,
}

// Priority multipliers expressed in tenths so the arithmetic stays integral:
// low=1.0x, medium=1.5x, high=2.0x, urgent=3.0x.
var priorityMultiplierTenths = map[entity.Priority]int64{
	entity.PriorityLow:    10,
	entity.PriorityMedium: 15,
	entity.PriorityHigh:   20,
	entity.PriorityUrgent: 30,
}

// defaultBaseCents is charged for a job type missing from the table. Kept for
// parity with the original policy; admission validates job types before
// pricing, so in practice this only covers future types.
const defaultBaseCents = 100

// PriceCents returns the credit cost in cents for a job. An unknown priority
// is treated as a policy default of 1.0x, not an error.
func PriceCents(jobType entity.JobType, priority entity.Priority) int64 {
	base, ok := basePriceCents[jobType]
	if !ok {
		base = defaultBaseCents
	}

	mult, ok := priorityMultiplierTenths[priority]
	if !ok {
		mult = 10
	}

	return base * mult / 10
}

// Price returns the credit cost formatted with two decimal places
func Price(jobType entity.JobType, priority entity.Priority) string {
	return entity.FormatCents(PriceCents(jobType, priority))
}
