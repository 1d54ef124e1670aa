package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	"github.com/ama3it/image-workers-backend/mocks/port/core"
)

func TestParseJobType(t *testing.T) {
	t.Run("should accept known types", func(t *testing.T) {
		for _, input := range []string{"resize", "thumbnail", "grayscale"} {
			jobType, err := ParseJobType(input)
			assert.NoError(t, err)
			assert.Equal(t, JobType(input), jobType)
		}
	})

	t.Run("should be case insensitive", func(t *testing.T) {
		jobType, err := ParseJobType("GRAYSCALE")
		assert.NoError(t, err)
		assert.Equal(t, JobGrayscale, jobType)
	})

	t.Run("should reject unknown types", func(t *testing.T) {
		_, err := ParseJobType("sharpen")
		assert.ErrorIs(t, err, errs.ErrUnsupportedJobType)
	})
}

func TestJobStatus_CanTransitionTo(t *testing.T) {
	t.Run("should allow the lifecycle path", func(t *testing.T) {
		assert.True(t, StatusPendingPayment.CanTransitionTo(StatusQueued))
		assert.True(t, StatusPendingPayment.CanTransitionTo(StatusPaymentFailed))
		assert.True(t, StatusQueued.CanTransitionTo(StatusProcessing))
		assert.True(t, StatusProcessing.CanTransitionTo(StatusCompleted))
		assert.True(t, StatusProcessing.CanTransitionTo(StatusFailed))
		assert.True(t, StatusFailed.CanTransitionTo(StatusProcessing))
	})

	t.Run("should forbid skipping states", func(t *testing.T) {
		assert.False(t, StatusPendingPayment.CanTransitionTo(StatusProcessing))
		assert.False(t, StatusPendingPayment.CanTransitionTo(StatusCompleted))
		assert.False(t, StatusQueued.CanTransitionTo(StatusCompleted))
	})

	t.Run("should forbid leaving terminal states", func(t *testing.T) {
		for _, next := range []JobStatus{StatusPendingPayment, StatusQueued, StatusProcessing, StatusFailed} {
			assert.False(t, StatusCompleted.CanTransitionTo(next))
			assert.False(t, StatusPaymentFailed.CanTransitionTo(next))
		}
	})
}

func TestJobStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusPaymentFailed.IsTerminal())
	assert.False(t, StatusFailed.IsTerminal()) // retryable until the budget runs out
	assert.False(t, StatusQueued.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusPendingPayment.IsTerminal())
}

func TestTransitionSources(t *testing.T) {
	assert.ElementsMatch(t, []JobStatus{StatusQueued, StatusFailed}, TransitionSources(StatusProcessing))
	assert.ElementsMatch(t, []JobStatus{StatusProcessing}, TransitionSources(StatusCompleted))
	assert.ElementsMatch(t, []JobStatus{StatusPendingPayment}, TransitionSources(StatusQueued))
	assert.Empty(t, TransitionSources(StatusPendingPayment))
}

func TestJob_TransitionTo(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTimeProvider := new(core.MockTimeProvider)
	mockTimeProvider.On("Now").Return(fixedTime)

	t.Run("should start in pending payment and walk the lifecycle", func(t *testing.T) {
		job, err := NewJob(uuid.New(), JobResize, PriorityMedium, mockTimeProvider)
		assert.NoError(t, err)
		assert.Equal(t, StatusPendingPayment, job.Status)

		assert.NoError(t, job.TransitionTo(StatusQueued, mockTimeProvider))
		assert.NoError(t, job.TransitionTo(StatusProcessing, mockTimeProvider))
		assert.NoError(t, job.TransitionTo(StatusCompleted, mockTimeProvider))
	})

	t.Run("should reject forbidden transitions with details", func(t *testing.T) {
		job, err := NewJob(uuid.New(), JobResize, PriorityLow, mockTimeProvider)
		assert.NoError(t, err)

		err = job.TransitionTo(StatusCompleted, mockTimeProvider)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, StatusPendingPayment, job.Status)
	})

	t.Run("should reject jobs with unknown type", func(t *testing.T) {
		_, err := NewJob(uuid.New(), JobType("sharpen"), PriorityLow, mockTimeProvider)
		assert.ErrorIs(t, err, errs.ErrUnsupportedJobType)
	})
}
