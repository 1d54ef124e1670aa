package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
)

// JobType represents the transformation a job applies to its image
type JobType string

// Job types
const (
	JobResize    JobType = "resize"
	JobThumbnail JobType = "thumbnail"
	JobGrayscale JobType = "grayscale"
)

// ParseJobType validates a job type string
func ParseJobType(s string) (JobType, error) {
	switch JobType(strings.ToLower(s)) {
	case JobResize:
		return JobResize, nil
	case JobThumbnail:
		return JobThumbnail, nil
	case JobGrayscale:
		return JobGrayscale, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrUnsupportedJobType, s)
}

// Priority represents the urgency a job was submitted with. It only affects
// pricing; the queue itself is FIFO.
type Priority string

// Priorities
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// JobStatus is the job lifecycle state
type JobStatus string

// Job statuses. PENDING_PAYMENT and PAYMENT_FAILED belong to the admission
// path; the executor only ever sees QUEUED and later states.
const (
	StatusPendingPayment JobStatus = "pending_payment"
	StatusPaymentFailed  JobStatus = "payment_failed"
	StatusQueued         JobStatus = "queued"
	StatusProcessing     JobStatus = "processing"
	StatusCompleted      JobStatus = "completed"
	StatusFailed         JobStatus = "failed"
)

// validTransitions encodes the job state machine. No transition skips a state.
var validTransitions = map[JobStatus][]JobStatus{
	StatusPendingPayment: {StatusQueued, StatusPaymentFailed},
	StatusQueued:         {StatusProcessing},
	StatusProcessing:     {StatusCompleted, StatusFailed},
	StatusFailed:         {StatusProcessing},
}

// CanTransitionTo reports whether the lifecycle permits moving to next
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionSources returns every status from which next is reachable.
// Repositories use it to guard status writes at the database level.
func TransitionSources(next JobStatus) []JobStatus {
	var sources []JobStatus
	for from, allowed := range validTransitions {
		for _, to := range allowed {
			if to == next {
				sources = append(sources, from)
			}
		}
	}
	return sources
}

// IsTerminal reports whether no further automatic transition occurs from s.
// FAILED is only conditionally terminal: the executor may retry out of it
// until its attempt budget is exhausted.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusPaymentFailed
}

// Job is one requested transformation of an uploaded image. StoragePath starts
// empty and is rewritten to the processed output location when the job completes.
type Job struct {
	ID          uuid.UUID
	ImageID     uuid.UUID
	Type        JobType
	Priority    Priority
	Status      JobStatus
	StoragePath string
	Attempts    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewJob creates a job in PENDING_PAYMENT for the given image
func NewJob(imageID uuid.UUID, jobType JobType, priority Priority, timeProvider coreport.TimeProvider) (*Job, error) {
	if imageID == uuid.Nil {
		return nil, errs.ErrInvalidRequest
	}
	if _, err := ParseJobType(string(jobType)); err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Job{
		ID:        uuid.New(),
		ImageID:   imageID,
		Type:      jobType,
		Priority:  priority,
		Status:    StatusPendingPayment,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TransitionTo moves the job to the next status, enforcing the state machine
func (j *Job) TransitionTo(next JobStatus, timeProvider coreport.TimeProvider) error {
	if !j.Status.CanTransitionTo(next) {
		return &errs.TransitionError{JobID: j.ID.String(), From: string(j.Status), To: string(next)}
	}
	j.Status = next
	j.UpdatedAt = timeProvider.Now()
	return nil
}
