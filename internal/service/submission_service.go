package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"smart-contact-form/internal/metrics"
	"smart-contact-form/internal/model"
	"smart-contact-form/internal/validation"
)

// User-facing messages for the two non-rejection outcomes. The failure
// message is deliberately generic: storage detail never reaches the user.
const (
	ConfirmationMessage = "Thank you! Your message has been sent successfully."
	FailureMessage      = "An error occurred while saving your message. Please try again."
)

// Status is the terminal state of one submit call
type Status int

const (
	// Accepted means validation passed and the record was stored
	Accepted Status = iota
	// Rejected means field validation failed; the store was never invoked
	Rejected
	// Failed means validation passed but the store insert failed
	Failed
)

// Outcome is the result of one submit call. Exactly one of Confirmation,
// FieldErrors, or Message is meaningful, selected by Status.
type Outcome struct {
	Status       Status
	Confirmation string
	FieldErrors  validation.FieldErrors
	Message      string
	SubmissionID uint
}

// SubmissionStore is the persistence surface the service needs
type SubmissionStore interface {
	Insert(fields validation.Fields) (uint, error)
	ListRecent(limit int) ([]model.Submission, error)
}

// Service orchestrates validation and persistence. It holds no state of its
// own; every Submit call is an independent transaction.
type Service struct {
	store   SubmissionStore
	metrics *metrics.Metrics
}

// New creates a submission service
func New(store SubmissionStore, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// Submit validates the raw form fields and, if they pass, stores the
// submission. Validation failures are surfaced verbatim and never logged as
// faults; store failures are logged with full detail and surfaced only as a
// generic message.
func (s *Service) Submit(rawName, rawEmail, rawMessage string) Outcome {
	start := time.Now()
	s.metrics.SubmissionsReceived.Inc()
	defer func() {
		s.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	}()

	fields, fieldErrs := validation.Validate(rawName, rawEmail, rawMessage)
	if len(fieldErrs) > 0 {
		s.metrics.SubmissionsRejected.Inc()
		return Outcome{Status: Rejected, FieldErrors: fieldErrs}
	}

	id, err := s.store.Insert(fields)
	if err != nil {
		logrus.WithError(err).Error("Failed to store submission")
		s.metrics.StoreFailures.Inc()
		return Outcome{Status: Failed, Message: FailureMessage}
	}

	s.metrics.SubmissionsAccepted.Inc()
	logrus.WithField("id", id).Info("Submission stored")
	return Outcome{Status: Accepted, Confirmation: ConfirmationMessage, SubmissionID: id}
}

// ListSubmissions returns recent submissions for the administrative
// listing. Field values are stored text: callers embedding them in markup
// must escape them.
func (s *Service) ListSubmissions(limit int) ([]model.Submission, error) {
	return s.store.ListRecent(limit)
}
