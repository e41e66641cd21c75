package store

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"smart-contact-form/internal/model"
	"smart-contact-form/internal/validation"
)

// MaxListLimit is the hard ceiling on a single listing read, regardless of
// the limit a caller asks for.
const MaxListLimit = 500

var (
	// ErrWriteFailed marks any persistence failure during insert.
	ErrWriteFailed = errors.New("submission write failed")
	// ErrUnavailable marks a lost or unreachable database connection.
	ErrUnavailable = errors.New("submission store unavailable")
	// ErrInvalidLimit is returned for non-positive listing limits.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Store persists accepted submissions. Records are append-only: they are
// written once by Insert and only ever removed in bulk by DropAll.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an open database connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the submissions table if it does not exist.
// Idempotent; called on every boot.
func (s *Store) EnsureSchema() error {
	logrus.Info("Ensuring submissions schema...")
	if err := s.db.AutoMigrate(&model.Submission{}); err != nil {
		return fmt.Errorf("failed to migrate submissions table: %w", err)
	}
	return nil
}

// Insert writes a new submission record and returns its assigned id. The id
// and timestamp are assigned by the engine in a single atomic INSERT, so
// concurrent inserts each get a distinct, correctly ordered id.
func (s *Store) Insert(fields validation.Fields) (uint, error) {
	submission := model.Submission{
		Name:    fields.Name,
		Email:   fields.Email,
		Message: fields.Message,
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", classify(err), err)
	}
	return submission.ID, nil
}

// ListRecent returns at most limit submissions, most recent first
// (created_at descending, ties broken by id descending). The limit must be
// positive and is capped at MaxListLimit.
func (s *Store) ListRecent(limit int) ([]model.Submission, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// A dropped (uninstalled) store is an empty store, not a fault
	if !s.db.Migrator().HasTable(&model.Submission{}) {
		return []model.Submission{}, nil
	}

	var submissions []model.Submission
	err := s.db.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// Count returns the total number of stored submissions
func (s *Store) Count() (int64, error) {
	if !s.db.Migrator().HasTable(&model.Submission{}) {
		return 0, nil
	}

	var count int64
	if err := s.db.Model(&model.Submission{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// DropAll irreversibly removes every record and the backing table itself.
// Idempotent: dropping an absent table succeeds.
func (s *Store) DropAll() error {
	migrator := s.db.Migrator()
	if !migrator.HasTable(&model.Submission{}) {
		return nil
	}
	if err := migrator.DropTable(&model.Submission{}); err != nil {
		return fmt.Errorf("failed to drop submissions table: %w", err)
	}
	logrus.Info("Submissions table dropped")
	return nil
}

// classify maps an engine error onto the store's error taxonomy
func classify(err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, gorm.ErrInvalidDB) {
		return ErrUnavailable
	}
	return ErrWriteFailed
}
