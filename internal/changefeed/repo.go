package changefeed

import (
	"time"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles changefeed outbox persistence for the publisher worker.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FetchUnpublishedTx locks and returns the oldest unpublished events. Rows are
// locked with SKIP LOCKED so concurrent publishers never double-send.
func (r *Repository) FetchUnpublishedTx(tx *gorm.DB, limit int) ([]models.ChangeEvent, error) {
	var events []models.ChangeEvent
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// MarkPublishedTx stamps the event as drained.
func (r *Repository) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	now := time.Now().UTC()
	return tx.
		Model(&models.ChangeEvent{}).
		Where("id = ?", id).
		Update("published_at", now).Error
}

// DeletePublishedBefore prunes drained events older than the cutoff.
func (r *Repository) DeletePublishedBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("published_at IS NOT NULL AND published_at < ?", cutoff).
		Delete(&models.ChangeEvent{})
	return result.RowsAffected, result.Error
}
