package changefeed

import (
	"errors"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/novalux/backend/pkg/enums"
	"gorm.io/gorm"
)

// Recorder appends change events inside the mutation transaction so that a
// committed write and its notification are atomic.
type Recorder struct{}

// NewRecorder constructs a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordTx inserts a change event row on the provided transaction.
func (r *Recorder) RecordTx(tx *gorm.DB, table string, op enums.ChangeOp, recordID *uuid.UUID) error {
	if tx == nil {
		return errors.New("transaction is required")
	}
	if table == "" {
		return errors.New("table is required")
	}
	if !op.IsValid() {
		return errors.New("invalid change op")
	}
	event := models.ChangeEvent{
		TableName: table,
		Op:        op,
		RecordID:  recordID,
	}
	return tx.Create(&event).Error
}
