package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/enums"
)

// ChangeEvent is the outbox row behind table change notifications. It is
// written in the same transaction as the mutation it describes and drained
// to Pub/Sub by the changefeed publisher.
type ChangeEvent struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TableName   string         `gorm:"column:table_name;not null"`
	Op          enums.ChangeOp `gorm:"column:op;not null"`
	RecordID    *uuid.UUID     `gorm:"column:record_id;type:uuid"`
	PublishedAt *time.Time     `gorm:"column:published_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}
