package changefeed

import (
	"time"

	"github.com/google/uuid"
	"github.com/novalux/backend/pkg/enums"
)

// Tables carrying change notifications.
const (
	TableProducts = "products"
	TableOrders   = "orders"
)

// Event is the wire payload published for each table change. Consumers treat
// it as a refetch hint only; the record id is advisory.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Table      string         `json:"table"`
	Op         enums.ChangeOp `json:"op"`
	RecordID   *uuid.UUID     `json:"record_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
