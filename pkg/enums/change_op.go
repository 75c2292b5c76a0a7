package enums

// ChangeOp labels the mutation behind a changefeed event. Subscribers do not
// differentiate on it; the label exists for operators reading the feed.
type ChangeOp string

const (
	ChangeOpInsert ChangeOp = "insert"
	ChangeOpUpdate ChangeOp = "update"
	ChangeOpDelete ChangeOp = "delete"
)

func (o ChangeOp) String() string {
	return string(o)
}

func (o ChangeOp) IsValid() bool {
	switch o {
	case ChangeOpInsert, ChangeOpUpdate, ChangeOpDelete:
		return true
	default:
		return false
	}
}
