package ops

import (
	"database/sql"

	"github.com/sjlee-dev/talkvault/internal/db"
)

// SendersInput contains parameters for the Senders operation.
type SendersInput struct {
	Limit int // default: DefaultSenderLimit
}

// SendersOutput contains the per-sender message tally.
type SendersOutput struct {
	Items []db.SenderCount `json:"items"`
}

// Senders tallies stored messages per sender display name, most active
// first.
func Senders(database *sql.DB, input SendersInput) (*SendersOutput, error) {
	limit := clampLimit(input.Limit, DefaultSenderLimit, MaxListLimit)

	items, err := db.CountBySender(database, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []db.SenderCount{}
	}
	return &SendersOutput{Items: items}, nil
}
