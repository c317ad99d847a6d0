package ops

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sjlee-dev/talkvault/internal/chatlog"
	"github.com/sjlee-dev/talkvault/internal/db"
	"github.com/sjlee-dev/talkvault/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit      int    // default: DefaultListLimit, max: MaxListLimit
	Before     string // optional exclusive upper bound, "2006-01-02" or "2006-01-02T15:04:05"
	Descending bool
	All        bool // ignore Limit, return the full archive
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []db.StoredMessage `json:"items"`
	Count int                `json:"count"`
}

// List retrieves stored messages ordered by timestamp, insertion order
// breaking ties.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	before, err := normalizeBefore(input.Before)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	if input.All {
		limit = 0
	}

	items, err := db.ListMessages(database, db.ListOptions{
		Limit:      limit,
		Before:     before,
		Descending: input.Descending,
	})
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []db.StoredMessage{}
	}

	return &ListOutput{Items: items, Count: len(items)}, nil
}

// normalizeBefore accepts a date or full timestamp and returns the dt-form
// bound, or "" when unset.
func normalizeBefore(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t.Format(chatlog.TimestampLayout), nil
	}
	if _, err := time.ParseInLocation(chatlog.TimestampLayout, s, time.Local); err == nil {
		return s, nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("before must be YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS (got %q)", s))
}
