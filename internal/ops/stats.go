package ops

import (
	"database/sql"

	"github.com/sjlee-dev/talkvault/internal/db"
)

// StatsOutput describes the archive's extent.
type StatsOutput struct {
	Total   int    `json:"total"`
	Senders int    `json:"senders"`
	Oldest  string `json:"oldest,omitempty"`
	Latest  string `json:"latest,omitempty"`
}

// Stats reports the stored message count and timestamp boundaries.
func Stats(database *sql.DB) (*StatsOutput, error) {
	total, err := db.CountMessages(database)
	if err != nil {
		return nil, err
	}

	senders, err := db.CountDistinctSenders(database)
	if err != nil {
		return nil, err
	}

	oldest, err := db.OldestTimestamp(database)
	if err != nil {
		return nil, err
	}

	latest, err := db.LatestTimestamp(database)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{
		Total:   total,
		Senders: senders,
		Oldest:  oldest,
		Latest:  latest,
	}, nil
}
