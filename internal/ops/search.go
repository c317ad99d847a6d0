package ops

import (
	"database/sql"
	"strings"

	"github.com/sjlee-dev/talkvault/internal/config"
	"github.com/sjlee-dev/talkvault/internal/db"
	"github.com/sjlee-dev/talkvault/internal/errors"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query string
	Limit int // default: cfg.SearchLimit
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items []db.StoredMessage `json:"items"`
	Count int                `json:"count"`
	Query string             `json:"query"`
}

// Search finds stored messages containing the query as a substring of the
// body or the normalized body, ascending by timestamp.
func Search(database *sql.DB, cfg *config.Config, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	def := cfg.SearchLimit
	if def <= 0 {
		def = MaxSearchLimit
	}
	limit := clampLimit(input.Limit, def, MaxSearchLimit)

	items, err := db.SearchMessages(database, query, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []db.StoredMessage{}
	}

	return &SearchOutput{Items: items, Count: len(items), Query: query}, nil
}
