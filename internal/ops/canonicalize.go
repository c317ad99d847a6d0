package ops

import (
	"database/sql"
	"strings"

	"github.com/sjlee-dev/talkvault/internal/config"
	"github.com/sjlee-dev/talkvault/internal/db"
	"github.com/sjlee-dev/talkvault/internal/errors"
)

// CanonicalizeInput contains parameters for the Canonicalize operation.
// If Mapping is empty, a mapping is derived from the config's canonical
// names: every stored sender other than Me is unified to Other (the
// archive is a two-person chat whose export attributed the counterpart
// under varying display names).
type CanonicalizeInput struct {
	Mapping map[string]string
	Me      string // overrides cfg.CanonicalMe
	Other   string // overrides cfg.CanonicalOther
}

// CanonicalizeOutput contains the result of the Canonicalize operation.
type CanonicalizeOutput struct {
	Renamed int64             `json:"renamed"`
	Mapping map[string]string `json:"mapping"`
}

// Canonicalize retroactively rewrites sender display names in stored
// records. Dedup keys exclude the sender, so this cannot create new
// duplicate collisions or resolve existing ones; row count is unchanged.
func Canonicalize(database *sql.DB, cfg *config.Config, input CanonicalizeInput) (*CanonicalizeOutput, error) {
	mapping := input.Mapping
	if len(mapping) == 0 {
		var err error
		mapping, err = deriveMapping(database, cfg, input)
		if err != nil {
			return nil, err
		}
	}

	renamed, err := db.RenameSenders(database, mapping)
	if err != nil {
		return nil, err
	}

	return &CanonicalizeOutput{Renamed: renamed, Mapping: mapping}, nil
}

// deriveMapping builds the two-person unification mapping from the stored
// sender names and the canonical pair.
func deriveMapping(database *sql.DB, cfg *config.Config, input CanonicalizeInput) (map[string]string, error) {
	me := strings.TrimSpace(input.Me)
	if me == "" {
		me = cfg.CanonicalMe
	}
	other := strings.TrimSpace(input.Other)
	if other == "" {
		other = cfg.CanonicalOther
	}
	if me == "" || other == "" {
		return nil, errors.NewInvalidRequest("canonical sender names are not configured; pass --me/--other or an explicit mapping")
	}

	// Every stored sender must be considered, so no listing cap applies here.
	counts, err := db.CountBySender(database, 0)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string)
	for _, sc := range counts {
		if sc.Sender != me && sc.Sender != other {
			mapping[sc.Sender] = other
		}
	}
	return mapping, nil
}
