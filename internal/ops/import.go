package ops

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sjlee-dev/talkvault/internal/chatlog"
	"github.com/sjlee-dev/talkvault/internal/db"
	"github.com/sjlee-dev/talkvault/internal/errors"
)

// ImportInput contains parameters for the Import operation.
// Provide either Data (raw upload bytes, decoded per the encoding policy)
// or Text (already-decoded export text).
type ImportInput struct {
	Data   []byte
	Text   string
	Source string // upload filename or "pasted"; optional
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Total     int    `json:"total"`
	ImportRun string `json:"import_run"`
}

// Import decodes, parses, and persists one export file. Each parsed
// message is inserted in file order; duplicates (by dedup key) are
// silently skipped and counted. If the storage layer faults mid-batch the
// error is returned together with the counts accumulated so far.
func Import(database *sql.DB, input ImportInput) (*ImportOutput, error) {
	text := input.Text
	if text == "" && len(input.Data) > 0 {
		decoded, err := chatlog.DecodeUpload(input.Data)
		if err != nil {
			return nil, errors.NewDecodeFailed(err)
		}
		text = decoded
	}

	if strings.TrimSpace(text) == "" {
		return nil, errors.NewInvalidRequest("nothing to import")
	}

	msgs := chatlog.Parse(text)
	if len(msgs) == 0 {
		return nil, errors.NewNoMessages()
	}

	runID := generateULID()
	var source *string
	if s := strings.TrimSpace(input.Source); s != "" {
		source = &s
	}

	out := &ImportOutput{Total: len(msgs), ImportRun: runID}
	for _, m := range msgs {
		inserted, err := db.InsertMessage(database, m, source, &runID)
		if err != nil {
			if errors.Is(err, errors.ErrUniqueConstraint) {
				// An unexpected uniqueness violation on one record must not
				// fail the rest of the batch.
				out.Skipped++
				continue
			}
			return out, err
		}
		if inserted {
			out.Inserted++
		} else {
			out.Skipped++
		}
	}

	return out, nil
}

// generateULID generates a new ULID for an import run.
func generateULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
