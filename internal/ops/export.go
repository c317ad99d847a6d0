package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sjlee-dev/talkvault/internal/config"
	"github.com/sjlee-dev/talkvault/internal/db"
	"github.com/sjlee-dev/talkvault/internal/errors"
	"github.com/sjlee-dev/talkvault/internal/transcript"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path          string            // optional, default: <base>/exports/chat-<timestamp>.<ext>
	BaseDir       string            // used for the default path
	Format        transcript.Format // required
	IncludeHeader bool
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Export renders the full archive (ascending order) in the requested
// transcript format and writes it to a file. The write goes through a
// temp file and an atomic rename so a failure preserves any existing file.
func Export(database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	format, err := transcript.ParseFormat(string(input.Format))
	if err != nil {
		return nil, err
	}

	exportPath := input.Path
	if exportPath == "" {
		if input.BaseDir == "" {
			return nil, errors.NewInvalidRequest("export path is required")
		}
		stamp := time.Now().Format("2006-01-02T150405")
		exportPath = filepath.Join(input.BaseDir, "exports", fmt.Sprintf("chat-%s.%s", stamp, format.Ext()))
	}

	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	msgs, err := db.ListMessages(database, db.ListOptions{})
	if err != nil {
		return nil, err
	}

	content, err := transcript.Render(format, msgs, input.IncludeHeader)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, []byte(content), 0600); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}
	if err := os.Rename(tempPath, exportPath); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	return &ExportOutput{Path: exportPath, Count: len(msgs)}, nil
}
