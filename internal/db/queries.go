package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sjlee-dev/talkvault/internal/chatlog"
	"github.com/sjlee-dev/talkvault/internal/errors"
)

// StoredMessage is one persisted message row.
type StoredMessage struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"-"`
	DT         string    `json:"dt"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	DedupKey   string    `json:"dedup_key"`
	Source     *string   `json:"source,omitempty"`
	ImportRun  *string   `json:"import_run,omitempty"`
	ImportedAt string    `json:"imported_at"`
}

// SenderCount is one row of the per-sender tally.
type SenderCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

// InsertMessage persists one parsed message, keyed by its dedup fingerprint.
// INSERT OR IGNORE makes the insert-if-absent atomic inside the storage
// engine: if a row with the same dedup_key exists the statement is a no-op
// and InsertMessage reports inserted=false. Idempotent at the key level.
func InsertMessage(db *sql.DB, m chatlog.Message, source, importRun *string) (bool, error) {
	query := `
		INSERT OR IGNORE INTO messages
		(dt, dt_minute, sender, body, norm_body, dedup_key, source, import_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query,
		m.Timestamp.Format(chatlog.TimestampLayout),
		m.MinuteKey(),
		m.Sender,
		m.Body,
		chatlog.NormalizeForDedup(m.Body),
		m.DedupKey(),
		toNullString(source),
		toNullString(importRun),
	)
	if err != nil {
		// OR IGNORE swallows the dedup_key constraint; anything that still
		// trips a constraint is reported distinctly so callers can count it
		// as skipped instead of failing the batch.
		if isUniqueConstraintError(err) {
			return false, errors.NewUniqueConstraint()
		}
		return false, errors.NewInternal(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rows == 1, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ListOptions controls ListMessages ordering and windowing.
type ListOptions struct {
	Limit      int    // 0 = no limit
	Before     string // exclusive upper bound on dt, "2006-01-02T15:04:05" form
	Descending bool
}

// ListMessages returns stored messages ordered by timestamp, ties broken by
// insertion order (the autoincrement id).
func ListMessages(db *sql.DB, opts ListOptions) ([]StoredMessage, error) {
	var args []any
	where := ""
	if opts.Before != "" {
		where = "WHERE dt < ?"
		args = append(args, opts.Before)
	}

	order := "ASC"
	if opts.Descending {
		order = "DESC"
	}

	limit := ""
	if opts.Limit > 0 {
		limit = "LIMIT ?"
		args = append(args, opts.Limit)
	}

	query := fmt.Sprintf(`
		SELECT id, dt, sender, body, dedup_key, source, import_run, imported_at
		FROM messages
		%s
		ORDER BY dt %s, id %s
		%s
	`, where, order, order, limit)

	return queryMessages(db, query, args...)
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	return strings.ReplaceAll(value, "_", `\_`)
}

// SearchMessages returns messages whose body or normalized body contains
// the query as a substring, in ascending timestamp order.
func SearchMessages(db *sql.DB, query string, limit int) ([]StoredMessage, error) {
	like := "%" + escapeLike(query) + "%"
	return queryMessages(db, `
		SELECT id, dt, sender, body, dedup_key, source, import_run, imported_at
		FROM messages
		WHERE body LIKE ? ESCAPE '\' OR norm_body LIKE ? ESCAPE '\'
		ORDER BY dt ASC, id ASC
		LIMIT ?
	`, like, like, limit)
}

// CountBySender tallies stored messages per sender display name.
// A limit of 0 returns every sender.
func CountBySender(db *sql.DB, limit int) ([]SenderCount, error) {
	var args []any
	limitClause := ""
	if limit > 0 {
		limitClause = "LIMIT ?"
		args = append(args, limit)
	}

	query := fmt.Sprintf(`
		SELECT sender, COUNT(*) AS count
		FROM messages
		GROUP BY sender
		ORDER BY count DESC, sender ASC
		%s
	`, limitClause)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var counts []SenderCount
	for rows.Next() {
		var sc SenderCount
		if err := rows.Scan(&sc.Sender, &sc.Count); err != nil {
			return nil, errors.NewInternal(err)
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}

// CountDistinctSenders returns the number of distinct sender display names.
func CountDistinctSenders(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(DISTINCT sender) FROM messages").Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// CountMessages returns the total number of stored messages.
func CountMessages(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// LatestTimestamp returns the dt of the newest stored message, or "" for an
// empty archive.
func LatestTimestamp(db *sql.DB) (string, error) {
	return boundaryTimestamp(db, "DESC")
}

// OldestTimestamp returns the dt of the oldest stored message, or "" for an
// empty archive.
func OldestTimestamp(db *sql.DB) (string, error) {
	return boundaryTimestamp(db, "ASC")
}

func boundaryTimestamp(db *sql.DB, order string) (string, error) {
	var dt string
	query := fmt.Sprintf("SELECT dt FROM messages ORDER BY dt %s, id %s LIMIT 1", order, order)
	err := db.QueryRow(query).Scan(&dt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return dt, nil
}

// RenameSenders rewrites sender display names per the mapping, all pairs in
// one transaction. Dedup keys never include the sender, so a rename cannot
// create or resolve duplicate collisions. Returns the number of rows changed.
func RenameSenders(db *sql.DB, mapping map[string]string) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	var renamed int64
	for from, to := range mapping {
		if from == to {
			continue
		}
		result, err := tx.Exec("UPDATE messages SET sender = ? WHERE sender = ?", to, from)
		if err != nil {
			return 0, errors.NewInternal(err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, errors.NewInternal(err)
		}
		renamed += n
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}
	return renamed, nil
}

// queryMessages runs a SELECT over the messages projection and scans rows.
func queryMessages(db *sql.DB, query string, args ...any) ([]StoredMessage, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var msgs []StoredMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return msgs, nil
}

// scanMessage scans a single row into a StoredMessage.
func scanMessage(rows *sql.Rows) (*StoredMessage, error) {
	var (
		m         StoredMessage
		source    sql.NullString
		importRun sql.NullString
	)

	err := rows.Scan(&m.ID, &m.DT, &m.Sender, &m.Body, &m.DedupKey, &source, &importRun, &m.ImportedAt)
	if err != nil {
		return nil, err
	}

	m.Source = fromNullString(source)
	m.ImportRun = fromNullString(importRun)

	ts, err := time.ParseInLocation(chatlog.TimestampLayout, m.DT, time.Local)
	if err != nil {
		return nil, fmt.Errorf("malformed dt %q: %w", m.DT, err)
	}
	m.Timestamp = ts

	return &m, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
