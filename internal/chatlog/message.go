package chatlog

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// MinuteLayout is the canonical minute-precision timestamp form used in
// dedup keys and the dt_minute column.
const MinuteLayout = "2006-01-02T15:04"

// TimestampLayout is the second-precision form stored in the dt column.
const TimestampLayout = "2006-01-02T15:04:05"

// Message is one parsed chat message. The export dialect carries minute
// precision only, so Timestamp always has zero seconds.
type Message struct {
	Timestamp time.Time
	Sender    string
	Body      string
}

// MinuteKey returns the timestamp truncated to minute precision in the
// canonical form used for deduplication.
func (m Message) MinuteKey() string {
	return m.Timestamp.Format(MinuteLayout)
}

// DedupKey returns the stable fingerprint for duplicate suppression:
// sha256 over the minute key and the normalized body. The sender is
// deliberately excluded so the same utterance attributed to a different
// display name still counts as a duplicate.
func (m Message) DedupKey() string {
	sum := sha256.Sum256([]byte(m.MinuteKey() + "\n" + NormalizeForDedup(m.Body)))
	return hex.EncodeToString(sum[:])
}
