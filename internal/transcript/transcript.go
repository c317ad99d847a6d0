// Package transcript renders the stored message list into the export
// formats: a pipe-delimited plain transcript, the original export dialect,
// and CSV. Each rendering is a deterministic function of list order.
package transcript

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/sjlee-dev/talkvault/internal/db"
	"github.com/sjlee-dev/talkvault/internal/errors"
)

// Format identifies a transcript output format.
type Format string

const (
	FormatPlain Format = "txt"
	FormatKakao Format = "kakao"
	FormatCSV   Format = "csv"
)

// HeaderPrefix is the first line of a self-describing export.
const HeaderPrefix = "# CHAT_EXPORT v1"

// koreanWeekdays is indexed by time.Weekday (Sunday first).
var koreanWeekdays = [7]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// Ext returns the file extension for a format.
func (f Format) Ext() string {
	if f == FormatKakao {
		return "txt"
	}
	return string(f)
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPlain, FormatKakao, FormatCSV:
		return Format(s), nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("format must be one of: txt, kakao, csv (got %q)", s))
}

// Render produces the transcript for msgs in the given format, optionally
// prefixed with the export header block.
func Render(format Format, msgs []db.StoredMessage, includeHeader bool) (string, error) {
	var body string
	switch format {
	case FormatPlain:
		body = RenderPlain(msgs)
	case FormatKakao:
		body = RenderKakao(msgs)
	case FormatCSV:
		body = RenderCSV(msgs)
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown format %q", format))
	}

	if !includeHeader {
		return body, nil
	}
	return BuildHeader("chat", format) + body, nil
}

// BuildHeader returns the self-describing comment block placed before a
// transcript, e.g. "# CHAT_EXPORT v1\n# type=chat\n# format=csv\n".
func BuildHeader(kind string, format Format) string {
	return strings.Join([]string{
		HeaderPrefix,
		"# type=" + kind,
		"# format=" + string(format),
	}, "\n") + "\n"
}

// RenderPlain renders "YYYY-MM-DD HH:MM | sender | body" lines.
func RenderPlain(msgs []db.StoredMessage) string {
	if len(msgs) == 0 {
		return ""
	}
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = fmt.Sprintf("%s | %s | %s", m.Timestamp.Format("2006-01-02 15:04"), m.Sender, m.Body)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// RenderKakao renders the original export dialect: a decorated date
// separator at each day boundary, then one header line per message. The
// output round-trips through chatlog.Parse.
func RenderKakao(msgs []db.StoredMessage) string {
	if len(msgs) == 0 {
		return ""
	}

	var lines []string
	currentDate := ""
	for _, m := range msgs {
		if day := m.Timestamp.Format("2006-01-02"); day != currentDate {
			currentDate = day
			lines = append(lines, fmt.Sprintf("--------------- %s ---------------", kakaoDate(m.Timestamp)))
		}
		lines = append(lines, fmt.Sprintf("[%s] [%s] %s", m.Sender, kakaoTime(m.Timestamp), m.Body))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// RenderCSV renders a dt,sender,body table with a header row.
func RenderCSV(msgs []db.StoredMessage) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"dt", "sender", "body"}) //nolint:errcheck // bytes.Buffer cannot fail
	for _, m := range msgs {
		w.Write([]string{m.DT, m.Sender, m.Body}) //nolint:errcheck
	}
	w.Flush()
	return buf.String()
}

// kakaoDate formats "2025년 11월 9일 일요일" (no zero padding).
func kakaoDate(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일 %s", t.Year(), int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
}

// kakaoTime formats "오전 9:25" / "오후 10:05" with 12-hour values.
func kakaoTime(t time.Time) string {
	marker := "오전"
	if t.Hour() >= 12 {
		marker = "오후"
	}
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%s %d:%02d", marker, hour12, t.Minute())
}
