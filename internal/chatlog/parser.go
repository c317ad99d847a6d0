package chatlog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The export dialect has two structural line forms. Everything else is
// either a continuation of the pending message or noise to be skipped.
//
//	--------------- 2025년 11월 9일 일요일 ---------------
//	[민수] [오전 9:25] 안녕
var (
	dateSeparatorRe = regexp.MustCompile(`^-{3,}\s*(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일(?:\s+[월화수목금토일]요일)?\s*-{3,}\s*$`)
	messageHeaderRe = regexp.MustCompile(`^\[([^\[\]]+)\] \[(오전|오후) (\d{1,2}):(\d{2})\] ?(.*)$`)
)

// lineKind tags the classification of a single input line.
type lineKind int

const (
	lineOther lineKind = iota // blank, preamble, or body continuation
	lineDateSeparator
	lineMessageHeader
)

// line is a classified input line. Fields beyond kind and text are only
// set for the kind they belong to.
type line struct {
	kind   lineKind
	year   int
	month  int
	day    int
	sender string
	hour   int // 24-hour, already resolved from the 오전/오후 marker
	minute int
	text   string
}

// classifyLine matches one raw line against the dialect's structural
// forms. A line that looks structural but carries out-of-range values
// (hour 13, minute 61, ...) is demoted to lineOther rather than rejected:
// the parser never aborts a file on one bad line.
func classifyLine(raw string) line {
	if m := dateSeparatorRe.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return line{kind: lineDateSeparator, year: year, month: month, day: day}
		}
	}

	if m := messageHeaderRe.FindStringSubmatch(raw); m != nil {
		hour12, _ := strconv.Atoi(m[3])
		minute, _ := strconv.Atoi(m[4])
		if hour12 >= 1 && hour12 <= 12 && minute <= 59 {
			return line{
				kind:   lineMessageHeader,
				sender: m[1],
				hour:   resolveHour(m[2], hour12),
				minute: minute,
				text:   m[5],
			}
		}
	}

	return line{kind: lineOther, text: raw}
}

// resolveHour maps a 12-hour value plus the 오전/오후 marker to 24-hour
// form. 오전 12 is midnight (hour 0); 오후 12 is noon (hour 12).
func resolveHour(marker string, hour12 int) int {
	hour := hour12 % 12
	if marker == "오후" {
		hour += 12
	}
	return hour
}

// parser is the state machine driven by classified lines. date is the
// zero time until the first date separator; messages seen before it
// cannot be dated and are dropped.
type parser struct {
	date    time.Time
	pending *Message
	out     []Message
}

// feed applies one classified line to the parser state.
func (p *parser) feed(l line) {
	switch l.kind {
	case lineDateSeparator:
		p.flush()
		p.date = time.Date(l.year, time.Month(l.month), l.day, 0, 0, 0, 0, time.Local)

	case lineMessageHeader:
		p.flush()
		if p.date.IsZero() {
			return // header before any date separator: undatable, skip
		}
		p.pending = &Message{
			Timestamp: time.Date(p.date.Year(), p.date.Month(), p.date.Day(), l.hour, l.minute, 0, 0, time.Local),
			Sender:    l.sender,
			Body:      l.text,
		}

	case lineOther:
		if p.pending != nil {
			p.pending.Body += "\n" + l.text
		} else if strings.TrimSpace(l.text) != "" {
			// Unmatched non-blank line with no pending message: preamble
			// such as the export's title block. Skipped.
			return
		}
	}
}

// flush emits the pending message, if any.
func (p *parser) flush() {
	if p.pending != nil {
		p.out = append(p.out, *p.pending)
		p.pending = nil
	}
}

// Parse converts the full decoded text of one export file into messages
// in file order. It is a pure function: no state survives across calls,
// and it never fails on malformed input — unparseable lines become body
// continuations or are skipped.
func Parse(text string) []Message {
	p := &parser{}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1] // trailing newline, not an extra blank line
	}
	for _, raw := range lines {
		p.feed(classifyLine(raw))
	}
	p.flush()
	return p.out
}
