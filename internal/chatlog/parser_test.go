package chatlog

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestParse_BasicExport(t *testing.T) {
	text := "--------------- 2025년 11월 9일 일요일 ---------------\n" +
		"[민수] [오전 9:25] 안녕\n" +
		"오늘 뭐해\n" +
		"[지은] [오후 10:05] 영화 보자\n"

	msgs := Parse(text)
	if len(msgs) != 2 {
		t.Fatalf("Parse() returned %d messages, want 2", len(msgs))
	}

	want0 := Message{Timestamp: date(2025, time.November, 9, 9, 25), Sender: "민수", Body: "안녕\n오늘 뭐해"}
	if msgs[0] != want0 {
		t.Errorf("msgs[0] = %+v, want %+v", msgs[0], want0)
	}

	want1 := Message{Timestamp: date(2025, time.November, 9, 22, 5), Sender: "지은", Body: "영화 보자"}
	if msgs[1] != want1 {
		t.Errorf("msgs[1] = %+v, want %+v", msgs[1], want1)
	}
}

func TestParse_TwelveHourMapping(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Time
	}{
		{"midnight", "[a] [오전 12:01] x", date(2024, time.January, 1, 0, 1)},
		{"noon", "[a] [오후 12:30] x", date(2024, time.January, 1, 12, 30)},
		{"morning", "[a] [오전 9:05] x", date(2024, time.January, 1, 9, 5)},
		{"evening", "[a] [오후 11:59] x", date(2024, time.January, 1, 23, 59)},
		{"one pm", "[a] [오후 1:00] x", date(2024, time.January, 1, 13, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "--------------- 2024년 1월 1일 월요일 ---------------\n" + tt.header + "\n"
			msgs := Parse(text)
			if len(msgs) != 1 {
				t.Fatalf("Parse() returned %d messages, want 1", len(msgs))
			}
			if !msgs[0].Timestamp.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", msgs[0].Timestamp, tt.want)
			}
		})
	}
}

func TestParse_ContinuationStopsAtNextHeader(t *testing.T) {
	text := "--------------- 2025년 3월 2일 일요일 ---------------\n" +
		"[a] [오전 8:00] first\n" +
		"more of first\n" +
		"[b] [오전 8:01] second\n" +
		"more of second\n"

	msgs := Parse(text)
	if len(msgs) != 2 {
		t.Fatalf("Parse() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].Body != "first\nmore of first" {
		t.Errorf("msgs[0].Body = %q", msgs[0].Body)
	}
	if msgs[1].Body != "second\nmore of second" {
		t.Errorf("msgs[1].Body = %q", msgs[1].Body)
	}
}

func TestParse_DateSeparatorFlushesPending(t *testing.T) {
	text := "--------------- 2025년 3월 2일 일요일 ---------------\n" +
		"[a] [오후 11:59] late\n" +
		"--------------- 2025년 3월 3일 월요일 ---------------\n" +
		"[a] [오전 12:00] early\n"

	msgs := Parse(text)
	if len(msgs) != 2 {
		t.Fatalf("Parse() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].Body != "late" {
		t.Errorf("msgs[0].Body = %q, want %q", msgs[0].Body, "late")
	}
	if got, want := msgs[1].Timestamp, date(2025, time.March, 3, 0, 0); !got.Equal(want) {
		t.Errorf("msgs[1].Timestamp = %v, want %v", got, want)
	}
}

func TestParse_PreambleIgnored(t *testing.T) {
	// Exports start with a title block before the first date separator.
	text := "민수 님과 카카오톡 대화\n" +
		"저장한 날짜 : 2025-11-10 08:00\n" +
		"\n" +
		"--------------- 2025년 11월 9일 일요일 ---------------\n" +
		"[민수] [오전 9:25] 안녕\n"

	msgs := Parse(text)
	if len(msgs) != 1 {
		t.Fatalf("Parse() returned %d messages, want 1", len(msgs))
	}
	if msgs[0].Body != "안녕" {
		t.Errorf("Body = %q, want %q", msgs[0].Body, "안녕")
	}
}

func TestParse_HeaderBeforeDateSeparatorIgnored(t *testing.T) {
	text := "[민수] [오전 9:25] 날짜 없음\n" +
		"--------------- 2025년 11월 9일 일요일 ---------------\n" +
		"[민수] [오전 9:30] 날짜 있음\n"

	msgs := Parse(text)
	if len(msgs) != 1 {
		t.Fatalf("Parse() returned %d messages, want 1", len(msgs))
	}
	if msgs[0].Body != "날짜 있음" {
		t.Errorf("Body = %q, want %q", msgs[0].Body, "날짜 있음")
	}
}

func TestParse_MalformedLinesNeverAbort(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"hour out of range", "[a] [오전 13:00] x"},
		{"minute out of range", "[a] [오후 1:75] x"},
		{"month out of range", "--------------- 2025년 13월 1일 ---------------"},
		{"half a header", "[a] [오전 9:25"},
		{"stray brackets", "[[]] not a header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "--------------- 2025년 1월 1일 수요일 ---------------\n" +
				"[a] [오전 9:00] ok\n" +
				tt.line + "\n"

			msgs := Parse(text)
			if len(msgs) != 1 {
				t.Fatalf("Parse() returned %d messages, want 1", len(msgs))
			}
			// The malformed line becomes a continuation of the pending message.
			if want := "ok\n" + tt.line; msgs[0].Body != want {
				t.Errorf("Body = %q, want %q", msgs[0].Body, want)
			}
		})
	}
}

func TestParse_EmptyFirstBodyLine(t *testing.T) {
	text := "--------------- 2025년 1월 1일 수요일 ---------------\n" +
		"[a] [오전 9:00] \n" +
		"body on next line\n"

	msgs := Parse(text)
	if len(msgs) != 1 {
		t.Fatalf("Parse() returned %d messages, want 1", len(msgs))
	}
	if want := "\nbody on next line"; msgs[0].Body != want {
		t.Errorf("Body = %q, want %q", msgs[0].Body, want)
	}
}

func TestParse_CRLFInput(t *testing.T) {
	text := "--------------- 2025년 1월 1일 수요일 ---------------\r\n" +
		"[a] [오전 9:00] hi\r\n" +
		"second line\r\n"

	msgs := Parse(text)
	if len(msgs) != 1 {
		t.Fatalf("Parse() returned %d messages, want 1", len(msgs))
	}
	if msgs[0].Body != "hi\nsecond line" {
		t.Errorf("Body = %q", msgs[0].Body)
	}
}

func TestParse_Restartable(t *testing.T) {
	text := "--------------- 2025년 11월 9일 일요일 ---------------\n" +
		"[민수] [오전 9:25] 안녕\n"

	first := Parse(text)
	second := Parse(text)
	if len(first) != len(second) {
		t.Fatalf("repeat parse lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("message %d differs across parses", i)
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if msgs := Parse(""); len(msgs) != 0 {
		t.Errorf("Parse(\"\") returned %d messages, want 0", len(msgs))
	}
}
