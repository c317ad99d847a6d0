package chatlog

import (
	"strings"
	"testing"
)

// "안녕" in CP949/EUC-KR.
var cp949Annyeong = []byte{0xBE, 0xC8, 0xB3, 0xE7}

func TestDecodeUpload(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "plain utf8",
			input: []byte("안녕"),
			want:  "안녕",
		},
		{
			name:  "utf8 with bom strips bom",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("안녕")...),
			want:  "안녕",
		},
		{
			name:  "cp949",
			input: cp949Annyeong,
			want:  "안녕",
		},
		{
			name:  "ascii",
			input: []byte("hello"),
			want:  "hello",
		},
		{
			name:  "empty",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUpload(tt.input)
			if err != nil {
				t.Fatalf("DecodeUpload() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeUpload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeUpload_RejectsBinary(t *testing.T) {
	// NUL bytes mark a non-text upload; no candidate should claim it.
	if _, err := DecodeUpload([]byte{0x00, 0x01, 0xFF, 0x00}); err == nil {
		t.Error("DecodeUpload() accepted binary input")
	}
}

func TestDecodeUpload_LossyFallback(t *testing.T) {
	// 0xFF 0xFF is invalid UTF-8 and unmappable CP949, but carries no NUL:
	// decoded lossily rather than rejected.
	got, err := DecodeUpload([]byte{'o', 'k', 0xFF, 0xFF})
	if err != nil {
		t.Fatalf("DecodeUpload() error = %v", err)
	}
	if !strings.HasPrefix(got, "ok") {
		t.Errorf("DecodeUpload() = %q, want prefix %q", got, "ok")
	}
	if !strings.Contains(got, "�") {
		t.Errorf("DecodeUpload() = %q, want replacement runes for invalid bytes", got)
	}
}
