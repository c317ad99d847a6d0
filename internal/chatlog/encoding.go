package chatlog

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeUpload converts the raw bytes of an uploaded export file to text.
// Candidates are tried in order: UTF-8 with BOM, plain UTF-8, then CP949
// (the legacy Korean encoding older exports were written in). If none
// decodes cleanly, text-like input falls back to lossy UTF-8 as a last
// resort; input with NUL bytes is rejected as not a text file.
func DecodeUpload(data []byte) (string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		rest := data[len(utf8BOM):]
		if utf8.Valid(rest) {
			return string(rest), nil
		}
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	if text, ok := decodeCP949(data); ok {
		return text, nil
	}

	if bytes.IndexByte(data, 0x00) >= 0 {
		return "", fmt.Errorf("no candidate encoding decodes the upload")
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// decodeCP949 decodes data as CP949/EUC-KR. The x/text decoder substitutes
// U+FFFD for unmappable bytes instead of failing, so a replacement rune in
// the output means the input was not really CP949.
func decodeCP949(data []byte) (string, bool) {
	decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", false
	}
	return string(decoded), true
}
