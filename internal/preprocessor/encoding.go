package preprocessor

import (
	"os"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/juju/errors"
)

// Source files may carry a UTF-8 BOM (EF BB BF) or a UTF-16LE BOM (FF FE).
// No BOM means UTF-8. Everything else is rejected.

func decodeSourceBytes(data []byte) (string, error) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		rest := data[3:]
		if !utf8.Valid(rest) {
			return "", errors.New("محتوى UTF-8 غير صالح بعد علامة ترتيب البايتات")
		}
		return string(rest), nil
	}

	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		rest := data[2:]
		if len(rest)%2 != 0 {
			return "", errors.New("ملف UTF-16LE بطول بايتات فردي")
		}
		units := make([]uint16, len(rest)/2)
		for i := range units {
			units[i] = uint16(rest[2*i]) | uint16(rest[2*i+1])<<8
		}
		return string(utf16.Decode(units)), nil
	}

	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return "", errors.New("ترميز UTF-16BE غير مدعوم")
	}

	if !utf8.Valid(data) {
		return "", errors.New("محتوى الملف ليس UTF-8 صالحًا")
	}
	return string(data), nil
}

// readSourceFile reads and decodes a source file.
func readSourceFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Annotatef(err, "فشل في قراءة %q", path)
	}
	text, err := decodeSourceBytes(data)
	if err != nil {
		return "", errors.Annotatef(err, "فشل في فك ترميز %q", path)
	}
	return text, nil
}
