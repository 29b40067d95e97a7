package charutils

// Character classification shared by the lexer and the preprocessor's
// expression tokenizer. Baa source is Unicode throughout; Arabic letters and
// Arabic-Indic digits are first-class everywhere ASCII would be.

// IsArabicLetter reports whether c falls in the basic Arabic block or one of
// the two presentation-forms blocks.
func IsArabicLetter(c rune) bool {
	return (c >= 0x0600 && c <= 0x06FF) ||
		(c >= 0xFB50 && c <= 0xFDFF) ||
		(c >= 0xFE70 && c <= 0xFEFF)
}

// IsArabicDigit reports whether c is an Arabic-Indic digit (U+0660..U+0669).
func IsArabicDigit(c rune) bool {
	return c >= 0x0660 && c <= 0x0669
}

// IsBaaDigit accepts ASCII and Arabic-Indic digits interchangeably.
func IsBaaDigit(c rune) bool {
	return (c >= '0' && c <= '9') || IsArabicDigit(c)
}

func IsBaaBinDigit(c rune) bool {
	return c == '0' || c == '1'
}

func IsBaaHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}

// IsArabicPunct covers the Arabic comma, semicolon, question mark and the
// five-pointed star.
func IsArabicPunct(c rune) bool {
	return c == 0x060C || c == 0x061B || c == 0x061F || c == 0x066D
}

// IsIdentStart reports whether c may begin an identifier: an Arabic letter,
// an ASCII letter, or underscore. Digits may not lead; the Arabic-Indic
// digits and punctuation sit inside the basic Arabic block and must be
// carved out explicitly.
func IsIdentStart(c rune) bool {
	if IsArabicPunct(c) || IsArabicDigit(c) {
		return false
	}
	if c == 0x066B || c == 0x066C { // Arabic decimal/thousands separators
		return false
	}
	return IsArabicLetter(c) ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_'
}

// IsIdentPart reports whether c may continue an identifier.
func IsIdentPart(c rune) bool {
	return IsIdentStart(c) || (c >= '0' && c <= '9') || IsArabicDigit(c)
}

// DigitValue maps an ASCII or Arabic-Indic digit to its numeric value.
// Returns -1 for anything else.
func DigitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case IsArabicDigit(c):
		return int(c - 0x0660)
	}
	return -1
}

// HexValue maps a hexadecimal digit to its value, or -1.
func HexValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
