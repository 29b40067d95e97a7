package lexer

import (
	"baa/internal/charutils"
	"baa/internal/diagnostics"
)

// scanDigitRun consumes a run of digits with underscore group separators.
// The cursor must already sit on a valid digit. Underscores are only valid
// between two digits; a doubled or trailing underscore produces an error
// token.
func (l *Lexer) scanDigitRun(valid func(rune) bool) *Token {
	for {
		c := l.peek()
		if valid(c) {
			l.advance()
			continue
		}
		if c == '_' {
			if !valid(l.peekNext()) {
				tok := l.errorToken(TokenErrorInvalidNumber, 1005, diagnostics.CategoryNumber,
					"استخدم الشرطة السفلية لفصل الأرقام فقط، وليس في البداية أو متتالية",
					"شرطة سفلية غير صالحة في العدد (السطر %d، العمود %d)", l.startLine, l.startCol)
				l.synchronize()
				return tok
			}
			l.advance()
			continue
		}
		return nil
	}
}

// scanNumber scans integer and floating literals: decimal with Arabic-Indic
// digits, 0x/0b prefixes, underscores between digits, the Arabic decimal
// separator, the أ exponent marker, and the غ/ط/ح suffix family. The lexeme
// stays raw; suffix metadata lands in Token.Number.
func (l *Lexer) scanNumber() *Token {
	isFloat := false
	isScientific := false

	c := l.peek()
	switch {
	case c == '.' || c == arabicDecimalSeparator:
		// .5 style literal; the dispatcher guarantees a digit follows.
		isFloat = true
		l.advance()
		if tok := l.scanDigitRun(charutils.IsBaaDigit); tok != nil {
			return tok
		}

	case c == '0' && (l.peekNext() == 'x' || l.peekNext() == 'X'):
		l.advance()
		l.advance()
		if !charutils.IsBaaHexDigit(l.peek()) && l.peek() != '.' && l.peek() != arabicDecimalSeparator {
			tok := l.errorToken(TokenErrorInvalidNumber, 1005, diagnostics.CategoryNumber,
				"أضف رقم سداسي عشري صالح بعد 0x",
				"عدد سداسي عشر غير صالح: يجب أن يتبع البادئة 0x/0X رقم سداسي عشري أو فاصلة عشرية (السطر %d، العمود %d)",
				l.startLine, l.startCol)
			l.synchronize()
			return tok
		}
		if charutils.IsBaaHexDigit(l.peek()) {
			if tok := l.scanDigitRun(charutils.IsBaaHexDigit); tok != nil {
				return tok
			}
		}
		if l.peek() == '.' || l.peek() == arabicDecimalSeparator {
			if charutils.IsBaaHexDigit(l.peekNext()) {
				isFloat = true
				l.advance()
				if tok := l.scanDigitRun(charutils.IsBaaHexDigit); tok != nil {
					return tok
				}
			}
		}

	case c == '0' && (l.peekNext() == 'b' || l.peekNext() == 'B'):
		l.advance()
		l.advance()
		if !charutils.IsBaaBinDigit(l.peek()) {
			tok := l.errorToken(TokenErrorInvalidNumber, 1005, diagnostics.CategoryNumber,
				"أضف رقم ثنائي صالح (0 أو 1) بعد 0b",
				"عدد ثنائي غير صالح: يجب أن يتبع البادئة 0b/0B رقم ثنائي واحد على الأقل (السطر %d، العمود %d)",
				l.startLine, l.startCol)
			l.synchronize()
			return tok
		}
		if tok := l.scanDigitRun(charutils.IsBaaBinDigit); tok != nil {
			return tok
		}

	default:
		// Decimal; a leading zero keeps its octal-looking lexeme untouched.
		if tok := l.scanDigitRun(charutils.IsBaaDigit); tok != nil {
			return tok
		}
		if (l.peek() == '.' || l.peek() == arabicDecimalSeparator) && charutils.IsBaaDigit(l.peekNext()) {
			isFloat = true
			l.advance()
			if tok := l.scanDigitRun(charutils.IsBaaDigit); tok != nil {
				return tok
			}
		}
		if l.peek() == arabicExponentMarker {
			next := l.peekNext()
			joins := charutils.IsBaaDigit(next) ||
				((next == '+' || next == '-') && charutils.IsBaaDigit(l.peekAt(2)))
			if joins {
				isScientific = true
				isFloat = true
				l.advance() // أ
				if l.peek() == '+' || l.peek() == '-' {
					l.advance()
				}
				if tok := l.scanDigitRun(charutils.IsBaaDigit); tok != nil {
					return tok
				}
			}
		}
	}

	unsigned := false
	longs := 0
	floatSuffix := false

suffixes:
	for {
		switch l.peek() {
		case 'غ':
			if floatSuffix {
				return l.suffixError("لاحقة 'ح' يجب أن تكون الأخيرة في الأعداد العشرية",
					"لاحقة رقم غير صالحة: لا يمكن إضافة لاحقات بعد 'ح' (السطر %d، العمود %d)")
			}
			if isFloat {
				return l.suffixError("استخدم لاحقة 'ح' للأعداد العشرية",
					"لاحقة رقم غير صالحة: لاحقات الأعداد الصحيحة غير مدعومة للأعداد العشرية (السطر %d، العمود %d)")
			}
			if unsigned {
				return l.suffixError("استخدم لاحقة غ واحدة فقط للأعداد غير المُوقعة",
					"لاحقة رقم غير صالحة: لا يمكن استخدام 'غ' أكثر من مرة (السطر %d، العمود %d)")
			}
			unsigned = true
			l.advance()
		case 'ط':
			if floatSuffix {
				return l.suffixError("لاحقة 'ح' يجب أن تكون الأخيرة في الأعداد العشرية",
					"لاحقة رقم غير صالحة: لا يمكن إضافة لاحقات بعد 'ح' (السطر %d، العمود %d)")
			}
			if isFloat {
				return l.suffixError("استخدم لاحقة 'ح' للأعداد العشرية",
					"لاحقة رقم غير صالحة: لاحقات الأعداد الصحيحة غير مدعومة للأعداد العشرية (السطر %d، العمود %d)")
			}
			if longs >= 2 {
				return l.suffixError("استخدم لاحقات صالحة: ط (long) أو طط (long long)",
					"لاحقة رقم غير صالحة: لا يمكن استخدام أكثر من 'طط' (السطر %d، العمود %d)")
			}
			longs++
			l.advance()
		case 'ح':
			if floatSuffix {
				return l.suffixError("لاحقة 'ح' يجب أن تكون الأخيرة في الأعداد العشرية",
					"لاحقة رقم غير صالحة: لا يمكن إضافة لاحقات بعد 'ح' (السطر %d، العمود %d)")
			}
			if !isFloat {
				return l.suffixError("لاحقة 'ح' مخصصة للأعداد العشرية فقط",
					"لاحقة رقم غير صالحة: لا يمكن استخدام 'ح' مع الأعداد الصحيحة (السطر %d، العمود %d)")
			}
			if unsigned || longs > 0 {
				return l.suffixError("لاحقة 'ح' يجب أن تكون الأخيرة في الأعداد العشرية",
					"لاحقة رقم غير صالحة: تركيبة لاحقات غير مدعومة (السطر %d، العمود %d)")
			}
			floatSuffix = true
			l.advance()
		default:
			break suffixes
		}
	}

	if charutils.IsIdentPart(l.peek()) {
		tok := l.errorToken(TokenErrorInvalidNumber, 1005, diagnostics.CategoryNumber,
			"افصل العدد عن المعرف بمسافة",
			"محرف غير صالح في العدد (السطر %d، العمود %d)", l.startLine, l.startCol)
		l.synchronize()
		return tok
	}

	numType := NumberInteger
	if isScientific {
		numType = NumberScientific
	} else if isFloat {
		numType = NumberDecimal
	}

	kind := TokenIntLit
	if isFloat || floatSuffix {
		kind = TokenFloatLit
	}

	tok := l.makeToken(kind)
	tok.Number = &NumberInfo{
		Type:     numType,
		Unsigned: unsigned,
		Longs:    longs,
		IsFloat:  floatSuffix,
	}
	return tok
}

func (l *Lexer) suffixError(suggestion, format string) *Token {
	tok := l.errorToken(TokenErrorInvalidSuffix, 1006, diagnostics.CategoryNumber,
		suggestion, format, l.startLine, l.startCol)
	l.synchronize()
	return tok
}
