package lexer

// The keyword table. Consulted only after a full identifier has been
// accumulated, so longest-match is automatic.
var keywords = map[string]TokenKind{
	"ثابت":      TokenConst,
	"مضمن":      TokenInline,
	"مقيد":      TokenRestrict,
	"إذا":       TokenIf,
	"وإلا":      TokenElse,
	"طالما":     TokenWhile,
	"لكل":       TokenFor,
	"افعل":      TokenDo,
	"حالة":      TokenCase,
	"اختر":      TokenSwitch,
	"إرجع":      TokenReturn,
	"توقف":      TokenBreak,
	"أكمل":      TokenContinue,
	"عدد_صحيح":  TokenTypeInt,
	"عدد_حقيقي": TokenTypeFloat,
	"حرف":       TokenTypeChar,
	"فراغ":      TokenTypeVoid,
	"منطقي":     TokenTypeBool,
	"صحيح":      TokenBoolLit,
	"خطأ":       TokenBoolLit,
}

// LookupKeyword resolves an identifier against the keyword table. The second
// result is false for plain identifiers.
func LookupKeyword(ident string) (TokenKind, bool) {
	kind, ok := keywords[ident]
	return kind, ok
}

// IsKeyword reports whether the kind is one of the reserved words (including
// the type keywords and boolean literals).
func IsKeyword(kind TokenKind) bool {
	return (kind >= TokenConst && kind <= TokenTypeBool) || kind == TokenBoolLit
}

// IsTypeKeyword reports whether the kind names a primitive type.
func IsTypeKeyword(kind TokenKind) bool {
	return kind >= TokenTypeInt && kind <= TokenTypeBool
}

// IsOperator reports whether the kind is an operator token.
func IsOperator(kind TokenKind) bool {
	return kind >= TokenPlus && kind <= TokenDecrement
}
