package diff

import "strings"

// emptyOrNullSentinel is the shared comparison form of empty-or-null values
// when IgnoreEmptyVsNull is set. The NUL framing keeps it out of the value
// space of real cell data.
const emptyOrNullSentinel = "\x00empty-or-null\x00"

// Normalize maps a raw value to its comparison form: trimmed when
// IgnoreWhitespace, lower-cased when not CaseSensitive, and folded to a
// shared sentinel when IgnoreEmptyVsNull and the value is empty or the
// literal "null". The function is pure; results always carry the raw value,
// never the normalized one.
func Normalize(value string, opts Options) string {
	v := value
	if opts.IgnoreWhitespace {
		v = strings.TrimSpace(v)
	}
	if !opts.CaseSensitive {
		v = strings.ToLower(v)
	}
	if opts.IgnoreEmptyVsNull && isEmptyOrNull(v) {
		return emptyOrNullSentinel
	}
	return v
}

// isEmptyOrNull reports whether a value is blank or the literal "null",
// ignoring surrounding whitespace and letter case. Used only under
// IgnoreEmptyVsNull, so "NULL" and "  null  " fold together regardless of
// the other options.
func isEmptyOrNull(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, "null")
}
