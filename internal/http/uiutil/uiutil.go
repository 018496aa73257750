package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const (
	FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"
	FriendlyDateLayout     = "Jan 2, 2006"
	ISODateLayout          = "2006-01-02"
)

// FormatFriendlyDateTime returns a consistent, user-friendly local timestamp representation.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// FormatISODate turns an API date string ("2006-01-02") into a
// friendly display form. Values that do not parse are shown verbatim
// rather than hidden.
func FormatISODate(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(FriendlyDateLayout)
}

// FormatMoney renders an amount with thousands separators and two
// decimals, e.g. 12345.5 becomes "12,345.50".
func FormatMoney(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	prefix := len(intPart) % 3
	if prefix == 0 {
		prefix = 3
	}
	if prefix > len(intPart) {
		prefix = len(intPart)
	}
	b.WriteString(intPart[:prefix])
	for i := prefix; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
