package analysis

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseLeadingFloat parses the longest numeric prefix of s as a float64.
//
// The parse is deliberately permissive:
//   - leading whitespace is skipped;
//   - an optional sign may be followed by "Infinity";
//   - otherwise the prefix is digits [ "." digits ] [ ("e"|"E") [sign] digits ],
//     with at least one digit before or after the point;
//   - an exponent marker without digits is not part of the prefix;
//   - whatever follows the prefix is ignored, so "12abc" is 12 and "0x1F" is 0.
//
// ok is false when s has no numeric prefix ("abc", ".", "e5", "", "NaN").
// Values beyond the float64 range parse to ±Inf and still report ok.
func ParseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, isTrimSpace)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	intDigits := scanDigits(s, i)
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = scanDigits(s, i+1)
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if n := scanDigits(s, j); n > 0 {
			i = j + n
		}
	}
	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func scanDigits(s string, from int) int {
	n := 0
	for from+n < len(s) && s[from+n] >= '0' && s[from+n] <= '9' {
		n++
	}
	return n
}

// isTrimSpace matches Unicode whitespace plus the byte order mark, which
// spreadsheet exports commonly leave at the start of a cell.
func isTrimSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
