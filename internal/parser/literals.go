package parser

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeEscapes returns the cooked value of string or template literal
// content, resolving backslash escapes the way JavaScript does.
// Malformed escapes keep the escaped character.
func DecodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\r':
			// line continuation, \r\n counts as one terminator
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 2
					continue
				}
			}
			b.WriteByte('x')
		case 'u':
			r, consumed := decodeUnicodeEscape(s[i+1:])
			if consumed == 0 {
				b.WriteByte('u')
				continue
			}
			b.WriteRune(r)
			i += consumed
		default:
			// \' \" \\ \` \$ and any other character stand for themselves
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size - 1
		}
	}

	return b.String()
}

// decodeUnicodeEscape decodes the part after "\u": either four hex digits
// or a braced code point. It returns the rune and the bytes consumed.
func decodeUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}

	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}

// isBigIntLiteral reports whether a numeric literal carries the BigInt suffix
func isBigIntLiteral(raw string) bool {
	return strings.HasSuffix(raw, "n")
}

// NormalizeNumber returns the text JavaScript prints for a numeric
// literal's value: 1e1 is "10", 1.50 is "1.5", 0x10 is "16".
// BigInt literals keep their source text without separators.
func NormalizeNumber(raw string) string {
	if v, ok := NumberValue(raw); ok {
		return formatJSNumber(v)
	}
	return strings.ReplaceAll(raw, "_", "")
}

// NumberValue returns the value of a numeric literal. Separators are
// dropped; 0x, 0o, 0b and legacy 0-prefixed octal integers are read in
// their base.
func NumberValue(raw string) (float64, bool) {
	if isBigIntLiteral(raw) {
		return 0, false
	}
	s := strings.ReplaceAll(raw, "_", "")

	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return bigIntValue(s, 0)
		}
		if isOctalDigits(s[1:]) {
			return bigIntValue(s[1:], 8)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// out of range yields ±Inf, as in JavaScript
		if errors.Is(err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

func bigIntValue(s string, base int) (float64, bool) {
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return 0, false
	}
	v, _ := new(big.Float).SetInt(n).Float64()
	return v, true
}

func isOctalDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return s != ""
}

// formatJSNumber formats v the way JavaScript's Number#toString does:
// shortest round-trip digits, exponent notation below 1e-6 and from 1e21
func formatJSNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	case v < 0:
		return "-" + formatJSNumber(-v)
	}

	// d.ddde±x
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, expText, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expText)

	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	e := strconv.Itoa(abs(n - 1))
	if k == 1 {
		return digits + "e" + sign + e
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + e
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
