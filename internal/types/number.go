package types

import (
	"fmt"
	"math"
	"strconv"
)

// scanNumber finds the longest prefix of s that reads as a decimal
// floating point number, after optional leading white space. It returns
// the bounds of the number; ok is false when no digits were found.
func scanNumber(s string) (start, end int, ok bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start = i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	gotDigit := false
	for i < len(s) && isDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return start, start, false
	}
	end = i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			i++
			end = i
		}
	}
	return start, end, true
}

// Atof converts the numeric prefix of s, ignoring anything after it.
// A string with no numeric prefix converts to 0.
func Atof(s string) float64 {
	start, end, ok := scanNumber(s)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseFloat(s[start:end], 64)
	return n
}

// IsNumber reports whether all of s reads as a number, allowing leading
// white space and trailing blanks, tabs and newlines. Values that overflow
// a float64 are not numbers.
func IsNumber(s string) bool {
	start, end, ok := scanNumber(s)
	if !ok {
		return false
	}
	n, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil || math.IsInf(n, 0) {
		return false
	}
	for end < len(s) && (s[end] == ' ' || s[end] == '\t' || s[end] == '\n') {
		end++
	}
	return end == len(s)
}

// FormatNum formats n the way AWK converts numbers to strings: integral
// values print in full, everything else goes through format.
func FormatNum(n float64, format string) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case n == 0 && math.Signbit(n):
		return "-0"
	case n == math.Trunc(n):
		if math.Abs(n) < 1e16 {
			return strconv.FormatInt(int64(n), 10)
		}
		return fmt.Sprintf("%.30g", n)
	case format == "%.6g":
		return strconv.FormatFloat(n, 'g', 6, 64)
	default:
		return fmt.Sprintf(format, n)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
