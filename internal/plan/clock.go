package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// ToClock24 converts "9:00AM" style times to "09:00".
// Hours must be 1-12, minutes two digits 00-59, and the meridiem exactly AM or PM.
func ToClock24(s string) (string, error) {
	var pm bool
	switch {
	case strings.HasSuffix(s, "AM"):
	case strings.HasSuffix(s, "PM"):
		pm = true
	default:
		return "", &ClockError{Value: s, Reason: "missing AM/PM"}
	}

	hh, mm, ok := strings.Cut(s[:len(s)-2], ":")
	if !ok {
		return "", &ClockError{Value: s, Reason: "missing colon"}
	}
	if len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return "", &ClockError{Value: s, Reason: "bad digit count"}
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || !allDigits(hh) {
		return "", &ClockError{Value: s, Reason: "bad hour"}
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || !allDigits(mm) {
		return "", &ClockError{Value: s, Reason: "bad minute"}
	}
	if hour < 1 || hour > 12 {
		return "", &ClockError{Value: s, Reason: "hour out of range"}
	}
	if minute > 59 {
		return "", &ClockError{Value: s, Reason: "minute out of range"}
	}

	hour %= 12
	if pm {
		hour += 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
