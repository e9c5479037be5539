package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyTime       = errors.New("empty time")
	ErrInvalidTime     = errors.New("invalid time, expected HH:MM")
	ErrInvalidLanguage = errors.New("unsupported language")
)

// ParseSendTime parses "HH:MM" into minutes since midnight (0..1439).
func ParseSendTime(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyTime
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidTime, s)
	}
	return h*60 + m, nil
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ValidateTZ checks that tz names a valid IANA location and returns its
// canonical form.
func ValidateTZ(tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

// ValidateLanguage normalizes a language selection to "en" or "de".
func ValidateLanguage(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LangEnglish, "english":
		return LangEnglish, nil
	case LangGerman, "german", "deutsch":
		return LangGerman, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}
}
