package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

var timeRe = regexp.MustCompile(`\b(\d{2}):(\d{2})\b`)

// ParseDate parses YYYY-MM-DD. Season bounds and trip dates share this layout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(layoutDate, strings.TrimSpace(s))
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// NormalizeTime extracts HH:MM from inputs like "09:00" or "09:00 BRT".
func NormalizeTime(s string) (string, error) {
	m := timeRe.FindString(s)
	if m == "" {
		return "", errors.New("formato de hora inválido (exemplo: 09:00)")
	}
	if _, err := time.Parse("15:04", m); err != nil {
		return "", errors.New("formato de hora inválido")
	}
	return m, nil
}
