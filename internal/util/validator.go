package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire format of event dates.
const DateLayout = "2006-01-02"

// FlexInt decodes an integer sent either as a JSON number or as a string,
// e.g. 12, "12" or " 12 ". Fractions, exponents and other types are rejected.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("must be an integer, got null")
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("must be an integer: %w", err)
		}
		raw = strings.TrimSpace(s)
	}

	v, err := ParseInt(raw)
	if err != nil {
		return err
	}
	*n = FlexInt(v)
	return nil
}

// Int64 returns the value, or 0 for a nil pointer.
func (n *FlexInt) Int64() int64 {
	if n == nil {
		return 0
	}
	return int64(*n)
}

// ParseInt parses a base-10 signed integer.
func ParseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("must be an integer, got %q", s)
	}
	return v, nil
}

// ParseID parses a positive row id, e.g. from a path parameter.
func ParseID(s string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(v), nil
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateName rejects blank names and names over max characters.
func ValidateName(name string, max int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("is empty")
	}
	if utf8.RuneCountInString(name) > max {
		return fmt.Errorf("too long, max %d characters", max)
	}
	return nil
}
