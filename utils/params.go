package utils

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// PositiveInt parses raw, falling back to def for anything below 1.
func PositiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// StringList accepts either a JSON array of strings or a single string,
// which is split on commas.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = clean(arr)
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = SplitList(one)
	return nil
}

// SplitList splits a comma-separated value, dropping blanks.
func SplitList(raw string) []string {
	return clean(strings.Split(raw, ","))
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FlexInt decodes a JSON number or a numeric string, the form a
// form-encoded body delivers numbers in. Absent, null and blank yield nil.
func FlexInt(data []byte) (*int, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return &n, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
