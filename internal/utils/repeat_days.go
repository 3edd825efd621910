package utils

import (
	"fmt"
	"strings"
)

// NormalizeRepeatDays converts the decoded JSON value of repeat_days into its
// stored form. A list of tokens is joined with "," in the given order, a
// string is kept as-is and null, "" or an empty list mean absent.
func NormalizeRepeatDays(raw any) (*string, error) {
	var joined string

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		joined = v
	case []string:
		joined = strings.Join(v, ",")
	case []any:
		tokens := make([]string, 0, len(v))
		for _, item := range v {
			token, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("repeat_days entries must be strings, got %T", item)
			}
			tokens = append(tokens, token)
		}
		joined = strings.Join(tokens, ",")
	default:
		return nil, fmt.Errorf("repeat_days must be a list of strings or a string, got %T", raw)
	}

	if joined == "" {
		return nil, nil
	}
	return &joined, nil
}
