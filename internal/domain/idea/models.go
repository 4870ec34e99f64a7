package idea

import (
	"encoding/json"
	"strings"
	"time"
)

type Idea struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	UserID      string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TagList accepts either a JSON array of strings or a single
// comma-separated string. Strings are split, trimmed, and stripped of
// empty segments; arrays pass through untouched, duplicates and all.
// Any other shape collapses to no tags.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		var out []string
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				out = append(out, tag)
			}
		}
		*t = out
	case []any:
		return json.Unmarshal(data, (*[]string)(t))
	default:
		*t = nil
	}
	return nil
}
