package domain

import (
	"sort"
	"strings"

	"gorm.io/datatypes"
)

// NormalizeSelections checks the selections payload shape: an object whose
// keys are non-empty labels and whose values are a label or a list of labels.
// A nil payload normalizes to an empty object.
func NormalizeSelections(raw map[string]any) (datatypes.JSONMap, error) {
	out := datatypes.JSONMap{}
	for key, value := range raw {
		label := strings.TrimSpace(key)
		if label == "" {
			return nil, ErrInvalidSelections
		}
		if _, dup := out[label]; dup {
			return nil, ErrInvalidSelections
		}
		switch v := value.(type) {
		case string:
			out[label] = v
		case []string:
			out[label] = append([]string(nil), v...)
		case []any:
			choices, ok := choiceList(v)
			if !ok {
				return nil, ErrInvalidSelections
			}
			out[label] = choices
		default:
			return nil, ErrInvalidSelections
		}
	}
	return out, nil
}

func choiceList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []any:
		choices := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			choices = append(choices, s)
		}
		return choices, true
	default:
		return nil, false
	}
}

func sortEntries(entries []SelectionEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Category) < strings.ToLower(entries[j].Category)
	})
}
