package store

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Patch maps persisted field names (e.g. "completed", "dueDate") to new
// values. Fields not named keep their current value.
type Patch map[string]any

// fieldNameRe keeps patch keys out of gjson/sjson path syntax.
var fieldNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// applyPatch merges p onto rec field by field. The "id" key is ignored so a
// record's identity never changes.
func applyPatch[T any](rec T, p Patch) (T, error) {
	var zero T
	raw, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("store: marshal record: %w", err)
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "id" {
			continue
		}
		if !fieldNameRe.MatchString(k) || !gjson.GetBytes(raw, k).Exists() {
			return zero, fmt.Errorf("%w: unknown field %q", ErrInvalidPatch, k)
		}
		raw, err = sjson.SetBytes(raw, k, p[k])
		if err != nil {
			return zero, fmt.Errorf("%w: set %q: %v", ErrInvalidPatch, k, err)
		}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return out, nil
}
