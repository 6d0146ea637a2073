// Package schema prepares fetched tool input schemas for inference backends.
// Some backends reject a "title" field, so it is stripped at every nesting
// level while all other structure (including nested properties) is preserved.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Clean returns raw as a generic map with every "title" metadata field
// removed. Properties named "title" are arguments, not metadata, and stay.
// A missing or empty schema yields a minimal object schema.
func Clean(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{"type": "object", "properties": map[string]any{}}, nil
	}
	cleaned, err := StripTitles(raw)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(cleaned, &m); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return m, nil
}

// StripTitles removes "title" metadata keys at all nesting levels of a JSON
// document, descending through objects and arrays. Keys directly under a
// "properties" object are property names, not metadata, so a tool argument
// named "title" is descended into rather than deleted.
func StripTitles(raw json.RawMessage) (json.RawMessage, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("schema: invalid JSON")
	}

	var paths []string
	var walk func(prefix string, v gjson.Result, inProperties bool)
	walk = func(prefix string, v gjson.Result, inProperties bool) {
		if v.IsObject() {
			v.ForEach(func(k, val gjson.Result) bool {
				p := joinPath(prefix, escapePath(k.String()))
				if !inProperties && k.String() == "title" {
					paths = append(paths, p)
					return true // do not descend into the removed value
				}
				walk(p, val, !inProperties && k.String() == "properties" && val.IsObject())
				return true
			})
		} else if v.IsArray() {
			for i, el := range v.Array() {
				walk(joinPath(prefix, fmt.Sprintf("%d", i)), el, false)
			}
		}
	}
	walk("", gjson.ParseBytes(raw), false)

	out := raw
	for _, p := range paths {
		var err error
		out, err = sjson.DeleteBytes(out, p)
		if err != nil {
			return nil, fmt.Errorf("schema: delete %s: %w", p, err)
		}
	}
	return out, nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// escapePath quotes gjson path metacharacters in a literal object key.
func escapePath(key string) string {
	r := strings.NewReplacer("\\", "\\\\", ".", "\\.", "*", "\\*", "?", "\\?")
	return r.Replace(key)
}
