package schema_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/quietfold/mcpchat/internal/schema"
)

func TestClean_StripsTitleAtEveryLevel(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "ToolInput",
		"type": "object",
		"properties": {
			"path": {"title": "Path", "type": "string", "description": "target path"},
			"opts": {
				"title": "Options",
				"type": "object",
				"properties": {
					"depth": {"title": "Depth", "type": "integer"}
				}
			}
		},
		"required": ["path"]
	}`)

	got, err := schema.Clean(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{"type": "string", "description": "target path"},
			"opts": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"depth": map[string]any{"type": "integer"},
				},
			},
		},
		"required": []any{"path"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
}

func TestStripTitles_DescendsIntoArrays(t *testing.T) {
	raw := json.RawMessage(`{
		"anyOf": [
			{"title": "A", "type": "string"},
			{"type": "object", "properties": {"n": {"title": "N", "type": "number"}}}
		]
	}`)

	cleaned, err := schema.StripTitles(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(cleaned, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "object", "properties": map[string]any{
				"n": map[string]any{"type": "number"},
			}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
}

func TestClean_PropertyNamedTitleSurvives(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "object",
		"title": "Document",
		"properties": {
			"title": {"title": "Title", "type": "string", "description": "document title"}
		},
		"required": ["title"]
	}`)

	got, err := schema.Clean(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "description": "document title"},
		},
		"required": []any{"title"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
}

func TestStripTitles_NestedPropertyNamedTitle(t *testing.T) {
	raw := json.RawMessage(`{
		"properties": {
			"meta": {
				"type": "object",
				"title": "Meta",
				"properties": {
					"title": {"type": "string"},
					"properties": {"title": "NotAPropertiesObject", "type": "object"}
				}
			}
		}
	}`)

	cleaned, err := schema.StripTitles(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(cleaned, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	meta := got["properties"].(map[string]any)["meta"].(map[string]any)
	if _, has := meta["title"]; has {
		t.Fatalf("metadata title not stripped: %#v", meta)
	}
	inner := meta["properties"].(map[string]any)
	if _, ok := inner["title"].(map[string]any); !ok {
		t.Fatalf("nested property named title lost: %#v", inner)
	}
	// A property named "properties" is itself a schema; its own title
	// field is metadata and goes.
	propSchema := inner["properties"].(map[string]any)
	if _, has := propSchema["title"]; has {
		t.Fatalf("title not stripped inside property named properties: %#v", propSchema)
	}
}

func TestClean_EmptySchemaYieldsMinimalObject(t *testing.T) {
	got, err := schema.Clean(nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["type"] != "object" {
		t.Fatalf("got %#v", got)
	}
	if _, ok := got["properties"].(map[string]any); !ok {
		t.Fatalf("missing properties map: %#v", got)
	}
}

func TestClean_InvalidJSONRejected(t *testing.T) {
	if _, err := schema.Clean(json.RawMessage(`{oops`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestStripTitles_KeyWithDotSurvives(t *testing.T) {
	raw := json.RawMessage(`{"properties": {"a.b": {"title": "Dotted", "type": "string"}}}`)

	cleaned, err := schema.StripTitles(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(cleaned, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	props := got["properties"].(map[string]any)
	inner, ok := props["a.b"].(map[string]any)
	if !ok {
		t.Fatalf("dotted property lost: %#v", props)
	}
	if _, has := inner["title"]; has {
		t.Fatalf("title not stripped under dotted key: %#v", inner)
	}
	if inner["type"] != "string" {
		t.Fatalf("sibling field lost: %#v", inner)
	}
}
