package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Top-level document keys.
const (
	KeyContext          = "context"
	KeyContainers       = "containers"
	KeyPublishInstances = "publish_instances"
)

// Document is the structured state embedded in a project.
type Document map[string]any

// Store reads and merge-writes the project document.
type Store interface {
	ReadDocument() (Document, error)
	// WriteDocument shallow-merges partial over the current document: keys in
	// partial replace same-named keys, all other keys are preserved.
	WriteDocument(partial Document) error
}

// Record is implemented by domain types that must be stored as plain
// mappings.
type Record interface {
	AsMap() map[string]any
}

// Merge returns a copy of base with every key of partial applied on top.
func Merge(base, partial Document) Document {
	merged := make(Document, len(base)+len(partial))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}

// Encode renders doc as 4-space indented JSON after flattening records.
func Encode(doc Document) (string, error) {
	if doc == nil {
		doc = Document{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(flatten(map[string]any(doc))); err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return guardEscaper.Replace(string(bytes.TrimRight(buf.Bytes(), "\n"))), nil
}

// guardEscaper keeps guard tokens inside JSON strings from terminating the
// payload early. The colons are rewritten as \u003a escapes, which decode
// back to the same text.
var guardEscaper = strings.NewReplacer(
	GuardSuffix, `\u003a\u003a`+GuardSuffix[2:],
	GuardPrefix, GuardPrefix[:len(GuardPrefix)-2]+`\u003a\u003a`,
)

// Decode parses a JSON payload into a Document. Numbers are kept as
// json.Number so nanosecond timestamps survive untouched.
func Decode(payload string) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after document")
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// flatten walks v replacing Record values with their mappings.
func flatten(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Record:
		return flatten(t.AsMap())
	case Document:
		return flatten(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = flatten(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = flatten(item)
		}
		return out
	case string, bool, json.Number, float64, int, int64:
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = flatten(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = flatten(iter.Value().Interface())
		}
		return out
	}
	return v
}

// EncodeValue renders a single document value as compact JSON.
func EncodeValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(flatten(v)); err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// DecodeValue parses a value produced by EncodeValue.
func DecodeValue(data string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode value: trailing data")
	}
	return v, nil
}
