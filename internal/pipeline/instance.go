package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// InstanceID marks a record as an AYON publish instance.
const InstanceID = "ayon.create.instance"

// Instance field names every publish instance carries.
const (
	FieldInstanceID = "instance_id"
	FieldCreator    = "creator_identifier"
)

// Instance is a publish instance. Only instance_id and creator_identifier are
// required; creators attach arbitrary extra fields.
type Instance map[string]any

// ID returns the instance_id field, or "" when absent.
func (i Instance) ID() string {
	id, _ := i[FieldInstanceID].(string)
	return id
}

// CreatorIdentifier returns the creator_identifier field, or "" when absent.
func (i Instance) CreatorIdentifier() string {
	creator, _ := i[FieldCreator].(string)
	return creator
}

// Clone returns a shallow copy.
func (i Instance) Clone() Instance {
	out := make(Instance, len(i))
	for k, v := range i {
		out[k] = v
	}
	return out
}

// AsMap implements metadata.Record.
func (i Instance) AsMap() map[string]any {
	return map[string]any(i)
}

func decodeInstance(raw any) (Instance, error) {
	switch v := raw.(type) {
	case Instance:
		return v, nil
	case map[string]any:
		return Instance(v), nil
	}
	return nil, fmt.Errorf("decode instance: unexpected %T", raw)
}

// asList turns a stored collection into a generic list. Typed slices written
// by an in-process store are normalized through JSON.
func asList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var list []any
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return list, nil
}
