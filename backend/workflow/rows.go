package workflow

import (
	"encoding/json"
	"fmt"
)

// clone deep-copies a record through its JSON form
func clone[T any](v T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("failed to copy record: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to copy record: %w", err)
	}
	return out, nil
}

// mergeInto applies a JSON merge patch to *d
func mergeInto[D any](d *D, patch json.RawMessage) error {
	current, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	merged, err := mergeRaw(current, patch)
	if err != nil {
		return err
	}
	var next D
	if err := json.Unmarshal(merged, &next); err != nil {
		return fmt.Errorf("patch does not fit the record: %w", err)
	}
	*d = next
	return nil
}

// mergeRaw merges patch onto target: objects merge key by key, null removes
// a key, anything else replaces the target value
func mergeRaw(target, patch json.RawMessage) (json.RawMessage, error) {
	var p any
	if err := json.Unmarshal(patch, &p); err != nil {
		return nil, fmt.Errorf("invalid patch: %w", err)
	}
	var t any
	if len(target) > 0 {
		if err := json.Unmarshal(target, &t); err != nil {
			return nil, fmt.Errorf("invalid record: %w", err)
		}
	}
	return json.Marshal(mergeValue(t, p))
}

func mergeValue(target, patch any) any {
	pm, ok := patch.(map[string]any)
	if !ok {
		return patch
	}
	tm, ok := target.(map[string]any)
	if !ok {
		tm = map[string]any{}
	}
	for k, v := range pm {
		if v == nil {
			delete(tm, k)
			continue
		}
		tm[k] = mergeValue(tm[k], v)
	}
	return tm
}

// editList rewrites the JSON list stored under field of *d
func editList[D any](d *D, field string, fn func([]json.RawMessage) ([]json.RawMessage, error)) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("draft is not an object: %w", err)
	}
	raw, ok := obj[field]
	if !ok {
		return fmt.Errorf("unknown list field %q", field)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("field %q is not a list: %w", field, err)
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	if obj[field], err = json.Marshal(items); err != nil {
		return err
	}
	data, err = json.Marshal(obj)
	if err != nil {
		return err
	}
	var next D
	if err := json.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("row does not fit the record: %w", err)
	}
	*d = next
	return nil
}
