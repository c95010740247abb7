package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"vkseva-content/internal/domain"
)

// document is a section held as its top-level JSON keys.
type document map[string]json.RawMessage

func documentOf(v any) (document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is null", domain.ErrInvalidSettings)
	}
	return doc, nil
}

func (d document) clone() document {
	out := make(document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// overlay returns base with every top-level key of patch replacing its
// counterpart. Nested objects are replaced, not merged.
func overlay(base, patch document) document {
	out := base.clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// mergeDefaults lays a persisted document over the compiled defaults so that
// fields added to the defaults after the document was written still appear.
// Keys listed in sec.DeepMerge merge nested objects recursively.
func mergeDefaults(sec domain.SectionSpec, defaults, persisted document) document {
	out := defaults.clone()
	for k, v := range persisted {
		if def, ok := out[k]; ok && contains(sec.DeepMerge, k) {
			out[k] = deepMerge(def, v)
			continue
		}
		out[k] = v
	}
	return out
}

// repair replaces every top-level key of doc whose value does not decode into
// the section's typed shape with its default, dropping keys that have none.
// It returns the names of the replaced keys.
func repair(sec domain.SectionSpec, defaults, doc document) (document, []string) {
	if validate(sec.Key, doc) == nil {
		return doc, nil
	}
	out := doc.clone()
	var replaced []string
	for k, v := range doc {
		if validate(sec.Key, document{k: v}) == nil {
			continue
		}
		replaced = append(replaced, k)
		if def, ok := defaults[k]; ok {
			out[k] = def
		} else {
			delete(out, k)
		}
	}
	sort.Strings(replaced)
	return out, replaced
}

// deepMerge merges two JSON values when both are objects; otherwise the
// override wins. Arrays always replace.
func deepMerge(base, override json.RawMessage) json.RawMessage {
	if !isObject(base) || !isObject(override) {
		return override
	}
	var b, o map[string]json.RawMessage
	if json.Unmarshal(base, &b) != nil || json.Unmarshal(override, &o) != nil {
		return override
	}
	for k, v := range o {
		if prev, ok := b[k]; ok {
			b[k] = deepMerge(prev, v)
		} else {
			b[k] = v
		}
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return override
	}
	return raw
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func contains(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}
