package instantmarqo

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Reserved document fields written alongside the extracted data.
const (
	FieldID        = "_id"
	FieldURLMD5    = "url_md5"
	FieldSourceURL = "_source_webpage_url"
)

// ResponseStructure describes the data InstantAPI should extract from a page.
// Keys are field names; values are descriptions of the field (usually strings
// such as "<the name of the product (string)>") or nested structures.
type ResponseStructure map[string]any

// ParseResponseStructure parses a YAML or JSON document into a ResponseStructure.
func ParseResponseStructure(data []byte) (ResponseStructure, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, Errorf(EINVALID, "invalid response structure: %v", err)
	}
	m, ok := asMap(raw)
	if !ok {
		return nil, Errorf(EINVALID, "response structure must be an object")
	}
	return ResponseStructure(m), nil
}

// JSON returns the structure encoded as a JSON string, the form the
// retrieve endpoint expects.
func (s ResponseStructure) JSON() (string, error) {
	b, err := json.Marshal(map[string]any(s))
	if err != nil {
		return "", fmt.Errorf("encode response structure: %w", err)
	}
	return string(b), nil
}

// Fields returns the top-level field names in sorted order.
func (s ResponseStructure) Fields() []string {
	fields := make([]string, 0, len(s))
	for k := range s {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// ValidateForMarqo returns an error if the structure cannot be stored as a
// Marqo document. Marqo documents are flat, so nested structures are
// rejected, as are fields that collide with the reserved document fields.
func (s ResponseStructure) ValidateForMarqo() error {
	if len(s) == 0 {
		return Errorf(EINVALID, "response structure required")
	}
	for _, k := range s.Fields() {
		switch k {
		case FieldID, FieldURLMD5, FieldSourceURL:
			return Errorf(EINVALID, "response structure field %q is reserved", k)
		}
		if _, nested := asMap(s[k]); nested {
			return Errorf(EINVALID, "response structure field %q is nested; Marqo documents must be flat", k)
		}
	}
	return nil
}

// CheckAgainstSchema reports whether response has exactly the keys described
// by schema, recursing into nested schema objects. Leaf values are not
// type-checked: a leaf in the schema may be any JSON value in the response.
func CheckAgainstSchema(schema, response map[string]any) bool {
	if len(schema) != len(response) {
		return false
	}
	for k, sv := range schema {
		rv, ok := response[k]
		if !ok {
			return false
		}
		nested, ok := asMap(sv)
		if !ok {
			continue
		}
		rm, ok := asMap(rv)
		if !ok {
			return false
		}
		if !CheckAgainstSchema(nested, rm) {
			return false
		}
	}
	return true
}

// asMap normalises the map shapes produced by encoding/json and yaml.v3.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case ResponseStructure:
		return normaliseMap(m), true
	case map[string]any:
		return normaliseMap(m), true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = normalise(v)
		}
		return out, true
	default:
		return nil, false
	}
}

func normaliseMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalise(v)
	}
	return out
}

func normalise(v any) any {
	if m, ok := asMap(v); ok {
		return m
	}
	return v
}
