package instantmarqo

// CombinationField is the tensor field that holds the weighted combination
// of text and image fields for multimodal documents.
const CombinationField = "multimodal_combo_field"

// Default group weights for multimodal combinations.
const (
	DefaultTextWeight  = 0.5
	DefaultImageWeight = 0.5
)

// Mapping configures how Marqo combines several fields into one tensor field.
type Mapping struct {
	Type    string             `json:"type"`
	Weights map[string]float64 `json:"weights"`
}

// Mappings maps a combination field name to its mapping.
type Mappings map[string]Mapping

// MakeMappings derives Marqo mappings and tensor fields for the given text
// and image fields.
//
// When only one kind of field is given, no mappings are needed and the
// fields themselves are the tensor fields. When both are given, a single
// multimodal_combination mapping is returned under CombinationField, with
// textWeight split evenly across the text fields and imageWeight split
// evenly across the image fields.
func MakeMappings(textFields, imageFields []string, textWeight, imageWeight float64) (Mappings, []string, error) {
	if len(textFields) == 0 && len(imageFields) == 0 {
		return nil, nil, Errorf(EINVALID, "at least one text or image field to index required")
	}

	seen := make(map[string]bool, len(textFields)+len(imageFields))
	for _, f := range append(append([]string{}, textFields...), imageFields...) {
		if f == "" {
			return nil, nil, Errorf(EINVALID, "field name required")
		}
		if seen[f] {
			return nil, nil, Errorf(EINVALID, "field %q listed more than once", f)
		}
		seen[f] = true
	}

	if len(imageFields) == 0 {
		return nil, append([]string{}, textFields...), nil
	}
	if len(textFields) == 0 {
		return nil, append([]string{}, imageFields...), nil
	}

	if textWeight < 0 || imageWeight < 0 {
		return nil, nil, Errorf(EINVALID, "field weights must not be negative")
	}

	weights := make(map[string]float64, len(textFields)+len(imageFields))
	for _, f := range textFields {
		weights[f] = textWeight / float64(len(textFields))
	}
	for _, f := range imageFields {
		weights[f] = imageWeight / float64(len(imageFields))
	}

	mappings := Mappings{
		CombinationField: {
			Type:    "multimodal_combination",
			Weights: weights,
		},
	}
	return mappings, []string{CombinationField}, nil
}
