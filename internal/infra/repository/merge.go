package repository

import "encoding/json"

// mergeDocument overlays patch fields onto an existing JSON object.
// Untouched fields pass through as raw bytes, so a patch to field X
// leaves every other field byte-identical. Patches never replace the
// whole document.
func mergeDocument(existing []byte, patch map[string]any) ([]byte, error) {
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(existing, &doc); err != nil {
		return nil, err
	}

	for k, v := range patch {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		doc[k] = raw
	}

	return json.Marshal(doc)
}
