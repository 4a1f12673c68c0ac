package inventory

import (
	"encoding/json"

	"github.com/barchart/dockerup/internal/specdata"
)

// document is one parsed JSON document: its container list plus any
// other top-level keys, treated as scalar setting overrides.
type document struct {
	Containers []specdata.ContainerSpec
	scalars    map[string]any
}

// merge folds other into d: scalars are last-writer-wins, containers
// are concatenated in load order.
func (d *document) merge(other document) {
	d.Containers = append(d.Containers, other.Containers...)
	if len(other.scalars) == 0 {
		return
	}
	if d.scalars == nil {
		d.scalars = make(map[string]any, len(other.scalars))
	}
	for k, v := range other.scalars {
		d.scalars[k] = v
	}
}

// parseDocument decodes one JSON document of the shape
// {"containers": [...], <other scalar settings>...}.
func parseDocument(data []byte) (document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return document{}, err
	}

	var doc document
	if containersRaw, ok := raw["containers"]; ok {
		if err := json.Unmarshal(containersRaw, &doc.Containers); err != nil {
			return document{}, err
		}
		delete(raw, "containers")
	}

	if len(raw) > 0 {
		doc.scalars = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return document{}, err
			}
			doc.scalars[k] = val
		}
	}

	return doc, nil
}
