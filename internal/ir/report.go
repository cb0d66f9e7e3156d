package ir

import (
	"bytes"
	"encoding/json"
)

// DatasetReportRecord describes one persisted dataset and the pipelines that
// reference it. Namespace is nil for datasets outside any namespace.
type DatasetReportRecord struct {
	DatasetType string   `json:"dataset_type"`
	Namespace   *string  `json:"namespace"`
	Key         string   `json:"key"`
	Pipelines   []string `json:"pipelines"`
}

// HasNamespace reports whether the record carries a namespace.
func (r DatasetReportRecord) HasNamespace() bool {
	return r.Namespace != nil && *r.Namespace != ""
}

// marshalJSON encodes without HTML escaping so dataset names survive as-is.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
