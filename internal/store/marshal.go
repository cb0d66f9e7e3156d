package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalNames converts a port name list to JSON TEXT.
// HTML escaping is disabled so names like "a<b" are stored verbatim.
func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(names); err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalNames parses JSON TEXT back to a port name list.
// The result is never nil.
func unmarshalNames(data string) ([]string, error) {
	names := []string{}
	if data == "" {
		return names, nil
	}
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
