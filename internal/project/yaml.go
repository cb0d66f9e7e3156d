package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/catbind/internal/ir"
)

// datasetYAML is one catalog.yml entry. Storage options are accepted and
// ignored.
type datasetYAML struct {
	Type      string         `yaml:"type"`
	Ephemeral bool           `yaml:"ephemeral"`
	Options   map[string]any `yaml:",inline"`
}

// pipelinesYAML is the structure of pipelines.yml.
type pipelinesYAML struct {
	Pipelines map[string]pipelineYAML `yaml:"pipelines"`
}

type pipelineYAML struct {
	Nodes []nodeYAML `yaml:"nodes"`
}

type nodeYAML struct {
	Name      string     `yaml:"name"`
	Inputs    stringList `yaml:"inputs"`
	Outputs   stringList `yaml:"outputs"`
	Namespace string     `yaml:"namespace"`
}

// stringList accepts either a single name or a list of names.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = stringList{value.Value}
		return nil
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*l = names
	return nil
}

// readYAMLDocument parses path into a document node.
// An empty file yields a nil mapping node.
func readYAMLDocument(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading file: %v", err), File: path, Err: err}
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML: %v", err), File: path, Err: err}
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "top level must be a mapping", File: path, Line: root.Line}
	}
	return root, nil
}

// loadCatalogYAML reads catalog.yml in document order.
func loadCatalogYAML(path string, s sink) error {
	root, err := readYAMLDocument(path)
	if err != nil || root == nil {
		return err
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		var ds datasetYAML
		if err := valueNode.Decode(&ds); err != nil {
			return &LoadError{
				Code:    ErrCodeParseFailed,
				Message: fmt.Sprintf("dataset %q: %v", keyNode.Value, err),
				File:    path,
				Line:    valueNode.Line,
				Err:     err,
			}
		}
		if !s.dataset(path, keyNode.Line, keyNode.Value, ds.Type, ds.Ephemeral) {
			return nil
		}
	}
	return nil
}

// loadParametersYAML turns every top-level parameter into a params:<name>
// feed, plus the "parameters" feed holding them all.
func loadParametersYAML(path string, s sink) error {
	root, err := readYAMLDocument(path)
	if err != nil {
		return err
	}
	if !s.parameter(path, "parameters") {
		return nil
	}
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if !s.parameter(path, "params:"+root.Content[i].Value) {
			return nil
		}
	}
	return nil
}

// loadPipelinesYAML strictly decodes pipelines.yml.
func loadPipelinesYAML(path string, s sink) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading file: %v", err), File: path, Err: err}
	}

	var file pipelinesYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML: %v", err), File: path, Err: err}
	}

	for _, name := range sortedKeys(file.Pipelines) {
		p := &ir.Pipeline{Name: name}
		for _, n := range file.Pipelines[name].Nodes {
			p.Nodes = append(p.Nodes, ir.Node{
				Name:      n.Name,
				Inputs:    orEmpty(n.Inputs),
				Outputs:   orEmpty(n.Outputs),
				Namespace: n.Namespace,
			})
		}
		if !s.pipeline(path, 0, p) {
			return nil
		}
	}
	return nil
}

func orEmpty(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
