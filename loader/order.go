package loader

import (
	"errors"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// orderIndex maps path -> upper-case method -> response keys in declaration order.
type orderIndex map[string]map[string][]string

func (o orderIndex) lookup(path, method string) []string {
	if o == nil {
		return nil
	}
	return o[path][method]
}

// responseOrder walks the raw document as a YAML node tree. JSON documents
// parse the same way since JSON is a subset of YAML.
func responseOrder(data []byte) (orderIndex, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("loader: decoding node tree: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("loader: document has no root mapping")
	}

	paths := mappingValue(root.Content[0], "paths")
	if paths == nil {
		return orderIndex{}, nil
	}

	index := make(orderIndex)
	eachPair(paths, func(path string, item *yaml.Node) {
		eachPair(item, func(method string, op *yaml.Node) {
			upper := strings.ToUpper(method)
			if !isMethod(upper) {
				return
			}
			responses := mappingValue(op, "responses")
			if responses == nil {
				return
			}
			var keys []string
			eachPair(responses, func(status string, _ *yaml.Node) {
				keys = append(keys, status)
			})
			if index[path] == nil {
				index[path] = make(map[string][]string)
			}
			index[path][upper] = keys
		})
	})
	return index, nil
}

func isMethod(m string) bool {
	for _, candidate := range methodOrder {
		if candidate == m {
			return true
		}
	}
	return false
}

// mappingValue returns the value node for key, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// eachPair visits the key/value pairs of a mapping node in order.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node)) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		fn(node.Content[i].Value, node.Content[i+1])
	}
}
