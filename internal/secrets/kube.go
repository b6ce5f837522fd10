package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContainsKubernetesSecret reports whether any YAML document in content
// is a core/v1 Secret. Documents that are lists are searched item by item.
func ContainsKubernetesSecret(content []byte) (bool, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	for {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("parse YAML: %w", err)
		}

		if items, ok := doc.([]any); ok {
			for _, item := range items {
				if isKubernetesSecret(item) {
					return true, nil
				}
			}
			continue
		}
		if isKubernetesSecret(doc) {
			return true, nil
		}
	}
}

func isKubernetesSecret(doc any) bool {
	m, ok := doc.(map[string]any)
	if !ok {
		return false
	}
	kind, _ := m["kind"].(string)
	apiVersion, _ := m["apiVersion"].(string)
	return strings.EqualFold(kind, "secret") && strings.HasPrefix(apiVersion, "v1")
}
