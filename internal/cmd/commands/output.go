package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jmes "github.com/jmespath/go-jmespath"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// decodeDocument turns a JSON body into generic values for filtering.
func decodeDocument(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	return doc, nil
}

// project applies a JMESPath expression. An empty expression returns doc.
func project(doc any, expr string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return doc, nil
	}
	v, err := jmes.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}
	return v, nil
}

func render(v any, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	case formatYAML, "yml":
		var b bytes.Buffer
		enc := yaml.NewEncoder(&b)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		_ = enc.Close()
		return strings.TrimRight(b.String(), "\n"), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// readBody resolves a -d value: inline JSON, or @file holding JSON or YAML
// (by extension).
func readBody(arg string) (any, error) {
	if arg == "" {
		return nil, nil
	}
	data := []byte(arg)
	ext := ".json"
	if strings.HasPrefix(arg, "@") {
		path := arg[1:]
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
		ext = strings.ToLower(filepath.Ext(path))
	}
	var body any
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("yaml parse: %w", err)
		}
		return body, nil
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("json parse: %w", err)
	}
	return body, nil
}
