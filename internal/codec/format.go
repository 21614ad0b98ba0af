package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the format from a file extension, defaulting to YAML,
// which also reads JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Unmarshal decodes a document into v.
func Unmarshal(data []byte, f Format, v any) error {
	var err error
	switch f {
	case JSON:
		err = sonic.ConfigStd.Unmarshal(data, v)
	case YAML:
		err = yaml.UnmarshalWithOptions(data, v, yaml.Strict())
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", f, err)
	}
	return nil
}

// Marshal encodes v. JSON output is indented when pretty is set.
func Marshal(v any, f Format, pretty bool) ([]byte, error) {
	switch f {
	case JSON:
		if pretty {
			return sonic.ConfigStd.MarshalIndent(v, "", "  ")
		}
		return sonic.ConfigStd.Marshal(v)
	case YAML:
		var buf bytes.Buffer
		if err := yaml.NewEncoder(&buf, yaml.Indent(2)).Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}
