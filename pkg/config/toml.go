package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// tomlParser adapts BurntSushi/toml to koanf.Parser.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
