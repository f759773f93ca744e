package file

import (
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file names, in lookup order.
const (
	TOMLFile = "config.toml"
	YAMLFile = "config.yaml"
)

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var codecs = map[string]codec{
	TOMLFile: {marshal: toml.Marshal, unmarshal: toml.Unmarshal},
	YAMLFile: {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
}
