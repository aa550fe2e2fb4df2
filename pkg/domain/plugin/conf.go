package plugin

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Conf is the declarative configuration a plugin may ship next to its
// sources. The indexing core treats it as opaque beyond "parses and
// validates"; installers interpret the fields.
type Conf struct {
	Plugin ConfPlugin `yaml:"plugin"`
}

// ConfPlugin carries the per-plugin metadata block.
type ConfPlugin struct {
	// Name overrides the directory-derived plugin name for display purposes.
	Name string `yaml:"name"`
	// Lang is the declared implementation language, if any.
	Lang string `yaml:"lang"`
	// Deps lists runtime dependencies the installer must provide.
	Deps []string `yaml:"deps"`
	// Install is the command used to install the plugin.
	Install string `yaml:"install"`
}

const confSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "plugin": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "lang": {"type": "string"},
        "deps": {"type": "array", "items": {"type": "string"}},
        "install": {"type": "string"}
      },
      "additionalProperties": true
    }
  },
  "additionalProperties": true
}`

var confSchemaLoader = gojsonschema.NewStringLoader(confSchemaJSON)

// DeclaredLang maps the configuration's lang field onto the Lang
// enumeration. Unset or unrecognized values map to LangUnknown.
func (c *Conf) DeclaredLang() Lang {
	switch strings.ToLower(c.Plugin.Lang) {
	case "python":
		return LangPython
	case "go", "golang":
		return LangGo
	case "rust":
		return LangRust
	case "dart":
		return LangDart
	case "javascript", "js":
		return LangJavaScript
	case "typescript", "ts":
		return LangTypeScript
	default:
		return LangUnknown
	}
}

// ParseConf parses configuration text into a Conf value and validates its
// structure. A file that does not parse or violates the schema is a
// repository-level defect, reported as an error rather than skipped.
func ParseConf(data []byte) (*Conf, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if doc == nil {
		// An empty file is a valid, empty configuration.
		doc = map[string]interface{}{}
	}

	result, err := gojsonschema.Validate(confSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to validate configuration: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}

	var conf Conf
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &conf, nil
}
