package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DataFile is the on-disk shape accepted by LoadDataFile:
//
//	shared:
//	  site: Example
//	templates:
//	  blog::post:
//	    comments: true
type DataFile struct {
	Shared    map[string]any            `json:"shared" yaml:"shared"`
	Templates map[string]map[string]any `json:"templates" yaml:"templates"`
}

// LoadDataFile reads a JSON or YAML data file and merges it into d.
func (d *Data) LoadDataFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("registry: read data file %s: %w", path, err)
	}
	doc, err := ParseDataFile(raw, path)
	if err != nil {
		return err
	}
	if len(doc.Shared) > 0 {
		d.ShareWithAll(doc.Shared)
	}
	for name, vars := range doc.Templates {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("registry: data file %s defines an empty template identifier", path)
		}
		d.ShareWithSome(vars, name)
	}
	return nil
}

// ParseDataFile decodes a data document, trying JSON first and YAML second.
func ParseDataFile(data []byte, source string) (DataFile, error) {
	var doc DataFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return DataFile{}, fmt.Errorf("registry: data file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = DataFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return DataFile{}, fmt.Errorf("registry: parse %s: invalid JSON or YAML", source)
}
