package rules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/genau-project/speisecheck/internal/model"
)

// Load reads a rule document from disk. JSON is the primary format; .yaml
// and .yml files with the same schema are accepted too. A missing file is a
// fatal configuration error for the caller.
func Load(path string) (*model.RuleDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}

	var doc model.RuleDoc
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, eris.Wrapf(err, "rules: parse yaml %s", path)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, eris.Wrapf(err, "rules: parse json %s", path)
		}
	}

	return &doc, nil
}
