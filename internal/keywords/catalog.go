// Package keywords loads and merges the food-group/tag keyword catalogs the
// classifier matches against.
package keywords

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/textnorm"
)

// Catalog maps a category key (food-group or tag name) to its deduplicated,
// sorted set of lowercase keywords. Built once per pipeline run, immutable
// afterward.
type Catalog map[string][]string

// Categories returns the category keys in lexicographic order. Classification
// iterates in this order so best-match tie-breaking is deterministic.
func (c Catalog) Categories() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadDir reads every *.txt file in dir into the catalog. The filename stem
// becomes the category key; one keyword per line, blank lines and #-comments
// ignored. A missing directory yields an empty catalog, not an error.
func LoadDir(dir string) (Catalog, error) {
	cat := Catalog{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("keywords: directory not found, skipping", zap.String("dir", dir))
			return cat, nil
		}
		return nil, eris.Wrapf(err, "keywords: read dir %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "keywords: read file %s", path)
		}

		key := strings.TrimSuffix(entry.Name(), ".txt")
		var kws []string
		for _, line := range strings.Split(string(data), "\n") {
			line = textnorm.Normalize(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			kws = append(kws, line)
		}
		cat[key] = dedupe(kws)
	}

	return cat, nil
}

// mappingDoc is the structured mapping document shape.
type mappingDoc struct {
	Mapping []struct {
		FoodGroup string `json:"dge_food_group"`
		Match     struct {
			ContainsAny []string `json:"contains_any"`
		} `json:"match"`
	} `json:"mapping"`
	Tags []struct {
		Tag   string `json:"tag"`
		Match struct {
			ContainsAny []string `json:"contains_any"`
		} `json:"match"`
	} `json:"tags"`
}

// LoadMappingFile reads the structured mapping document and returns a group
// catalog and a tag catalog. The file is required configuration; a missing
// file is an error for the caller to surface.
func LoadMappingFile(path string) (groups Catalog, tags Catalog, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "keywords: read mapping %s", path)
	}

	var doc mappingDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, eris.Wrapf(err, "keywords: parse mapping %s", path)
	}

	groups = Catalog{}
	for _, entry := range doc.Mapping {
		if entry.FoodGroup == "" {
			continue
		}
		groups[entry.FoodGroup] = dedupe(append(groups[entry.FoodGroup], normalizeAll(entry.Match.ContainsAny)...))
	}

	tags = Catalog{}
	for _, entry := range doc.Tags {
		if entry.Tag == "" {
			continue
		}
		tags[entry.Tag] = dedupe(append(tags[entry.Tag], normalizeAll(entry.Match.ContainsAny)...))
	}

	return groups, tags, nil
}

// Merge unions two catalogs per key, deduplicating and sorting each set.
func Merge(a, b Catalog) Catalog {
	out := Catalog{}
	for k, v := range a {
		out[k] = append(out[k], v...)
	}
	for k, v := range b {
		out[k] = append(out[k], v...)
	}
	for k, v := range out {
		out[k] = dedupe(v)
	}
	return out
}

func normalizeAll(kws []string) []string {
	var out []string
	for _, kw := range kws {
		if kw = textnorm.Normalize(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func dedupe(kws []string) []string {
	seen := make(map[string]struct{}, len(kws))
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}
