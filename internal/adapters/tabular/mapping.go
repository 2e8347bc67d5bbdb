package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// mappingKeyDelim keeps koanf from splitting header names that contain dots.
const mappingKeyDelim = "\x1f"

// LoadFieldMapping reads a flat object of canonical field name -> raw header.
// ".json" files are decoded as JSON, anything else as YAML.
func LoadFieldMapping(path string) (map[string]string, error) {
	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	}

	k := koanf.New(mappingKeyDelim)
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrInvalidMapping, path, err)
	}

	mapping := make(map[string]string, len(k.Keys()))
	for key, v := range k.All() {
		if strings.Contains(key, mappingKeyDelim) {
			return nil, fmt.Errorf("%w: %s: nested value under %q", ErrInvalidMapping, path, strings.SplitN(key, mappingKeyDelim, 2)[0])
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: value of %q is %T, want string", ErrInvalidMapping, path, key, v)
		}
		mapping[key] = s
	}
	return mapping, nil
}

// NormalizeHeaders trims every header and renames raw headers to their
// canonical names using mapping (canonical -> raw). Unmapped headers keep
// their trimmed spelling.
func NormalizeHeaders(headers []string, mapping map[string]string) []string {
	rename := make(map[string]string, len(mapping))
	for canonical, raw := range mapping {
		rename[strings.TrimSpace(raw)] = canonical
	}

	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if canonical, ok := rename[h]; ok {
			h = canonical
		}
		out[i] = h
	}
	return out
}

// Normalize returns t with headers normalized by mapping.
func (t Table) Normalize(mapping map[string]string) Table {
	return Table{Headers: NormalizeHeaders(t.Headers, mapping), Rows: t.Rows}
}
