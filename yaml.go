package splash

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a scene document into a Record tree. Mappings become
// Record, sequences become List; scalars keep their YAML type (int, float64,
// bool or string). Other scalars are stored in their string form.
func ParseYAML(data []byte) (Record, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("splash: parse yaml: %w", err)
	}
	if raw == nil {
		return Record{}, nil
	}
	return normalize(raw).(Record), nil
}

// LoadYAML reads and decodes a scene document file.
func LoadYAML(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("splash: load %s: %w", path, err)
	}
	return ParseYAML(data)
}

func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		r := make(Record, len(v))
		for k, e := range v {
			r[k] = normalize(e)
		}
		return r
	case map[any]any:
		r := make(Record, len(v))
		for k, e := range v {
			r[fmt.Sprint(k)] = normalize(e)
		}
		return r
	case []any:
		l := make(List, len(v))
		for i, e := range v {
			l[i] = normalize(e)
		}
		return l
	case int, float64, bool, string, nil:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return float64(v)
	default:
		return fmt.Sprint(v)
	}
}
