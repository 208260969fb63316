package frontmatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	adrg "github.com/adrg/frontmatter"
	"gopkg.in/yaml.v2"

	"github.com/Bitlatte/quill/internal/model"
)

var yamlFormats = []*adrg.Format{
	adrg.NewFormat(Delimiter, Delimiter, yaml.Unmarshal),
}

// ParseYAML decodes a YAML front-matter block. Values are flattened to
// strings so both dialects feed the same metadata rules. Anything the YAML
// decoder rejects is handled by the line-based parser instead.
func ParseYAML(text string) (model.FrontMatter, string) {
	if _, _, ok := block(text); !ok {
		return model.FrontMatter{}, text
	}

	var raw map[string]interface{}
	body, err := adrg.Parse(strings.NewReader(text), &raw, yamlFormats...)
	if err != nil {
		return Parse(text)
	}

	fm := make(model.FrontMatter, len(raw))
	for key, value := range raw {
		key = strings.TrimSpace(key)
		if key == "" || value == nil {
			continue
		}
		fm[key] = stringify(value)
	}
	return fm, string(body)
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	case map[interface{}]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, fmt.Sprint(k))
		}
		sort.Strings(keys)
		return strings.Join(keys, ", ")
	default:
		return fmt.Sprint(v)
	}
}
