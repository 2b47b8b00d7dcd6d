// FILE: lixenwraith/envconfig/source.go
package envconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrFileNotFound is returned by FromFile for a missing file
var ErrFileNotFound = errors.New("snapshot file not found")

// MaxFileSize bounds files read by FromFile
const MaxFileSize = 10 * 1024 * 1024

// FromFile builds a snapshot from a TOML, JSON or YAML file. Nested tables
// become key segments, so
//
//	[hardconfig.database]
//	url = "https://site.com"
//
// yields HARDCONFIG__DATABASE__URL. Scalars keep their textual form.
func FromFile(path string) (Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Snapshot{}, fmt.Errorf("failed to stat snapshot file '%s': %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return Snapshot{}, fmt.Errorf("snapshot file '%s' exceeds maximum size %d bytes", path, MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	nested := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &nested); err != nil {
			return Snapshot{}, fmt.Errorf("failed to parse TOML snapshot file '%s': %w", path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&nested); err != nil {
			return Snapshot{}, fmt.Errorf("failed to parse JSON snapshot file '%s': %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &nested); err != nil {
			return Snapshot{}, fmt.Errorf("failed to parse YAML snapshot file '%s': %w", path, err)
		}
	default:
		return Snapshot{}, fmt.Errorf("unable to determine format of snapshot file '%s'", path)
	}

	entries := make(map[string]string)
	if err := flattenInto(entries, nested, ""); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot file '%s': %w", path, err)
	}
	return Snapshot{entries: entries}, nil
}

// flattenInto writes the leaves of nested into flat under uppercase,
// separator-joined keys
func flattenInto(flat map[string]string, nested map[string]any, prefix string) error {
	for key, value := range nested {
		fullKey := strings.ToUpper(key)
		if prefix != "" {
			fullKey = prefix + keySeparator + fullKey
		}

		switch v := value.(type) {
		case map[string]any:
			if err := flattenInto(flat, v, fullKey); err != nil {
				return err
			}
		case []any, []map[string]any:
			return fmt.Errorf("key %s: list values are not supported", fullKey)
		case nil:
			// null leaves stay absent
			continue
		default:
			flat[fullKey] = scalarText(v)
		}
	}
	return nil
}

// scalarText renders a decoded scalar the way it would appear in an environment
func scalarText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err == nil {
		return "json"
	}
	if err := toml.Unmarshal(data, &probe); err == nil {
		return "toml"
	}
	// YAML accepts almost anything, so it is tried last
	if err := yaml.Unmarshal(data, &probe); err == nil {
		return "yaml"
	}
	return ""
}
