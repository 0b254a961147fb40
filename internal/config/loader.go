package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TERMTREE_"

// envConfigFile names the config file; it is not itself a setting.
const envConfigFile = EnvPrefix + "CONFIG"

// envMapping covers variables whose names don't follow SECTION_SETTING.
var envMapping = map[string]string{
	"TERMTREE_LOG_LEVEL": "logging.level",
	"TERMTREE_LOG_FILE":  "logging.file",
}

// LoadFile reads a TOML config file into a map. A missing file yields a nil
// map and no error.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return LoadBytes(path, data)
}

// LoadBytes parses TOML data into a map. source names the data in errors.
func LoadBytes(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	return m, nil
}

// LoadEnv builds a config map from TERMTREE_* entries of environ.
func LoadEnv(environ []string) map[string]any {
	m := make(map[string]any)
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || name == envConfigFile {
			continue
		}
		path, mapped := envMapping[name]
		if !mapped {
			path = envToPath(name)
		}
		setByPath(m, path, parseValue(value))
	}
	return m
}

// envToPath converts TERMTREE_SCENE_DEBOUNCE_MS to scene.debounceMs.
func envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, EnvPrefix), "_")
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	name := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			name += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + name
}

// parseValue converts an environment string to the most specific type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d.Milliseconds()
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// DeepMerge recursively merges src into dst. Values in src win; nested maps
// merge key by key.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

// Apply decodes a merged config map over base. Keys absent from m keep
// base's values.
func Apply(base Config, m map[string]any) (Config, error) {
	if len(m) == 0 {
		return base, nil
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return base, fmt.Errorf("encoding merged config: %w", err)
	}
	cfg := base
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return base, &ParseError{Path: "merged", Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// Load layers the file at path and the environment over the defaults and
// validates the result.
func Load(path string, environ []string) (Config, error) {
	var merged map[string]any
	if path != "" {
		fileMap, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		merged = DeepMerge(merged, fileMap)
	}
	merged = DeepMerge(merged, LoadEnv(environ))

	cfg, err := Apply(Default(), merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
