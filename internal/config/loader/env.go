package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEnvPrefix is the prefix of the variables EnvLoader reads.
const DefaultEnvPrefix = "SCRIPTEDIT_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // including the trailing underscore
	mapping map[string]string // variable name (without prefix) -> config path
	environ func() []string
}

// NewEnvLoader creates an environment loader for prefix, which should end
// in an underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		environ: os.Environ,
	}
}

// NewEnvLoaderFrom reads variables from environ instead of the process
// environment.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

// Shorthands for settings used often enough to deserve a short name.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"DEBUG":     "editor.debug",
		"LOG_LEVEL": "editor.log_level",
		"THEME":     "theme.name",
		"THEME_DIR": "theme.dir",
	}
}

// AddMapping maps the variable prefix+name to a config path.
func (l *EnvLoader) AddMapping(name, configPath string) {
	l.mapping[name] = configPath
}

// Load reads the prefixed variables. SCRIPTEDIT_EDITOR_INDENT_WIDTH sets
// editor.indent_width: the first word is the section and the rest is the
// key. Empty values are kept.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		name = strings.TrimPrefix(name, l.prefix)
		path, mapped := l.mapping[name]
		if !mapped {
			path = envToPath(name)
		}
		if path == "" {
			continue
		}
		SetByPath(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath maps EDITOR_INDENT_WIDTH to editor.indent_width. A name
// without an underscore sets a whole section.
func envToPath(name string) string {
	section, key, ok := strings.Cut(strings.ToLower(name), "_")
	switch {
	case section == "":
		return ""
	case !ok || key == "":
		return section
	}
	return section + "." + key
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
		return d
	}

	// JSON for arrays and tables, e.g. keymap overrides
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return normalize(fromJSON(v))
		}
	}
	return s
}

// fromJSON turns JSON numbers that hold integers into int64.
func fromJSON(v any) any {
	switch x := v.(type) {
	case float64:
		if x == float64(int64(x)) {
			return int64(x)
		}
	case []any:
		for i, e := range x {
			x[i] = fromJSON(e)
		}
	case map[string]any:
		for k, e := range x {
			x[k] = fromJSON(e)
		}
	}
	return v
}
