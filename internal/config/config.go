package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/scriptedit/internal/config/loader"
	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/core"
)

// Config is the decoded configuration.
type Config struct {
	Editor EditorConfig
	Caret  CaretConfig
	Theme  ThemeConfig

	// Keymap rebinds key specs to action names; an empty action unbinds.
	Keymap map[string]string
}

// EditorConfig contains the [editor] section.
type EditorConfig struct {
	IndentWidth   int
	TabWidth      int
	MaxLineLength int
	LogLevel      string
	LogFormat     string
	Debug         bool
}

// LoggingEnabled reports whether the settings ask for logging.
func (e EditorConfig) LoggingEnabled() bool {
	return e.Debug || (e.LogLevel != "" && e.LogLevel != "off")
}

// CaretConfig contains the [caret] section. Colours are kept as written
// and parsed with core.ParseColor.
type CaretConfig struct {
	BlinkInterval time.Duration
	BlinkColors   [2]string
	BandColor     string
	GuideColor    string
	Margin        int
	Style         string
}

// Colors parses the caret colours.
func (c CaretConfig) Colors() (blink [2]core.Color, band, guide core.Color, err error) {
	for i, s := range c.BlinkColors {
		if blink[i], err = core.ParseColor(s); err != nil {
			return blink, band, guide, fmt.Errorf("caret.blink_colors[%d]: %w", i, err)
		}
	}
	if band, err = core.ParseColor(c.BandColor); err != nil {
		return blink, band, guide, fmt.Errorf("caret.band_color: %w", err)
	}
	if guide, err = core.ParseColor(c.GuideColor); err != nil {
		return blink, band, guide, fmt.Errorf("caret.guide_color: %w", err)
	}
	return blink, band, guide, nil
}

// ThemeConfig contains the [theme] section.
type ThemeConfig struct {
	Name string
	// Dir holds on-disk palettes as {kind}/{theme}.json; empty uses only
	// the embedded themes.
	Dir   string
	Watch bool
	// Seed names a chroma style used when Name is not found.
	Seed string
}

// defaultMap returns the built-in defaults layer.
func defaultMap() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"indent_width":    int64(4),
			"tab_width":       int64(4),
			"max_line_length": int64(80),
			"log_level":       "off",
			"log_format":      "text",
			"debug":           false,
		},
		"caret": map[string]any{
			"blink_interval": "500ms",
			"blink_colors":   []any{"94,132,255", "117,229,92"},
			"band_color":     "207,228,255,10",
			"guide_color":    "207,228,255,20",
			"margin":         int64(1),
			"style":          "bar",
		},
		"theme": map[string]any{
			"name":  "default",
			"dir":   "",
			"watch": false,
			"seed":  "",
		},
		"keymap": map[string]any{},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := decode(defaultMap())
	if err != nil {
		panic(fmt.Sprintf("config: bad defaults: %v", err))
	}
	return cfg
}

// decoder reads typed values from a merged map and collects every error.
type decoder struct {
	data map[string]any
	errs []error
}

func decode(data map[string]any) (Config, error) {
	d := &decoder{data: data}
	cfg := Config{
		Editor: EditorConfig{
			IndentWidth:   d.int("editor.indent_width"),
			TabWidth:      d.int("editor.tab_width"),
			MaxLineLength: d.int("editor.max_line_length"),
			LogLevel:      strings.ToLower(d.string("editor.log_level")),
			LogFormat:     strings.ToLower(d.string("editor.log_format")),
			Debug:         d.bool("editor.debug"),
		},
		Caret: CaretConfig{
			BlinkInterval: d.duration("caret.blink_interval"),
			BandColor:     d.color("caret.band_color"),
			GuideColor:    d.color("caret.guide_color"),
			Margin:        d.int("caret.margin"),
			Style:         d.string("caret.style"),
		},
		Theme: ThemeConfig{
			Name:  d.string("theme.name"),
			Dir:   d.string("theme.dir"),
			Watch: d.bool("theme.watch"),
			Seed:  d.string("theme.seed"),
		},
		Keymap: d.stringMap("keymap"),
	}
	cfg.Caret.BlinkColors = d.colorPair("caret.blink_colors")
	if err := errors.Join(d.errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, v any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
		}
	}
	check(c.Editor.IndentWidth >= 1 && c.Editor.IndentWidth <= 16, "editor.indent_width", "must be between 1 and 16", c.Editor.IndentWidth)
	check(c.Editor.TabWidth >= 1 && c.Editor.TabWidth <= 16, "editor.tab_width", "must be between 1 and 16", c.Editor.TabWidth)
	check(c.Editor.MaxLineLength >= 0, "editor.max_line_length", "must not be negative", c.Editor.MaxLineLength)
	check(c.Editor.LogLevel == "off" || c.Editor.LogLevel == "" || log.ValidLevel(c.Editor.LogLevel), "editor.log_level", "unknown level", c.Editor.LogLevel)
	check(c.Editor.LogFormat == "text" || c.Editor.LogFormat == "json", "editor.log_format", "must be text or json", c.Editor.LogFormat)
	check(c.Caret.BlinkInterval >= 0, "caret.blink_interval", "must not be negative", c.Caret.BlinkInterval)
	check(c.Caret.Margin >= 0, "caret.margin", "must not be negative", c.Caret.Margin)
	if _, _, _, err := c.Caret.Colors(); err != nil {
		errs = append(errs, &ValidationError{Path: "caret", Message: err.Error()})
	}
	check(c.Theme.Name != "", "theme.name", "must not be empty", c.Theme.Name)
	return errors.Join(errs...)
}

func (d *decoder) get(path string) (any, bool) {
	return loader.GetByPath(d.data, path)
}

func (d *decoder) typeErr(path, expected string, v any) {
	d.errs = append(d.errs, &TypeError{Path: path, Expected: expected, Actual: fmt.Sprintf("%T", v)})
}

func (d *decoder) string(path string) string {
	v, ok := d.get(path)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.typeErr(path, "string", v)
	}
	return s
}

func (d *decoder) int(path string) int {
	v, ok := d.get(path)
	if !ok {
		return 0
	}
	n, ok := toInt(v)
	if !ok {
		d.typeErr(path, "integer", v)
	}
	return n
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

func (d *decoder) bool(path string) bool {
	v, ok := d.get(path)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	d.typeErr(path, "boolean", v)
	return false
}

// duration accepts a Go duration string or a number of milliseconds.
func (d *decoder) duration(path string) time.Duration {
	v, ok := d.get(path)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case time.Duration:
		return x
	case string:
		dur, err := time.ParseDuration(x)
		if err == nil {
			return dur
		}
	default:
		if n, ok := toInt(x); ok {
			return time.Duration(n) * time.Millisecond
		}
	}
	d.typeErr(path, "duration", v)
	return 0
}

// colorString converts an array of components to "r,g,b[,a]".
func colorString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []any:
		if len(x) != 3 && len(x) != 4 {
			return "", false
		}
		parts := make([]string, len(x))
		for i, c := range x {
			n, ok := toInt(c)
			if !ok {
				return "", false
			}
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ","), true
	}
	return "", false
}

func (d *decoder) color(path string) string {
	v, ok := d.get(path)
	if !ok {
		return ""
	}
	s, ok := colorString(v)
	if !ok {
		d.typeErr(path, "colour", v)
	}
	return s
}

func (d *decoder) colorPair(path string) [2]string {
	var out [2]string
	v, ok := d.get(path)
	if !ok {
		return out
	}
	list, ok := v.([]any)
	if !ok || len(list) != 2 {
		d.typeErr(path, "two colours", v)
		return out
	}
	for i, c := range list {
		s, ok := colorString(c)
		if !ok {
			d.typeErr(fmt.Sprintf("%s[%d]", path, i), "colour", c)
		}
		out[i] = s
	}
	return out
}

func (d *decoder) stringMap(path string) map[string]string {
	out := make(map[string]string)
	v, ok := d.get(path)
	if !ok {
		return out
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.typeErr(path, "table", v)
		return out
	}
	for k, val := range m {
		s, ok := val.(string)
		if !ok {
			d.typeErr(path+"."+k, "string", val)
			continue
		}
		out[k] = s
	}
	return out
}
