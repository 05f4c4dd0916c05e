package palette

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
)

//go:embed themes
var embedded embed.FS

// Theme file extensions in lookup order.
var extensions = []string{".json", ".yaml", ".yml"}

// ErrInvalidPalette is returned for a theme file that cannot be parsed.
var ErrInvalidPalette = errors.New("invalid palette")

const (
	cacheExpiration = 30 * time.Minute
	cacheCleanup    = time.Hour
)

// Store loads palettes from a theme directory laid out as
// {dir}/{kind}/{theme}.json (or .yaml), falling back to the embedded
// themes. Loaded palettes are cached by kind and theme; callers always
// get their own copy.
type Store struct {
	dir   string
	cache *gocache.Cache
}

// NewStore creates a store over dir. An empty dir uses only the embedded
// themes.
func NewStore(dir string) *Store {
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	return &Store{
		dir:   dir,
		cache: gocache.New(cacheExpiration, cacheCleanup),
	}
}

// Dir returns the theme directory.
func (s *Store) Dir() string {
	return s.dir
}

func cacheKey(kind highlight.Kind, theme string) string {
	return string(kind) + "/" + theme
}

// Load returns a fresh copy of the palette of kind and theme. Attributes
// the theme file leaves out are taken from the embedded default theme.
func (s *Store) Load(kind highlight.Kind, theme string) (*Palette, error) {
	key := cacheKey(kind, theme)
	if v, ok := s.cache.Get(key); ok {
		if p, ok := v.(*Palette); ok {
			log.Debug(log.CatPalette, "cache hit", "key", key)
			return p.Clone(), nil
		}
	}

	colors, source, err := s.read(kind, theme)
	if err != nil {
		return nil, err
	}
	if theme != DefaultTheme {
		if defaults, _, err := readEmbedded(kind, DefaultTheme); err == nil {
			for attr, c := range defaults {
				if _, ok := colors[attr]; !ok {
					colors[attr] = c
				}
			}
		}
	}

	p := New(kind, theme, colors)
	s.cache.Set(key, p, gocache.DefaultExpiration)
	log.Debug(log.CatPalette, "loaded palette", "key", key, "source", source)
	return p.Clone(), nil
}

// MustLoad is Load for the embedded default themes, which always exist.
func (s *Store) MustLoad(kind highlight.Kind) *Palette {
	p, err := s.Load(kind, DefaultTheme)
	if err != nil {
		panic(err)
	}
	return p
}

func (s *Store) read(kind highlight.Kind, theme string) (map[string]core.Color, string, error) {
	if s.dir != "" {
		for _, ext := range extensions {
			path := filepath.Join(s.dir, string(kind), theme+ext)
			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, path, err
			}
			colors, err := decode(data, ext)
			if err != nil {
				return nil, path, fmt.Errorf("%s: %w", path, err)
			}
			return colors, path, nil
		}
	}
	return readEmbedded(kind, theme)
}

func readEmbedded(kind highlight.Kind, theme string) (map[string]core.Color, string, error) {
	for _, ext := range extensions {
		path := "themes/" + string(kind) + "/" + theme + ext
		data, err := embedded.ReadFile(path)
		if err != nil {
			continue
		}
		colors, err := decode(data, ext)
		if err != nil {
			return nil, path, fmt.Errorf("%s: %w", path, err)
		}
		return colors, path, nil
	}
	return nil, "", fmt.Errorf("%w: %s", ErrThemeNotFound, cacheKey(kind, theme))
}

// Decode parses a theme file body. ext selects the format: ".json",
// ".yaml" or ".yml".
func Decode(data []byte, ext string) (map[string]core.Color, error) {
	return decode(data, strings.ToLower(ext))
}

func decode(data []byte, ext string) (map[string]core.Color, error) {
	if ext == ".yaml" || ext == ".yml" {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

// decodeJSON reads a flat {attr: [r, g, b]} object. Colours may also be
// written as "#rrggbb" strings.
func decodeJSON(data []byte) (map[string]core.Color, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidPalette)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidPalette)
	}

	colors := make(map[string]core.Color)
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		var c core.Color
		c, err = jsonColor(value)
		if err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrInvalidPalette, key.String(), err)
			return false
		}
		colors[key.String()] = c
		return true
	})
	if err != nil {
		return nil, err
	}
	return colors, nil
}

func jsonColor(v gjson.Result) (core.Color, error) {
	switch {
	case v.IsArray():
		parts := v.Array()
		if len(parts) < 3 || len(parts) > 4 {
			return core.Color{}, fmt.Errorf("want 3 or 4 components, got %d", len(parts))
		}
		c := core.FromTriple([3]int{int(parts[0].Int()), int(parts[1].Int()), int(parts[2].Int())})
		if len(parts) == 4 {
			c.A = uint8(min(max(parts[3].Int(), 0), 255))
		}
		return c, nil
	case v.Type == gjson.String:
		return core.ParseColor(v.String())
	}
	return core.Color{}, fmt.Errorf("unsupported value %s", v.Raw)
}

func decodeYAML(data []byte) (map[string]core.Color, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPalette, err)
	}
	colors := make(map[string]core.Color, len(raw))
	for attr, v := range raw {
		c, err := yamlColor(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPalette, attr, err)
		}
		colors[attr] = c
	}
	return colors, nil
}

func yamlColor(v any) (core.Color, error) {
	switch v := v.(type) {
	case string:
		return core.ParseColor(v)
	case []any:
		if len(v) < 3 || len(v) > 4 {
			return core.Color{}, fmt.Errorf("want 3 or 4 components, got %d", len(v))
		}
		var parts [4]int
		parts[3] = 255
		for i, p := range v {
			n, ok := p.(int)
			if !ok {
				return core.Color{}, fmt.Errorf("component %d is not an integer", i)
			}
			parts[i] = n
		}
		c := core.FromTriple([3]int{parts[0], parts[1], parts[2]})
		c.A = uint8(min(max(parts[3], 0), 255))
		return c, nil
	}
	return core.Color{}, fmt.Errorf("unsupported value %v", v)
}

// Themes lists the theme names available for kind, embedded and on disk,
// sorted and without duplicates.
func (s *Store) Themes(kind highlight.Kind) []string {
	var names []string
	entries, _ := fs.ReadDir(embedded, "themes/"+string(kind))
	names = appendThemeNames(names, entries)
	if s.dir != "" {
		entries, _ := os.ReadDir(filepath.Join(s.dir, string(kind)))
		names = appendThemeNames(names, entries)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func appendThemeNames(names []string, entries []fs.DirEntry) []string {
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if slices.Contains(extensions, strings.ToLower(ext)) {
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	return names
}

// Invalidate drops one cached palette.
func (s *Store) Invalidate(kind highlight.Kind, theme string) {
	s.cache.Delete(cacheKey(kind, theme))
}

// InvalidateAll empties the cache.
func (s *Store) InvalidateAll() {
	s.cache.Flush()
}

// InvalidatePath drops the palette stored at path, if path is a theme
// file under the store directory, and reports which one it was.
func (s *Store) InvalidatePath(path string) (highlight.Kind, string, bool) {
	kind, theme, ok := s.themeOf(path)
	if !ok {
		return "", "", false
	}
	s.Invalidate(kind, theme)
	log.Debug(log.CatPalette, "invalidated palette", "key", cacheKey(kind, theme), "path", path)
	return kind, theme, true
}

func (s *Store) themeOf(path string) (highlight.Kind, string, bool) {
	if s.dir == "" {
		return "", "", false
	}
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", false
	}
	dir, file := filepath.Split(rel)
	kind, err := highlight.ParseKind(filepath.Clean(dir))
	if err != nil {
		return "", "", false
	}
	ext := filepath.Ext(file)
	if !slices.Contains(extensions, strings.ToLower(ext)) {
		return "", "", false
	}
	return kind, strings.TrimSuffix(file, ext), true
}

// Save writes p as JSON to {dir}/{kind}/{theme}.json and drops the
// cached copy.
func (s *Store) Save(p *Palette) (string, error) {
	if s.dir == "" {
		return "", errors.New("palette store has no directory")
	}
	data, err := ExportJSON(p)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.dir, string(p.Kind()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, p.Theme()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	s.Invalidate(p.Kind(), p.Theme())
	return path, nil
}
