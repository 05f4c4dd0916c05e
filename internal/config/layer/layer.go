// Package layer merges configuration sources by precedence.
//
// Each source contributes one Layer. A layer of higher priority overrides
// the values of lower layers path by path; tables are merged, other values
// replaced.
package layer

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin is the built-in defaults.
	SourceBuiltin Source = iota
	// SourceTOML is a TOML configuration file.
	SourceTOML
	// SourceYAML is a YAML configuration file.
	SourceYAML
	// SourceEnv is the SCRIPTEDIT_ environment variables.
	SourceEnv
	// SourceFlags is command-line flags.
	SourceFlags
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "defaults"
	case SourceTOML:
		return "toml"
	case SourceYAML:
		return "yaml"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// Priority returns the merge priority of the source; higher wins.
func (s Source) Priority() int {
	return int(s) * 100
}

// Layer is one configuration source.
type Layer struct {
	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the values as a nested map.
	Data map[string]any
}

// New creates a layer.
func New(source Source, path string, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{Source: source, Path: path, Data: data}
}

// Name identifies the layer in messages: the file path or the source
// name.
func (l *Layer) Name() string {
	if l.Path != "" {
		return l.Path
	}
	return l.Source.String()
}
