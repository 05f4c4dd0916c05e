// Package config loads the scriptedit configuration.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Command-line flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. SCRIPTEDIT_* variables  │
//	├─────────────────────────────┤
//	│  3. YAML file               │  ← config.yaml
//	├─────────────────────────────┤
//	│  2. TOML file               │  ← config.toml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged layers are decoded into a typed Config with four sections:
//
//	[editor]  indent_width, tab_width, max_line_length, log_level, log_format, debug
//	[caret]   blink_interval, blink_colors, band_color, guide_color, margin, style
//	[theme]   name, dir, watch, seed
//	[keymap]  "key spec" = "action"
//
// Colours are "#rrggbb", "r,g,b", "r,g,b,a" or an array of components.
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment loading
//   - layer: layer precedence and merging
//   - notify: change notification
//   - watcher: debounced file watching for live reload
//
// # Basic Usage
//
//	m := config.NewManager(config.WithFiles(config.DefaultFiles()...))
//	cfg, err := m.Load()
//	m.SubscribePath("caret", func(c notify.Change) { ... })
package config
