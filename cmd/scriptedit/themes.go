package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/scriptedit/internal/renderer/ansi"
	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
	"github.com/dshills/scriptedit/internal/renderer/palette"
)

var kinds = []highlight.Kind{highlight.KindPython, highlight.KindMEL, highlight.KindLog}

func newThemesCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List, inspect and create palettes",
	}
	cmd.AddCommand(
		newThemesListCmd(g),
		newThemesShowCmd(g),
		newThemesExportCmd(g),
		newThemesSeedCmd(g),
	)
	return cmd
}

func newThemesListCmd(g *globals) *cobra.Command {
	var chroma bool
	cmd := &cobra.Command{
		Use:   "list [KIND]",
		Short: "List the themes available for each language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if chroma {
				for _, name := range palette.ChromaStyles() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			list := kinds
			if len(args) == 1 {
				kind, err := highlight.ParseKind(args[0])
				if err != nil {
					return err
				}
				list = []highlight.Kind{kind}
			}
			store := palette.NewStore(g.config().Theme.Dir)
			for _, kind := range list {
				fmt.Fprintf(out, "%s: %s\n", kind, strings.Join(store.Themes(kind), " "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&chroma, "chroma", false, "list the chroma styles palettes can be seeded from")
	return cmd
}

func newThemesShowCmd(g *globals) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "show KIND THEME",
		Short: "Show the colours of a palette",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPalette(g, args[0], args[1])
			if err != nil {
				return err
			}
			profile, err := colorProfile(color)
			if err != nil {
				return err
			}
			var opts []ansi.Option
			if profile != nil {
				opts = append(opts, ansi.WithProfile(*profile))
			}
			out := cmd.OutOrStdout()
			pr := ansi.NewPrinter(out, palette.NewSet(p), opts...)
			fmt.Fprintf(out, "%s/%s\n", p.Kind(), p.Theme())
			for _, attr := range p.Attributes() {
				c, _ := p.Color(attr)
				fmt.Fprintln(out, pr.Swatch(fmt.Sprintf("%-12s %s", attr, c), c))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", "auto", "colour output (auto, always, never)")
	return cmd
}

func newThemesExportCmd(g *globals) *cobra.Command {
	var (
		sets   []string
		format string
		as     string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "export KIND THEME",
		Short: "Print a palette as a theme file, optionally with changed colours",
		Example: `  scriptedit themes export python default --set keyword=255,120,0
  scriptedit themes export mel default --as warm --set string=#e0c080 --save`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPalette(g, args[0], args[1])
			if err != nil {
				return err
			}
			if as != "" {
				p = palette.New(p.Kind(), as, p.Colors())
			} else {
				p = p.Clone()
			}
			for _, s := range sets {
				attr, c, err := parseSet(s)
				if err != nil {
					return err
				}
				if err := p.SetColor(attr, c); err != nil {
					return err
				}
			}
			if save {
				path, err := palette.NewStore(g.config().Theme.Dir).Save(p)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			return writePalette(cmd, p, format)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&sets, "set", nil, "change a colour: attr=r,g,b[,a] or attr=#rrggbb (repeatable)")
	f.StringVar(&format, "format", "json", "output format (json, yaml)")
	f.StringVar(&as, "as", "", "rename the exported theme")
	f.BoolVar(&save, "save", false, "save into --theme-dir instead of printing")
	return cmd
}

func newThemesSeedCmd(g *globals) *cobra.Command {
	var (
		format string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "seed KIND CHROMA_STYLE",
		Short: "Derive a palette from a chroma style",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := highlight.ParseKind(args[0])
			if err != nil {
				return err
			}
			p, err := palette.Seed(kind, args[1])
			if err != nil {
				return err
			}
			if save {
				path, err := palette.NewStore(g.config().Theme.Dir).Save(p)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			return writePalette(cmd, p, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml)")
	cmd.Flags().BoolVar(&save, "save", false, "save into --theme-dir instead of printing")
	return cmd
}

func loadPalette(g *globals, kindName, theme string) (*palette.Palette, error) {
	kind, err := highlight.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	return palette.NewStore(g.config().Theme.Dir).Load(kind, theme)
}

// parseSet parses attr=colour.
func parseSet(s string) (string, core.Color, error) {
	attr, value, ok := strings.Cut(s, "=")
	if !ok || attr == "" {
		return "", core.Color{}, fmt.Errorf("invalid --set %q: want attr=r,g,b", s)
	}
	c, err := core.ParseColor(value)
	if err != nil {
		return "", core.Color{}, fmt.Errorf("invalid --set %q: %w", s, err)
	}
	return strings.TrimSpace(attr), c, nil
}

func writePalette(cmd *cobra.Command, p *palette.Palette, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = palette.ExportJSON(p)
	case "yaml":
		data, err = palette.ExportYAML(p)
	default:
		return fmt.Errorf("invalid --format %q (json, yaml)", format)
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = fmt.Fprintln(out)
	}
	return err
}
