package main

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dshills/scriptedit/internal/engine/buffer"
	"github.com/dshills/scriptedit/internal/renderer/ansi"
	"github.com/dshills/scriptedit/internal/renderer/palette"
)

func newHighlightCmd(g *globals) *cobra.Command {
	var (
		lang        string
		theme       string
		seed        string
		color       string
		lineNumbers bool
		background  bool
	)
	cmd := &cobra.Command{
		Use:   "highlight FILE",
		Short: "Print a file with syntax highlighting",
		Example: `  scriptedit highlight build.py
  scriptedit highlight --lang mel --theme dusk rig.mel
  scriptedit highlight -n maya.log | less -R`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(lang)
			if err != nil {
				return err
			}
			profile, err := colorProfile(color)
			if err != nil {
				return err
			}

			cfg := g.config()
			if seed != "" {
				cfg.Theme.Seed = seed
			}
			if theme != "" {
				cfg.Theme.Name = theme
			}

			s, err := openSession(args[0], kind, cfg)
			if err != nil {
				return err
			}
			defer closeSession(s)

			if theme != "" && cfg.Theme.Seed == "" {
				if _, err := palette.NewStore(cfg.Theme.Dir).Load(s.Kind(), theme); err != nil {
					return err
				}
			}

			doc := s.Engine().Document()
			n := doc.LineCount()
			if n > 1 && doc.LineText(n-1) == "" {
				n--
			}
			lines := make([]string, n)
			spans := make([][]buffer.Span, n)
			for i := range n {
				lines[i] = doc.LineText(i)
				spans[i] = doc.Spans(i)
			}

			opts := []ansi.Option{
				ansi.WithLineNumbers(lineNumbers),
				ansi.WithBackground(background),
				ansi.WithTabWidth(cfg.Editor.TabWidth),
			}
			if profile != nil {
				opts = append(opts, ansi.WithProfile(*profile))
			}
			return ansi.NewPrinter(cmd.OutOrStdout(), s.Palettes(), opts...).Print(lines, spans)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&lang, "lang", "l", "", "language (python, mel, log); default from the file extension")
	f.StringVarP(&theme, "theme", "t", "", "palette theme name")
	f.StringVar(&seed, "seed", "", "derive missing palettes from this chroma style")
	f.StringVar(&color, "color", "auto", "colour output (auto, always, never)")
	f.BoolVarP(&lineNumbers, "line-numbers", "n", false, "number the lines")
	f.BoolVar(&background, "background", false, "paint the theme background")
	return cmd
}

// colorProfile maps --color to a forced profile; nil detects it.
func colorProfile(mode string) (*termenv.Profile, error) {
	var p termenv.Profile
	switch mode {
	case "auto", "":
		return nil, nil
	case "always":
		p = termenv.TrueColor
	case "never":
		p = termenv.Ascii
	default:
		return nil, fmt.Errorf("invalid --color %q (auto, always, never)", mode)
	}
	return &p, nil
}
