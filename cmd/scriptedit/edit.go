package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/scriptedit/internal/app"
)

func newEditCmd(g *globals) *cobra.Command {
	var (
		lang  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "edit [FILE]",
		Short: "Edit a file in the terminal with multiple carets",
		Long: `Open FILE in the terminal editor. Ctrl+click adds or removes a caret,
Ctrl+Alt+Up/Down adds carets above and below, Ctrl+S saves and Ctrl+Q quits.

Log with --log-file while editing; stderr belongs to the terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(lang)
			if err != nil {
				return err
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			a, err := app.New(app.Options{
				Path:   path,
				Kind:   kind,
				Config: g.manager,
				Watch:  watch,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Run(cmd.Context()); err != nil && !errors.Is(err, app.ErrQuit) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language (python, mel, log); default from the file extension")
	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "reload the config and themes when their files change")
	return cmd
}
