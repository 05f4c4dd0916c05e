package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/scriptedit/internal/log"
	"github.com/dshills/scriptedit/internal/plugin/lua"
)

func newMacroCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macro",
		Short: "Run Lua editing macros",
	}
	cmd.AddCommand(newMacroRunCmd(g))
	return cmd
}

func newMacroRunCmd(g *globals) *cobra.Command {
	var (
		lang    string
		write   bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run SCRIPT FILE",
		Short: "Run a Lua macro over a file",
		Long: `Run the Lua macro SCRIPT against FILE as one edit and print the result,
or write it back with -w. The macro sees an editor table:

  insert(text)  backspace()  delete()  toggle_comment([prefix])
  unindent()  duplicate()  move_up()  move_down()  embrace(open)
  add_caret_above()  add_caret_below()  move_to(offset)  select(anchor, head)
  text([start, end])  carets()  run(action)

Offsets are zero-based byte offsets. print writes to stderr.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(lang)
			if err != nil {
				return err
			}
			script, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read macro: %w", err)
			}
			path := args[1]

			s, err := openSession(path, kind, g.config())
			if err != nil {
				return err
			}
			defer closeSession(s)

			r, err := lua.NewRunner(s,
				lua.WithOutput(cmd.ErrOrStderr()),
				lua.WithExecutionTimeout(timeout),
			)
			if err != nil {
				return err
			}
			defer r.Close()

			values, err := r.Run(cmd.Context(), filepath.Base(args[0]), string(script))
			if err != nil {
				return err
			}
			log.Debug(log.CatCLI, "macro returned", "values", values)

			if !write {
				var buf bytes.Buffer
				if err := s.Save(&buf); err != nil {
					return err
				}
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if !s.Modified() {
				return nil
			}
			return writeBack(path, s.Save)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&lang, "lang", "l", "", "language (python, mel, log); default from the file extension")
	f.BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	f.DurationVar(&timeout, "timeout", lua.DefaultExecutionTimeout, "stop the macro after this long")
	return cmd
}

// writeBack replaces path with what save writes, keeping its mode.
func writeBack(path string, save func(w io.Writer) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := save(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
