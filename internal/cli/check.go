package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kalyuk/swagdeco/directive"
)

// ErrCheckFailed is returned by check when any directive is invalid.
var ErrCheckFailed = errors.New("directive check failed")

func newCheckCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [path...]",
		Short: "Validate directive comments in Go files",
		Long: `check scans the doc comments of Go functions for directive lines
(@GET /users, @response 200 []User, ...) and reports syntax errors and
unknown directives. Paths may be .go files or directories (default: .).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runCheck(cmd.OutOrStdout(), args)
		},
	}
}

func runCheck(w io.Writer, paths []string) error {
	var (
		funcs []*directive.Func
		errs  []error
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return newUsageError(err.Error())
		}

		var found []*directive.Func
		if info.IsDir() {
			found, err = directive.ScanDir(p)
		} else {
			found, err = directive.ScanFile(p)
		}
		funcs = append(funcs, found...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	ok := color.New(color.FgGreen).Sprint("ok")
	for _, f := range funcs {
		fmt.Fprintf(w, "%s %s:%d %s (%d directives)\n", ok, f.File, f.Line, f.QualifiedName(), len(f.Directives))
	}

	if len(errs) > 0 {
		bad := color.New(color.FgRed, color.Bold).Sprint("error")
		for _, err := range errs {
			fmt.Fprintf(w, "%s %v\n", bad, err)
		}
		return fmt.Errorf("%w: %w", ErrCheckFailed, errors.Join(errs...))
	}
	return nil
}
