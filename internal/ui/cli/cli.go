// Package cli implements the mjson5fmt command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time.
var Version = "0.1.0"

// exitError carries a process exit code through cobra. A nil err means the
// command already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// errReported exits 1 once the command has printed its own diagnostics.
var errReported = &exitError{code: 1}

func usageError(err error) error { return &exitError{code: 2, err: err} }

type rootOptions struct {
	configPath string
	verbose    bool
	check      bool
	write      bool
	stdin      bool
	indentSize int
	tabWidth   int
	useTabs    bool
}

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	return run(context.Background(), args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s := &session{stderr: stderr}
	defer s.close()

	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, failedStyle.Render("Error:"), ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, failedStyle.Render("Error:"), err)
	return 1
}

func newRootCmd(s *session) *cobra.Command {
	opts := &s.opts
	rootCmd := &cobra.Command{
		Use:   "mjson5fmt [files...]",
		Short: "Format mustache_json5 templates",
		Long: `mjson5fmt formats JSON5 documents that embed mustache template tags.

Without files it formats every matching file below the current directory.
Output goes to stdout unless --write or --check is given.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "__complete", "version", "init":
				return nil
			}
			return s.load(cmd)
		},
		RunE:          s.runFormat,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("mjson5fmt {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default: nearest "+configFileHint+")")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pf.IntVar(&opts.indentSize, "indent-size", 0, "spaces per indentation level")
	pf.IntVar(&opts.tabWidth, "tab-width", 0, "display width of a tab")
	pf.BoolVar(&opts.useTabs, "use-tabs", false, "indent with tabs")

	f := rootCmd.Flags()
	f.BoolVar(&opts.check, "check", false, "report files that are not formatted and exit 1")
	f.BoolVarP(&opts.write, "write", "w", false, "rewrite files in place")
	f.BoolVar(&opts.stdin, "stdin", false, "format stdin to stdout")
	rootCmd.MarkFlagsMutuallyExclusive("check", "write")
	rootCmd.MarkFlagsMutuallyExclusive("stdin", "write")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(s.newParseCmd())
	rootCmd.AddCommand(s.newWatchCmd())
	rootCmd.AddCommand(s.newConfigCmd())
	rootCmd.AddCommand(s.newGrammarCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mjson5fmt v%s\n", Version)
		},
	}
}

// flagChanged reports whether name was set on the command line, looking at
// both local and inherited flags.
func flagChanged(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}
