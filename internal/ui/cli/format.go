package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mjson5/internal/core/ports"
)

func (s *session) runFormat(cmd *cobra.Command, args []string) error {
	app, err := s.newApp()
	if err != nil {
		return err
	}
	svc := app.FormatService()
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if s.opts.stdin {
		if len(args) > 0 {
			return usageError(fmt.Errorf("--stdin does not take file arguments"))
		}
		formatted, changed, err := svc.FormatReader(ctx, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if s.opts.check {
			if changed {
				fmt.Fprintln(errOut, failedStyle.Render(markFail), "<stdin>")
				return errReported
			}
			return nil
		}
		_, err = io.WriteString(out, formatted)
		return err
	}

	mode := ports.ModeStdout
	switch {
	case s.opts.check:
		mode = ports.ModeCheck
	case s.opts.write:
		mode = ports.ModeWrite
	}
	summary, err := svc.Run(ctx, ports.FormatRequest{Paths: args, Mode: mode})
	if err != nil {
		return err
	}

	for _, r := range summary.Files {
		if r.Err != nil {
			fmt.Fprintf(errOut, "%s %s: %v\n", failedStyle.Render(markFail), r.Path, r.Err)
			continue
		}
		switch mode {
		case ports.ModeStdout:
			if _, err := io.WriteString(out, r.Output); err != nil {
				return err
			}
		case ports.ModeCheck:
			if r.Changed {
				fmt.Fprintln(out, changedStyle.Render(markFail), r.Path)
			} else if s.opts.verbose {
				fmt.Fprintln(out, mutedStyle.Render(markOK+" "+r.Path))
			}
		case ports.ModeWrite:
			if r.Changed {
				fmt.Fprintln(out, successStyle.Render(markOK), r.Path)
			} else if s.opts.verbose {
				fmt.Fprintln(out, mutedStyle.Render(markOK+" "+r.Path+" (unchanged)"))
			}
		}
	}

	switch mode {
	case ports.ModeCheck:
		if summary.Changed == 0 && summary.Failed == 0 {
			fmt.Fprintln(out, successStyle.Render(markOK), fmt.Sprintf("All %d files are formatted", summary.Total))
			return nil
		}
		fmt.Fprintln(out, failedStyle.Render(markFail), fmt.Sprintf("%d of %d files need formatting, %d failed", summary.Changed, summary.Total, summary.Failed))
		return errReported
	case ports.ModeWrite:
		fmt.Fprintln(errOut, mutedStyle.Render(fmt.Sprintf("formatted %d files, %d changed, %d failed", summary.Total, summary.Changed, summary.Failed)))
	}
	if summary.Failed > 0 {
		return errReported
	}
	return nil
}
