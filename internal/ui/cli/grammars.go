package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mjson5/internal/core/errors"
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/treesitter"
)

func (s *session) newGrammarCmd() *cobra.Command {
	var manifestPath string
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Manage the compiled tree-sitter grammar",
	}
	cmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "grammar manifest (default: grammar.manifest from config)")

	resolve := func() (string, error) {
		if manifestPath != "" {
			return manifestPath, nil
		}
		if s.cfg != nil && s.cfg.Grammar.Manifest != "" {
			return s.cfg.Grammar.Manifest, nil
		}
		return "", usageError(fmt.Errorf("no manifest given, set --manifest or grammar.manifest"))
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check pinned grammar artifacts against their checksums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			return runGrammarVerify(cmd, path)
		},
	}

	var source string
	addCmd := &cobra.Command{
		Use:   "add <shared-object>",
		Short: "Pin a compiled grammar in the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			return runGrammarAdd(cmd, path, args[0], source)
		},
	}
	addCmd.Flags().StringVar(&source, "source", "", "where the grammar was built from")

	cmd.AddCommand(verifyCmd, addCmd)
	return cmd
}

func runGrammarVerify(cmd *cobra.Command, manifestPath string) error {
	manifest, err := treesitter.LoadManifest(manifestPath)
	if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeGrammar, "load grammar manifest"), errors.CtxPath, manifestPath)
	}
	issues, err := treesitter.VerifyArtifacts(filepath.Dir(manifestPath), manifest)
	if err != nil {
		return errors.Wrap(err, errors.CodeGrammar, "verify grammar artifacts")
	}

	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintln(out, successStyle.Render(markOK), fmt.Sprintf("%d grammar artifacts verified", len(manifest.Artifacts)))
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LANGUAGE\tARTIFACT\tREASON")
	for _, issue := range issues {
		fmt.Fprintf(w, "%s\t%s\t%s\n", issue.Language, issue.ArtifactPath, issue.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, failedStyle.Render(markFail), fmt.Sprintf("%d verification issues", len(issues)))
	return errReported
}

func runGrammarAdd(cmd *cobra.Command, manifestPath, soPath, source string) error {
	manifest, err := treesitter.LoadManifest(manifestPath)
	if os.IsNotExist(err) {
		manifest = treesitter.Manifest{Version: 1, AllowedABIVersions: []int{grammar.ABIVersion}}
	} else if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeGrammar, "load grammar manifest"), errors.CtxPath, manifestPath)
	}

	baseDir, err := filepath.Abs(filepath.Dir(manifestPath))
	if err != nil {
		return err
	}
	absSO, err := filepath.Abs(soPath)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(baseDir, absSO)
	if err != nil {
		return fmt.Errorf("shared object %s must be reachable from %s: %w", soPath, baseDir, err)
	}
	if err := manifest.AddArtifact(baseDir, rel, source); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeGrammar, "pin grammar artifact"), errors.CtxPath, soPath)
	}
	if err := manifest.Save(manifestPath); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "write grammar manifest"), errors.CtxPath, manifestPath)
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(markOK), "pinned", rel, "in", manifestPath)
	return nil
}
