package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/njchilds90/htmlclean"
	"github.com/njchilds90/htmlclean/markdown"
	"github.com/spf13/cobra"
)

var (
	fromMarkdown bool
	outputFile   string
	watchInputs  bool

	sanitizeCmd = &cobra.Command{
		Use:   "sanitize [FILE...|-]",
		Short: "Sanitize HTML files or stdin",
		Example: `  htmlclean sanitize comment.html
  curl -s https://example.com | htmlclean sanitize --clean-content script,style
  htmlclean sanitize --markdown README.md -o README.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchInputs {
				return runWatch(cmd, args)
			}
			return runSanitize(cmd.Context(), cmd, args)
		},
	}
)

func runSanitize(ctx context.Context, cmd *cobra.Command, args []string) error {
	p, err := loadPolicy(cmd)
	if err != nil {
		return err
	}
	s := htmlclean.New(p)

	fn := func(_ string, data []byte) (string, error) {
		return s.SanitizeReader(bytes.NewReader(data))
	}
	if fromMarkdown {
		md := markdown.New(s)
		fn = func(_ string, data []byte) (string, error) {
			return md.Render(data)
		}
	}

	results, err := processInputs(ctx, cmd, args, fn)
	if err != nil {
		return err
	}
	if outputFile == "" {
		return writeResults(cmd.OutOrStdout(), results)
	}

	var buf bytes.Buffer
	if err := writeResults(&buf, results); err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Debug("Wrote output", "path", outputFile)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || len(args) == 1 && args[0] == "-" {
		return errors.New("--watch needs files to watch")
	}
	paths := args
	if configFile != "" {
		paths = append(paths[:len(paths):len(paths)], configFile)
	}
	run := func() error {
		return runSanitize(cmd.Context(), cmd, args)
	}
	if err := run(); err != nil {
		log.Error("Sanitize failed", "err", err)
	}
	return watch(cmd.Context(), paths, run)
}

func init() {
	sanitizeCmd.Flags().BoolVarP(&fromMarkdown, "markdown", "m", false, "treat input as Markdown and sanitize the rendered HTML")
	sanitizeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write output to a file instead of stdout")
	sanitizeCmd.Flags().BoolVarP(&watchInputs, "watch", "w", false, "sanitize again whenever an input or the policy file changes")
}
