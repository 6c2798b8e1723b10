package main

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/njchilds90/htmlclean"
	"github.com/spf13/cobra"
)

// errNoMarkup makes detect exit with status 1 without an error message.
var errNoMarkup = errors.New("no markup detected")

var (
	textCmd = &cobra.Command{
		Use:   "text [FILE...|-]",
		Short: "Print the escaped text content of HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := processInputs(cmd.Context(), cmd, args, func(_ string, data []byte) (string, error) {
				return htmlclean.ExtractTextReader(bytes.NewReader(data))
			})
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), results)
		},
	}

	escapeCmd = &cobra.Command{
		Use:   "escape [FILE...|-]",
		Short: "Escape text so it is inert anywhere in HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := processInputs(cmd.Context(), cmd, args, func(_ string, data []byte) (string, error) {
				return htmlclean.EscapeText(string(data)), nil
			})
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), results)
		},
	}

	detectCmd = &cobra.Command{
		Use:   "detect [FILE...|-]",
		Short: "Report whether input looks like HTML",
		Long:  "Prints true or false for every input and exits with status 1 if any input has no markup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := processInputs(cmd.Context(), cmd, args, func(_ string, data []byte) (string, error) {
				return strconv.FormatBool(htmlclean.LooksLikeHTML(string(data))), nil
			})
			if err != nil {
				return err
			}
			if err := writeResults(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			for _, r := range results {
				if r == "false" {
					return errNoMarkup
				}
			}
			return nil
		},
	}
)
