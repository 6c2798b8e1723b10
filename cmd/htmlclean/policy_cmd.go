package main

import (
	"github.com/njchilds90/htmlclean/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective policy as YAML",
	Long: `Prints the policy sanitize would use, after the policy file and flags are
applied. The output is itself a valid policy file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadPolicy(cmd)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(config.FromPolicy(p)); err != nil {
			return err
		}
		return enc.Close()
	},
}
