package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/njchilds90/htmlclean"
	"github.com/njchilds90/htmlclean/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	debug        bool
	linkRel      string
	noLinkRel    bool
	keepComments bool
	cleanContent []string

	environ config.Env

	rootCmd = &cobra.Command{
		Use:   "htmlclean",
		Short: "Sanitize untrusted HTML",
		Long: `htmlclean removes scripts, event handlers, dangerous URLs and any markup
not allowed by a policy from HTML fragments, keeping the formatting that is.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			if environ, err = config.LoadEnv(nil); err != nil {
				return err
			}
			return setupLog(environ, debug || environ.Debug)
		},
	}
)

// loadPolicy builds the policy for this run: the policy file from
// --config, $HTMLCLEAN_POLICY or the user config directory, then the
// command-line overrides.
func loadPolicy(cmd *cobra.Command) (*htmlclean.Policy, error) {
	path := configFile
	if path == "" {
		path = environ.Policy
	}
	if path == "" {
		path, _ = config.Find()
	}

	p := htmlclean.DefaultPolicy()
	if path != "" {
		f, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		if p, err = f.Policy(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		log.Debug("Using policy file", "path", path)
	}

	if cmd.Flags().Changed("link-rel") {
		p.LinkRel = linkRel
	}
	if noLinkRel {
		p.LinkRel = ""
	}
	if cmd.Flags().Changed("keep-comments") {
		p.KeepComments = keepComments
	}
	p.CleanContentTags = append(p.CleanContentTags, cleanContent...)
	return p, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeLog()
	if err != nil {
		if !errors.Is(err, errNoMarkup) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("policy file (default %s)", config.DefaultPath()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output")
	rootCmd.PersistentFlags().StringVar(&linkRel, "link-rel", htmlclean.DefaultLinkRel, "rel tokens enforced on links")
	rootCmd.PersistentFlags().BoolVar(&noLinkRel, "no-link-rel", false, "leave rel attributes of links alone")
	rootCmd.PersistentFlags().BoolVar(&keepComments, "keep-comments", false, "keep HTML comments")
	rootCmd.PersistentFlags().StringSliceVar(&cleanContent, "clean-content", nil, "tags removed together with their content")

	rootCmd.AddCommand(sanitizeCmd, textCmd, escapeCmd, detectCmd, policyCmd)
}
