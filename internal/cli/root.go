package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/depselect/pkg/clientip"
	"github.com/dmitrymomot/depselect/pkg/config"
	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/requestid"
)

// RootOptions holds global flags and the state prepared before any command runs.
type RootOptions struct {
	Format string // "text" | "json"

	env    map[string]string
	Config AppConfig
	Log    *slog.Logger
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the depselect command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

// newRootCommand reads configuration from env instead of the process
// environment when env is not nil.
func newRootCommand(env map[string]string) *cobra.Command {
	opts := &RootOptions{env: env}

	cmd := &cobra.Command{
		Use:   "depselect",
		Short: "Dependent category selection service",
		Long: `depselect serves a category/subcategory selection form whose
subcategory list is loaded for the selected category.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if err := load(opts, &opts.Config); err != nil {
				return err
			}
			return opts.setupLogger(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewSubCategoriesCommand(opts))

	return cmd
}

// load parses environment variables into v.
func load[T any](o *RootOptions, v *T) error {
	var cfgOpts []config.Option
	if o.env != nil {
		cfgOpts = append(cfgOpts, config.WithEnvironment(o.env))
	}
	return config.Load(v, cfgOpts...)
}

func (o *RootOptions) setupLogger(cmd *cobra.Command) error {
	lopts := []logger.Option{
		logger.WithEnvironment(o.Config.Env, o.Config.Service),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if o.Config.LogLevel != "" {
		lvl, err := logger.ParseLevel(o.Config.LogLevel)
		if err != nil {
			return err
		}
		lopts = append(lopts, logger.WithLevel(lvl))
	}
	o.Log = logger.New(lopts...)
	return nil
}
