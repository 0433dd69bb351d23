package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/defaults"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/logging"
)

type app struct {
	cfgFile string
	mapping map[string]string
	cfg     config.Config
	logger  *slog.Logger
	catalog *formstate.Catalog
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "formstate",
		Short:         "Fill, validate and inspect declarative forms from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.StringToStringVar(&a.mapping, "defaults-map", nil, "form path to response path mapping for --defaults-url")
	config.RegisterFlags(flags)

	root.AddCommand(
		newFillCommand(a),
		newValidateCommand(a),
		newSchemaCommand(a),
		newDefaultsCommand(a),
		newListCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})

	a.catalog, err = formstate.NewCatalog(formstate.WithDefinitionsDir(cfg.DefinitionsDir))
	if err != nil {
		return err
	}
	return nil
}

// formOptions translates the resolved settings into form options.
func (a *app) formOptions() ([]form.Option, error) {
	mode, ok := form.ParseMode(a.cfg.Mode)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", a.cfg.Mode)
	}
	opts := []form.Option{
		form.WithLogger(a.logger),
		form.WithMode(mode),
		form.WithPayloadSchemaCheck(true),
	}
	if a.cfg.DefaultsURL != "" {
		src := defaults.NewHTTPSource(a.cfg.DefaultsURL,
			defaults.WithTimeout(a.cfg.DefaultsTimeout),
			defaults.WithMapping(a.mapping),
		)
		opts = append(opts, form.WithDefaultsSource(src))
	}
	return opts, nil
}

func (a *app) open(ctx context.Context) (*form.Form, error) {
	opts, err := a.formOptions()
	if err != nil {
		return nil, err
	}
	return a.catalog.Open(ctx, a.cfg.FormID, opts...)
}
