package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"finitefield.org/hanko-chrome/internal/chrome/config"
	"finitefield.org/hanko-chrome/internal/chrome/observability"
	"finitefield.org/hanko-chrome/internal/chrome/registry"
)

// app carries the state shared by every subcommand once configuration has
// been loaded.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "chrome",
		Short:         "Serve breadcrumb trails for the console chrome.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./chrome.yaml when present)")
	flags.String("navigation-dir", "", "directory holding bundle navigation files")
	flags.String("routes-file", "", "route table file (default <navigation-dir>/routes.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	bindFlags(a.v, flags, map[string]string{
		"navigation.dir":         "navigation-dir",
		"navigation.routes_file": "routes-file",
		"log.level":              "log-level",
	})

	cmd.AddCommand(newServeCmd(a), newResolveCmd(a), newValidateCmd(a))
	return cmd
}

// bindFlags maps config keys to the flags that override them.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if flag := flags.Lookup(name); flag != nil {
			_ = v.BindPFlag(key, flag)
		}
	}
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) loader() *registry.Loader {
	return registry.NewLoader(a.cfg.Navigation.Dir, a.cfg.Navigation.RoutesFile)
}

// loadRegistry reads the navigation directory once.
func (a *app) loadRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if _, err := a.loader().LoadInto(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
