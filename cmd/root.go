// Package cmd implements the wadeview command line.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gowade/view/internal/config"
	"github.com/gowade/view/internal/log"
	"github.com/gowade/view/template"
)

var version = "dev"

type app struct {
	root     *cobra.Command
	v        *viper.Viper
	cfgFile  string
	cfg      config.Config
	closeLog func()
}

func newApp() *app {
	a := &app{v: viper.New()}

	a.root = &cobra.Command{
		Use:               "wadeview",
		Short:             "Render view templates and exercise their bindings",
		Long:              `wadeview loads a view template, renders it against a model, applies model changes and dispatches DOM events, then prints the application events and the resulting markup.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	flags := a.root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./"+config.FileName+".yaml)")
	flags.StringP("templates", "t", "", "template directory")
	flags.Bool("debug", false, "write debug logs to log_file")

	_ = a.v.BindPFlag("templates", flags.Lookup("templates"))
	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))

	a.root.AddCommand(a.renderCmd(), a.watchCmd())
	return a
}

func (a *app) initConfig(*cobra.Command, []string) error {
	defaults := config.Defaults()
	a.v.SetDefault("templates", defaults.Templates)
	a.v.SetDefault("debug", defaults.Debug)
	a.v.SetDefault("log_file", defaults.LogFile)
	a.v.SetDefault("cache_ttl", defaults.CacheTTL)

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(config.FileName)
		a.v.SetConfigType("yaml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if a.cfg.Debug {
		closeLog, err := log.Init(a.cfg.LogFile)
		if err != nil {
			return err
		}
		a.closeLog = closeLog
		log.Info(log.CatCLI, "config loaded", "file", a.v.ConfigFileUsed(), "templates", a.cfg.Templates)
	}

	return nil
}

func (a *app) loader() *template.Loader {
	return template.NewLoader(a.cfg.Templates, a.cfg.CacheTTL)
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

// Execute runs the root command
func Execute() error {
	a := newApp()
	defer a.close()
	return a.root.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
