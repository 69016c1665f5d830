package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sir_venger/docgate/internal/config"
	"github.com/sir_venger/docgate/internal/logging"
)

type rootFlags struct {
	configPath string
	listenAddr string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "gateway",
		Short:         "Document conversion gateway: upload, delegate to the converter, download",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := flags.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to YAML config (default: $CONFIG_PATH or ./config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.listenAddr, "listen", "", "listen address, overrides listen_addr")

	cmd.AddCommand(newGCCmd(flags))

	return cmd
}

// load читает конфиг с учётом флагов и собирает логгер. Ошибку конфига пишем сами:
// cobra молчит (SilenceErrors), а логгера ещё нет.
func (f *rootFlags) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := f.config()
	if err != nil {
		boot := logging.New(logging.Config{Format: "console", Output: os.Stderr})
		boot.Error().Err(err).Msg("load config")
		return nil, zerolog.Nop(), err
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, log, nil
}

func (f *rootFlags) config() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if f.listenAddr != "" {
		cfg.ListenAddr = f.listenAddr
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
