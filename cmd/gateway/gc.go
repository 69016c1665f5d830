package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sir_venger/docgate/internal/storage"
)

// newGCCmd: разовый проход janitor'а, например из cron при выключенном фоновом.
func newGCCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Remove stale files from uploads/ and results/ once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := flags.load()
			if err != nil {
				return err
			}

			store, err := storage.New(afero.NewOsFs(), cfg.Storage.Root)
			if err != nil {
				log.Error().Err(err).Msg("open shared storage")
				return err
			}

			rep, err := store.Sweep(storage.SweepPolicy{
				UploadTTL: cfg.Janitor.UploadTTL,
				ResultTTL: cfg.Janitor.ResultTTL,
			})
			if err != nil {
				log.Error().Err(err).Msg("sweep")
				return err
			}

			log.Info().
				Int("removed", rep.Removed).
				Str("freed", humanize.IBytes(uint64(rep.Freed))).
				Msg("sweep done")
			return nil
		},
	}
}
