// Command geogatectl inspects and maintains the stored GeoGate settings
// through the same storage backends the service uses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/PancyStudios/GeoGateGo/pkg/config"
	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"github.com/PancyStudios/GeoGateGo/pkg/settings"
	"github.com/PancyStudios/GeoGateGo/pkg/storage"
	"github.com/spf13/cobra"
)

// opener returns the backend the commands work on
type opener func(ctx context.Context) (storage.Backend, error)

// app is what every command runs against
type app struct {
	backend storage.Backend
	store   *settings.Store
}

func newRootCmd(open opener) *cobra.Command {
	var (
		driver string
		key    string
		a      app
	)

	root := &cobra.Command{
		Use:   "geogatectl",
		Short: "Inspect and maintain GeoGate settings",
		Long: `geogatectl reads and writes the geo-blocking settings document directly
in the configured storage backend (STORAGE_DRIVER), without going through the
admin service. Writes do not notify running services; they see the change on
their next load.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Get().SetOutput(cmd.ErrOrStderr(), false)

			cfg := config.Get()
			if driver != "" {
				cfg.StorageDriver = driver
			}
			if key == "" {
				key = cfg.StorageKey
			}

			backend, err := open(cmd.Context())
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			a.backend = backend
			a.store = settings.New(backend, settings.WithKey(key), settings.WithLatency(0))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.backend == nil {
				return nil
			}
			return a.backend.Close(context.WithoutCancel(cmd.Context()))
		},
	}

	root.PersistentFlags().StringVar(&driver, "driver", "", "storage driver (memory, mongo, redis, postgres); defaults to STORAGE_DRIVER")
	root.PersistentFlags().StringVar(&key, "key", "", "settings key; defaults to STORAGE_KEY")

	root.AddCommand(
		newShowCmd(&a),
		newMigrateCmd(&a),
		newResetCmd(&a),
		newExportCmd(&a),
		newImportCmd(&a),
		newCountriesCmd(&a),
	)
	return root
}

func main() {
	root := newRootCmd(func(ctx context.Context) (storage.Backend, error) {
		return storage.Open(ctx, config.Get())
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
