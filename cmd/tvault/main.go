// cmd/tvault/main.go
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UniBinary/TextVault/internal/apperr"
	"github.com/UniBinary/TextVault/internal/config"
	"github.com/UniBinary/TextVault/internal/fsutil"
	"github.com/UniBinary/TextVault/internal/logging"
	"github.com/UniBinary/TextVault/internal/registry"
	"github.com/UniBinary/TextVault/internal/store"
)

var (
	cfg *config.Config
	log = zap.NewNop()

	baseDirFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "tvault",
	Short: "tvault keeps named vaults of text files with timestamped backups",
	Long: `tvault manages named, switchable vaults of text files. Every file keeps a
history of immutable timestamped backups that can be listed, compared,
recovered and pruned. One vault is current at a time; file commands act on it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if baseDirFlag != "" {
			base, err := fsutil.ExpandHome(baseDirFlag)
			if err != nil {
				return fmt.Errorf("resolving base directory: %w", err)
			}
			cfg.BaseDir = base
		}

		level := cfg.LogLevel
		if verboseFlag {
			level = "debug"
		}
		logger, err := logging.NewLogger(level)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		log = logger.WithInvocationID()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "vault base directory (overrides config and TVAULT_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

func openRegistry() (*registry.Registry, error) {
	return registry.New(cfg.BaseDir, registry.WithLogger(log))
}

// openCurrentStore opens the file store of the current vault. File commands
// cannot run without one selected.
func openCurrentStore() (*store.FileStore, error) {
	reg, err := openRegistry()
	if err != nil {
		return nil, err
	}
	current, err := reg.Current()
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NoVault("no vault selected, run \"tvault vault switch <name>\" first")
	}
	return store.New(current.Path, store.WithLogger(log))
}

func main() {
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
