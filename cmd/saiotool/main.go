// saiotool converts between flat scene dumps and level/model container files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/saio/internal/config"
	"github.com/Faultbox/saio/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "saiotool",
	Short:         "Convert flat scene dumps to level and model files and back",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		loaded, err := config.Load(config.ConfigPath(flags))
		if err != nil {
			return err
		}
		if err := config.ApplyFlags(loaded, flags); err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		logger.Sugar.Debugf("Config: %+v", cfg)
		return nil
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fileSystem returns an OS filesystem rooted at the directory of path and
// the name of the file inside it.
func fileSystem(path string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return osfs.New(filepath.Dir(abs)), filepath.Base(abs), nil
}
