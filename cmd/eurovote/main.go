package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/eurovote/internal/config"
	"github.com/abrezinsky/eurovote/internal/logger"
)

var version = "dev"

// rootFlags are shared by every subcommand
type rootFlags struct {
	configFile string
}

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"port":           "server.port",
	"base-url":       "server.base_url",
	"db":             "storage.path",
	"admin-password": "admin.password",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"profile":        "scoring.profile",
	"feed-url":       "feed.url",
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "eurovote",
		Short:         "Song contest fantasy league: live voting, fantasy teams and a scored leaderboard",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&f.configFile, "config", "", "YAML config file")
	flags.String("db", "", "SQLite database path (default \"eurovote.db\")")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default \"info\")")
	flags.String("log-format", "", "Log format: text or json (default \"text\")")
	flags.String("profile", "", "Scoring profile (default \"full\")")

	root.AddCommand(
		newServeCmd(f),
		newLeaderboardCmd(f),
		newImportNationsCmd(f),
		newProfilesCmd(),
	)
	return root
}

// loadConfig resolves the configuration from defaults, the config file,
// EUROVOTE_* environment variables and flags set on cmd, in rising priority
func loadConfig(cmd *cobra.Command, f *rootFlags) (*config.Config, error) {
	v, err := config.New(f.configFile)
	if err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, err
		}
	}
	return config.Load(v)
}

func newLogger(cfg *config.Config, w io.Writer) *logger.SlogLogger {
	return logger.NewWithOptions(w, logger.ParseLevel(cfg.Log.Level), logger.ParseFormat(cfg.Log.Format))
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
