package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/eurovote/internal/app"
	"github.com/abrezinsky/eurovote/internal/auth"
	"github.com/abrezinsky/eurovote/internal/config"
	"github.com/abrezinsky/eurovote/internal/scoring"
	"github.com/abrezinsky/eurovote/pkg/resultsfeed"
)

func newLeaderboardCmd(rf *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the current leaderboard from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rf)
			if err != nil {
				return err
			}
			a, err := openApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Leaderboard().Compute(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printLeaderboard(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full scored result as JSON")
	return cmd
}

// openApp builds an application for one-shot commands. No server is started.
func openApp(cfg *config.Config, logOut io.Writer) (*app.App, error) {
	log := newLogger(cfg, logOut)
	if log.GetLevel() == slog.LevelInfo {
		log.SetLevel(slog.LevelWarn)
	}
	return app.New(log, cfg, resultsfeed.NewHTTPClient("", log), auth.New(auth.GeneratePassword()))
}

// printLeaderboard writes the scored teams as an aligned table
func printLeaderboard(w io.Writer, result *scoring.Result) error {
	if len(result.Teams) == 0 {
		_, err := fmt.Fprintln(w, "No teams yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RANK\tTEAM\tFOUNDERS\tCATEGORIES\tBONUS\tTOTAL\n")
	for _, st := range result.Teams {
		rank := fmt.Sprintf("%d", st.Rank)
		if st.IsTied {
			rank = "=" + rank
		}
		bonus := fmt.Sprintf("%d", st.BonusPoints)
		if len(st.Bonuses) > 0 {
			names := make([]string, len(st.Bonuses))
			for i, b := range st.Bonuses {
				names[i] = string(b)
			}
			bonus += " (" + strings.Join(names, ", ") + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\n",
			rank, st.Team.Name, st.FounderPoints, st.CategoryPoints, bonus, st.TotalScore)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nProfile: %s\n", result.Profile)
	return err
}
