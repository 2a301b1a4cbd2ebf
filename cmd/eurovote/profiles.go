package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/eurovote/internal/scoring"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in scoring profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := scoring.List()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range names {
				p, err := scoring.LoadBuiltin(name)
				if err != nil {
					return err
				}
				marker := " "
				if name == scoring.DefaultProfile {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s - %s\n", marker, p.Name, p.Description)
				fmt.Fprintf(w, "    categories: %s\n", joinCategories(p.Categories))
				if len(p.StreakCategories) > 0 {
					fmt.Fprintf(w, "    streak:     %s\n", joinCategories(p.StreakCategories))
				}
				fmt.Fprintf(w, "    founders: %t  sweep: %t\n", p.Founders, p.Sweep)
			}
			return nil
		},
	}
}

func joinCategories(cats []scoring.Category) string {
	if len(cats) == 0 {
		return "none"
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
