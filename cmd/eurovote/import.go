package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newImportNationsCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import-nations <file.yaml>",
		Short: "Create or update nations from a YAML file (\"-\" reads stdin)",
		Example: `  eurovote import-nations final-2025.yaml

  # final-2025.yaml
  nations:
    - name: Sweden
      country_code: SE
      artist: KAJ
      song: Bara bada bastu
      running_order: 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, rf)
			if err != nil {
				return err
			}
			a, err := openApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Nations().ImportNations(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported nations: %d created, %d updated\n", result.Created, result.Updated)
			return nil
		},
	}
}

// readInput reads a named file, or stdin for "-"
func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
