package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travelmap-service/internal/bootstrap"
)

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "List location countries that match no boundary feature after alias normalization.",
	RunE:  runAliases,
}

func init() {
	rootCmd.AddCommand(aliasesCmd)
}

func runAliases(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	deps, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	st, err := deps.App.Reload(ctx)
	if err != nil {
		return err
	}
	if st.Degraded {
		return fmt.Errorf("aliases: boundaries unavailable from %q", cfg.BoundariesURL)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d aliases, %d countries, %d unmatched\n", deps.App.Aliases().Len(), len(st.Features), len(st.Unmatched))
	for _, name := range st.Unmatched {
		fmt.Fprintln(out, name)
	}
	return nil
}
