package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/store"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List known services",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		services, err := e.db.Services(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading services: %w", err)
		}
		// Nothing imported yet: fall back to the configured list.
		if len(services) == 0 {
			for _, s := range e.cfg.Services {
				services = append(services, store.Service{ID: s.ID, Name: s.Name, PrettyName: s.DisplayName()})
			}
		}

		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), services)
		}
		for _, s := range services {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-20s %s\n", s.ID, s.PrettyName, s.Name)
		}
		return nil
	},
}

func init() {
	servicesCmd.Flags().BoolVar(&flagJSON, "json", false, "print JSON")
	rootCmd.AddCommand(servicesCmd)
}
