package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"launchdash"
	"launchdash/internal/logging"
)

func (c *cli) newOptionsCmd() *cobra.Command {
	var withProfile bool
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the dropdown and slider options derived from the dataset as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log, cmd.ErrOrStderr())
			table, err := loadTable(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			var out any = launchdash.DeriveOptions(table)
			if withProfile {
				out = struct {
					Options launchdash.Options      `json:"options"`
					Profile launchdash.TableProfile `json:"profile"`
				}{launchdash.DeriveOptions(table), launchdash.Profile(table)}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&withProfile, "profile", false, "Include a per-column profile of the dataset")
	return cmd
}
