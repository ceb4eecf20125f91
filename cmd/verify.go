package cmd

import (
	"context"
	"errors"
	"fmt"

	"ghost-publisher/internal/ghost"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the configured Ghost site accepts the Admin API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		creds := cfg.Credentials()
		if !creds.Complete() {
			return errors.New("ghost config missing: set ghost.site_url and ghost.admin_api_key in config.yaml")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GhostTimeout())
		defer cancel()

		ok, err := ghost.New(creds, cfg.GhostTimeout()).VerifyConnection(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("ghost connection could not be verified")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", creds.SiteURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
