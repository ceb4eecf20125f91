package cmd

import (
	"encoding/json"

	"ghost-publisher/internal/markdown"
	"ghost-publisher/internal/metadata"

	"github.com/spf13/cobra"
)

var payloadCmd = &cobra.Command{
	Use:   "payload <markdown_path>",
	Short: "Print the resolved Ghost fields of a note as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := markdown.ParseFile(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(metadata.Resolve(doc))
	},
}

func init() {
	rootCmd.AddCommand(payloadCmd)
}
