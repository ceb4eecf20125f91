package cmd

import (
	"fmt"

	"ghost-publisher/internal/ai"
	"ghost-publisher/internal/markdown"
	"ghost-publisher/internal/metadata"

	"github.com/spf13/cobra"
)

var (
	excerptWrite    bool
	excerptLanguage string
)

var excerptCmd = &cobra.Command{
	Use:   "excerpt <markdown_path>",
	Short: "Suggest an excerpt for a note with OpenAI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		sum, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
		if err != nil {
			return err
		}

		store := markdown.NewFileStore()
		doc, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		pl := metadata.Resolve(doc)
		excerpt, err := sum.SuggestExcerpt(cmd.Context(), pl.Title, doc.Body, excerptLanguage)
		if err != nil {
			return err
		}
		if excerpt == "" {
			return fmt.Errorf("no excerpt suggested for %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), excerpt)

		if excerptWrite {
			if err := store.SetExcerpt(cmd.Context(), args[0], excerpt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote ghost.excerpt to %s\n", args[0])
		}
		return nil
	},
}

func init() {
	excerptCmd.Flags().BoolVar(&excerptWrite, "write", false, "store the suggestion as ghost.excerpt in the note")
	excerptCmd.Flags().StringVar(&excerptLanguage, "language", "", "language of the excerpt (default English)")
	rootCmd.AddCommand(excerptCmd)
}
