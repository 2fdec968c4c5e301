package main

import (
	"github.com/spf13/cobra"

	"github.com/example/go-sentseg/internal/render"
)

func newTokenizeCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Print the token stream of text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, opts, err := analyzeInput(cmd, text)
			if err != nil {
				return err
			}
			return render.WriteTokens(cmd.OutOrStdout(), res, opts)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to tokenize (if empty, read from stdin)")

	return cmd
}
