package main

import (
	"github.com/spf13/cobra"

	"github.com/example/go-sentseg/internal/render"
)

func newSegmentCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Tokenize text and group the tokens into sentences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, opts, err := analyzeInput(cmd, text)
			if err != nil {
				return err
			}
			return render.Write(cmd.OutOrStdout(), res, opts)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to segment (if empty, read from stdin)")

	return cmd
}
