package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-sentseg/internal/doctor"
	"github.com/example/go-sentseg/internal/pipeline"
	"github.com/example/go-sentseg/internal/subword"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local configuration and model checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "output format: %s\n", cfg.Output.Format)

			result := doctor.Run(cmd.Context(), doctor.Config{
				ListenAddr:       cfg.Server.ListenAddr,
				SubwordModelPath: cfg.Subword.ModelPath,
				LoadSubword: func(path string) ([]int64, error) {
					enc, err := subword.NewSentencePiece(path, cfg.Subword.Lowercase)
					if err != nil {
						return nil, err
					}
					return enc.Encode("hello")
				},
				Sample:  cfg.Input.Sample,
				Analyze: pipeline.New(pipeline.WithNFC(cfg.Input.NFC)).Run,
			}, out)

			if result.Failed() {
				return errors.New("doctor checks failed")
			}
			return nil
		},
	}

	return cmd
}
