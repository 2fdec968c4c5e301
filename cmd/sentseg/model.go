package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-sentseg/internal/config"
	"github.com/example/go-sentseg/internal/model"
)

const defaultModelOut = "models/tokenizer.model"

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Fetch and verify SentencePiece subword models",
	}

	cmd.AddCommand(newModelDownloadCmd())
	cmd.AddCommand(newModelVerifyCmd())

	return cmd
}

func newModelDownloadCmd() *cobra.Command {
	var (
		url      string
		sha      string
		out      string
		token    string
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a subword model and check its sha256",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Subword.ModelPath
			}
			if out == "" {
				out = defaultModelOut
			}

			_, err = model.Download(cmd.Context(), model.DownloadOptions{
				URL:         url,
				SHA256:      sha,
				OutPath:     out,
				Token:       token,
				Stdout:      cmd.OutOrStdout(),
				ProgressBar: progress,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Model URL")
	cmd.Flags().StringVar(&sha, "sha256", "", "Expected sha256 of the model file")
	cmd.Flags().StringVar(&out, "out", "", "Output path (default: subword.model_path or "+defaultModelOut+")")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token for authenticated hosts")
	cmd.Flags().BoolVar(&progress, "progress", false, "Draw a progress bar")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newModelVerifyCmd() *cobra.Command {
	var (
		path string
		sha  string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a model file against a sha256 and load it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Subword.ModelPath
			}
			if path == "" {
				return errors.New("--path or --subword-model-path is required")
			}

			if sha != "" {
				if err := model.Verify(path, sha); err != nil {
					return err
				}
			}

			enc, err := newEncoder(cfgWithModel(cfg, path))
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			ids, err := enc.Encode("hello")
			if err != nil {
				return fmt.Errorf("encode probe: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok %s (%d ids for probe)\n", path, len(ids))
			return err
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Model path (default: subword.model_path)")
	cmd.Flags().StringVar(&sha, "sha256", "", "Expected sha256 of the model file")

	return cmd
}

func cfgWithModel(cfg config.Config, path string) config.Config {
	cfg.Subword.ModelPath = path
	return cfg
}
