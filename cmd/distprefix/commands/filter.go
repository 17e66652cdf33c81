package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"distprefix/internal/app"
)

func filterCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Rewrite standard input to standard output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			w, err := app.NewWire(cfg, io.Discard, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Logger.Sync()

			if _, err := io.Copy(cmd.OutOrStdout(), w.Rewriter.NewReader(cmd.InOrStdin())); err != nil {
				return fmt.Errorf("標準入力の書き換えに失敗しました: %w", err)
			}
			return nil
		},
	}
}
