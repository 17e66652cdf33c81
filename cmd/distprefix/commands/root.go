package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"distprefix/internal/app"
	"distprefix/internal/gui"
	"distprefix/internal/infrastructure/filesystem"
	"distprefix/internal/infrastructure/logging"
	"distprefix/internal/infrastructure/watch"
	"distprefix/internal/interface/ui"
	"distprefix/internal/usecase/report"
)

// options はフラグの値を保持します
type options struct {
	configPath string
	prefix     string
	ext        string
	dryRun     bool
	watch      bool
	logLevel   string
	reportDir  string
	pick       string
}

// Execute はシグナルで中断可能なコンテキストでルートコマンドを実行します
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd はルートコマンドを作成します
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "distprefix [root]",
		Short:        "Prefix asset references in built HTML files",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := cfg.ResolveRoot(args); err != nil {
				return err
			}
			if cfg.Root == "" && opts.pick != "" {
				if cfg.Root, err = pickRoot(opts.pick); err != nil {
					return err
				}
			}
			if cfg.Root == "" {
				return fmt.Errorf("ルートディレクトリを指定してください (引数, %s, --config または --pick)", app.RootEnvVar)
			}
			return run(cmd.Context(), cmd, cfg, opts.watch)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringVar(&opts.prefix, "prefix", "", "path prefix to insert (default /app)")
	flags.StringVar(&opts.ext, "ext", "", "file extension to rewrite (default .html)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report changes without writing files")
	root.Flags().BoolVar(&opts.watch, "watch", false, "keep watching the root and rewrite files as they change")
	root.Flags().StringVar(&opts.reportDir, "report-dir", "", "write a report file into this directory")
	root.Flags().StringVar(&opts.pick, "pick", "", "choose the root interactively: native or fyne")

	root.AddCommand(filterCmd(opts))
	return root
}

// loadConfig は既定値・設定ファイル・フラグの順に設定を重ねます
func loadConfig(cmd *cobra.Command, opts *options) (app.Config, error) {
	cfg := app.DefaultConfig()
	if opts.configPath != "" {
		if err := app.LoadFile(opts.configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("prefix") {
		cfg.Prefix = opts.prefix
	}
	if flags.Changed("ext") {
		cfg.Extension = opts.ext
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = opts.dryRun
	}
	if flags.Changed("report-dir") {
		cfg.ReportDir = opts.reportDir
	}
	return cfg, nil
}

// pickRoot はダイアログでルートディレクトリを選択させます
func pickRoot(kind string) (string, error) {
	validator := filesystem.NewScanner(logging.Nop{})
	const title = "ビルド出力フォルダを選択"
	switch kind {
	case "native":
		return ui.NewDirectorySelector(validator).SelectDirectory(title)
	case "fyne":
		return gui.NewDirectorySelector(validator).SelectDirectory(title)
	default:
		return "", fmt.Errorf("不明な --pick の値です: %q (native または fyne)", kind)
	}
}

func run(ctx context.Context, cmd *cobra.Command, cfg app.Config, watching bool) error {
	w, err := app.NewWire(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer w.Logger.Sync()

	results, err := w.Rewriter.Run(ctx, cfg.Root)
	if err != nil {
		return err
	}
	w.Report.Summary(results, w.Config.Prefix)

	if w.Config.ReportDir != "" {
		f, path, err := report.CreateOutputFile(w.Config.ReportDir)
		if err != nil {
			return err
		}
		report.WriteRuleTable(f, w.Rewriter.Rules(), results)
		report.WriteFileList(f, results)
		if err := f.Close(); err != nil {
			return fmt.Errorf("レポートの書き込みに失敗しました: %w", err)
		}
		w.Logger.Log("INFO", fmt.Sprintf("レポートを生成しました: %s", path), nil)
	}

	if !watching {
		return nil
	}
	return watch.NewWatcher(cfg.Root, w.Rewriter, w.Scanner, w.Logger).Run(ctx)
}
