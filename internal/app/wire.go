package app

import (
	"io"

	"distprefix/internal/infrastructure/filesystem"
	"distprefix/internal/infrastructure/logging"
	"distprefix/internal/usecase/report"
	"distprefix/internal/usecase/rewrite"
)

// Wire はコマンドが使用する部品をまとめます
type Wire struct {
	Config   Config
	Logger   *logging.JSONLogger
	Scanner  *filesystem.Scanner
	Report   *report.Generator
	Rewriter *rewrite.Rewriter
}

// NewWire は cfg から依存関係を構築します。
// stdout には進捗行を、stderr には構造化ログを出力します。
func NewWire(cfg Config, stdout, stderr io.Writer) (*Wire, error) {
	rules, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	logger := logging.NewJSONLoggerWithLevel(stderr, logging.ParseLevel(cfg.LogLevel))
	scanner := filesystem.NewScanner(logger, filesystem.WithExtension(cfg.Extension))
	gen := report.NewGenerator(stdout, cfg.DryRun)

	rw, err := rewrite.NewRewriter(scanner, logger, gen, rewrite.Config{
		Rules:  rules,
		DryRun: cfg.DryRun,
	})
	if err != nil {
		return nil, err
	}

	return &Wire{
		Config:   cfg,
		Logger:   logger,
		Scanner:  scanner,
		Report:   gen,
		Rewriter: rw,
	}, nil
}
