// Package rewrite はビルド成果物内のアセット参照を書き換える機能を提供します
package rewrite

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/icholy/replace"
	"golang.org/x/text/transform"

	"distprefix/internal/domain/model"
	"distprefix/internal/infrastructure/filesystem"
	"distprefix/internal/infrastructure/logging"
)

// Progress は1ファイル処理するごとに通知を受け取ります
type Progress interface {
	File(result model.RewriteResult)
}

// Config は Rewriter の動作設定です
type Config struct {
	Rules  []model.Rule
	DryRun bool
}

// Rewriter は置換規則をファイルへ適用します
type Rewriter struct {
	files    filesystem.FileSystemScanner
	logger   logging.Logger
	progress Progress
	rules    []model.Rule
	dryRun   bool
}

// NewRewriter は新しい Rewriter を作成します
func NewRewriter(files filesystem.FileSystemScanner, logger logging.Logger, progress Progress, cfg Config) (*Rewriter, error) {
	if err := model.ValidateRules(cfg.Rules); err != nil {
		return nil, fmt.Errorf("置換規則が不正です: %w", err)
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Rewriter{
		files:    files,
		logger:   logger,
		progress: progress,
		rules:    append([]model.Rule(nil), cfg.Rules...),
		dryRun:   cfg.DryRun,
	}, nil
}

// Rules は適用する規則を返します
func (r *Rewriter) Rules() []model.Rule {
	return r.rules
}

// Apply は規則を順番に適用した内容と、規則ごとの一致件数を返します。
// 各規則は前の規則の適用結果に対して評価されます。
func (r *Rewriter) Apply(content []byte) ([]byte, []int, error) {
	counts := make([]int, len(r.rules))
	out := content
	for i, rule := range r.rules {
		from := []byte(rule.From)
		counts[i] = bytes.Count(out, from)
		if counts[i] == 0 {
			continue
		}
		next, _, err := transform.Bytes(replace.Bytes(from, []byte(rule.To)), out)
		if err != nil {
			return nil, nil, fmt.Errorf("規則 %q の適用に失敗しました: %w", rule.From, err)
		}
		out = next
	}
	return out, counts, nil
}

// NewReader は r を読み進めながら規則を適用する Reader を返します
func (r *Rewriter) NewReader(src io.Reader) io.Reader {
	ts := make([]transform.Transformer, 0, len(r.rules))
	for _, rule := range r.rules {
		ts = append(ts, replace.String(rule.From, rule.To))
	}
	return replace.Chain(src, ts...)
}

// RewriteFile は1ファイルを読み込み、規則を適用して上書きします。
// 内容が変化しない場合は書き戻しを行いません。
func (r *Rewriter) RewriteFile(ctx context.Context, file model.HTMLFile) (model.RewriteResult, error) {
	result := model.RewriteResult{File: file}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	content, err := r.files.ReadText(file)
	if err != nil {
		return result, err
	}

	out, counts, err := r.Apply(content)
	if err != nil {
		return result, fmt.Errorf("%s: %w", file.RelPath, err)
	}

	result.Matches = counts
	result.BytesBefore = len(content)
	result.BytesAfter = len(out)
	result.Changed = !bytes.Equal(content, out)

	if result.Changed && !r.dryRun {
		if err := r.files.WriteFile(file, out); err != nil {
			return result, err
		}
		result.Written = true
	}

	r.logger.Log("DEBUG", fmt.Sprintf("%s: %d 件置換 (changed=%t, written=%t)",
		file.RelPath, result.TotalMatches(), result.Changed, result.Written), nil)

	if r.progress != nil {
		r.progress.File(result)
	}
	return result, nil
}

// Run はルート配下の対象ファイルすべてに規則を適用します。
// 最初に発生したエラーで処理を中断します。
func (r *Rewriter) Run(ctx context.Context, rootDir string) ([]model.RewriteResult, error) {
	if err := r.files.ValidateDirectoryPath(rootDir); err != nil {
		return nil, fmt.Errorf("ルートディレクトリが無効です: %w", err)
	}

	files, err := r.files.Scan(ctx, rootDir)
	if err != nil {
		return nil, err
	}
	r.logger.Log("INFO", fmt.Sprintf("%d 件のファイルを処理します: %s", len(files), rootDir), nil)

	results := make([]model.RewriteResult, 0, len(files))
	for _, file := range files {
		result, err := r.RewriteFile(ctx, file)
		if err != nil {
			r.logger.Log("ERROR", fmt.Sprintf("ファイル '%s' の書き換えに失敗", file.Path), err)
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}
