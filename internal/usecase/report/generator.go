// Package report は処理結果の出力機能を提供します
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"distprefix/internal/domain/model"
)

const (
	OutputFilePrefix = "distprefix_"
	OutputFileSuffix = ".txt"
	TimestampLayout  = "20060102_150405"
)

// Generator は進捗行と集計レポートを出力します
type Generator struct {
	mu     sync.Mutex
	writer io.Writer
	dryRun bool
}

// NewGenerator は新しい Generator インスタンスを作成します
func NewGenerator(writer io.Writer, dryRun bool) *Generator {
	if writer == nil {
		writer = os.Stdout
	}
	return &Generator{writer: writer, dryRun: dryRun}
}

// status は1ファイル分の状態ラベルを返します
func status(result model.RewriteResult) string {
	switch {
	case result.Written:
		return "更新"
	case result.Changed:
		return "更新予定"
	default:
		return "変更なし"
	}
}

// File は処理したファイルごとに1行出力します
func (g *Generator) File(result model.RewriteResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(g.writer, "%s: %s (%d 件)\n", status(result), result.File.RelPath, result.TotalMatches())
}

// Summary は全体の件数と完了メッセージを出力します
func (g *Generator) Summary(results []model.RewriteResult, prefix string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	WriteSummary(g.writer, results, prefix, g.dryRun)
}

// WriteSummary は集計結果と完了メッセージを書き込みます
func WriteSummary(writer io.Writer, results []model.RewriteResult, prefix string, dryRun bool) {
	var changed, matches int
	var before, after uint64
	for _, r := range results {
		if r.Changed {
			changed++
		}
		matches += r.TotalMatches()
		before += uint64(r.BytesBefore)
		after += uint64(r.BytesAfter)
	}

	fmt.Fprintf(writer, "\n%d 件中 %d 件のファイルで %d 箇所を置換 (%s -> %s)\n",
		len(results), changed, matches, humanize.Bytes(before), humanize.Bytes(after))
	if dryRun {
		fmt.Fprintf(writer, "ドライランのためファイルは変更していません (プレフィックス %s)\n", prefix)
		return
	}
	fmt.Fprintf(writer, "すべての対象ファイルをプレフィックス %s で更新しました\n", prefix)
}

// CreateOutputFile はレポートファイルを作成します
func CreateOutputFile(outputDir string) (*os.File, string, error) {
	timestamp := time.Now().Format(TimestampLayout)
	outputPath := filepath.Join(outputDir, fmt.Sprintf("%s%s%s", OutputFilePrefix, timestamp, OutputFileSuffix))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("出力ファイルの作成に失敗しました: %w", err)
	}

	return outputFile, outputPath, nil
}

// WriteRuleTable は規則ごとの一致件数を一覧で出力します
func WriteRuleTable(writer io.Writer, rules []model.Rule, results []model.RewriteResult) {
	fmt.Fprintln(writer, "===== 置換規則 =====")

	totals := make([]int, len(rules))
	for _, r := range results {
		for i, n := range r.Matches {
			if i < len(totals) {
				totals[i] += n
			}
		}
	}
	for i, rule := range rules {
		fmt.Fprintf(writer, "%s -> %s : %d\n", rule.From, rule.To, totals[i])
	}
}

// WriteFileList はファイルごとの結果を出力します
func WriteFileList(writer io.Writer, results []model.RewriteResult) {
	fmt.Fprintln(writer, "\n===== ファイル =====")

	for _, r := range results {
		fmt.Fprintf(writer, "[%s] %s %v\n", status(r), r.File.RelPath, r.Matches)
	}
}
