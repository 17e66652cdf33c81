// package model はドメインモデルを定義します
package model

import "os"

// HTMLFile は書き換え対象となるファイルを表します
type HTMLFile struct {
	// Path はファイルの絶対パスを表します
	Path string
	// RelPath はルートディレクトリからの相対パスを表します
	RelPath string
	// Mode は書き戻し時に維持するパーミッションを表します
	Mode os.FileMode
	// Size は読み込み前のファイルサイズを表します
	Size int64
}

// Rule は1件の文字列置換規則を表します
type Rule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RewriteResult は1ファイル分の書き換え結果を表します
type RewriteResult struct {
	File HTMLFile
	// Matches は規則ごとの一致件数です（Rules と同じ順序）
	Matches []int
	// Changed は内容が変化したかどうかを示します
	Changed bool
	// Written は実際にディスクへ書き戻したかどうかを示します
	Written bool
	// BytesBefore と BytesAfter は書き換え前後のサイズです
	BytesBefore int
	BytesAfter  int
}

// TotalMatches は全規則の一致件数の合計を返します
func (r RewriteResult) TotalMatches() int {
	total := 0
	for _, n := range r.Matches {
		total += n
	}
	return total
}
