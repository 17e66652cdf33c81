// Package commands は distprefix の CLI コマンドを定義します。
//
// ルートコマンドはビルド出力ディレクトリ配下の HTML ファイルにある
// アセット参照 (/_expo/, /favicon) へパスプレフィックスを付与し、
// ファイルを上書きします。
//
//	distprefix ./dist
//	distprefix --prefix /app --dry-run ./dist
//	distprefix --watch ./dist
//	cat index.html | distprefix filter
package commands
