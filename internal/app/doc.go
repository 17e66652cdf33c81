// Package app はCLIのための依存関係を組み立てます。
//
// Config から設定ファイル・環境変数・フラグを統合し、ロガー、スキャナー、
// 書き換え処理、レポート出力を Wire にまとめてコマンドへ提供します。
package app
