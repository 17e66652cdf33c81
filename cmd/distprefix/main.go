// Package main はアプリケーションのエントリーポイントを提供します
package main

import (
	"os"

	"distprefix/cmd/distprefix/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
