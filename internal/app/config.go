package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"distprefix/internal/domain/model"
	"distprefix/internal/infrastructure/filesystem"
)

// RootEnvVar はルートディレクトリを指定する環境変数です
const RootEnvVar = "DISTPREFIX_ROOT"

// Config は実行時の設定を保持します
type Config struct {
	Root      string       `yaml:"root"`      // ビルド出力ディレクトリ
	Prefix    string       `yaml:"prefix"`    // 付与するパスプレフィックス (例: /app)
	Extension string       `yaml:"ext"`       // 対象拡張子 (例: .html)
	Rules     []model.Rule `yaml:"rules"`     // 既定の規則の後に追加する規則
	DryRun    bool         `yaml:"dry_run"`   // true のとき書き戻さない
	LogLevel  string       `yaml:"log_level"` // debug, info, warn, error
	ReportDir string       `yaml:"report_dir"`
}

// DefaultConfig は既定値を設定した Config を返します
func DefaultConfig() Config {
	return Config{
		Prefix:    model.DefaultPrefix,
		Extension: filesystem.DefaultExtension,
		LogLevel:  "info",
	}
}

// LoadFile は YAML 設定ファイルを読み込み、cfg に上書きします
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return nil
}

// ResolveRoot は引数・環境変数・設定ファイルの順でルートを決定し、絶対パスにします
func (c *Config) ResolveRoot(args []string) error {
	switch {
	case len(args) > 0 && args[0] != "":
		c.Root = args[0]
	case os.Getenv(RootEnvVar) != "":
		c.Root = os.Getenv(RootEnvVar)
	}
	if c.Root == "" {
		return nil
	}
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("ルートディレクトリの解決に失敗しました: %w", err)
	}
	c.Root = abs
	return nil
}

// Resolve はプレフィックスを正規化し、適用する規則を返します
func (c *Config) Resolve() ([]model.Rule, error) {
	prefix, err := model.NormalizePrefix(c.Prefix)
	if err != nil {
		return nil, err
	}
	c.Prefix = prefix

	rules := append(model.DefaultRules(prefix), c.Rules...)
	if err := model.ValidateRules(rules); err != nil {
		return nil, err
	}
	return rules, nil
}
