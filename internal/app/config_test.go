package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"distprefix/internal/domain/model"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "distprefix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: dist
prefix: web/
ext: .htm
dry_run: true
rules:
  - from: 'href="/manifest.json'
    to: 'href="/web/manifest.json'
`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, LoadFile(path, &cfg))

	require.Equal(t, filepath.Join(dir, "dist"), cfg.Root)
	require.Equal(t, ".htm", cfg.Extension)
	require.True(t, cfg.DryRun)
	require.Equal(t, "info", cfg.LogLevel)

	rules, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "/web", cfg.Prefix)
	require.Len(t, rules, 4)
	require.Equal(t, model.Rule{From: `src="/_expo/`, To: `src="/web/_expo/`}, rules[0])
	require.Equal(t, model.Rule{From: `href="/manifest.json`, To: `href="/web/manifest.json`}, rules[3])
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rules: [oops"), 0o644))
	require.Error(t, LoadFile(bad, &cfg))
}

func TestConfig_ResolveRoot(t *testing.T) {
	t.Run("引数が優先", func(t *testing.T) {
		t.Setenv(RootEnvVar, "/from/env")
		cfg := DefaultConfig()
		require.NoError(t, cfg.ResolveRoot([]string{"/from/arg"}))
		require.Equal(t, filepath.Clean("/from/arg"), cfg.Root)
	})

	t.Run("環境変数", func(t *testing.T) {
		t.Setenv(RootEnvVar, "/from/env")
		cfg := DefaultConfig()
		require.NoError(t, cfg.ResolveRoot(nil))
		require.Equal(t, filepath.Clean("/from/env"), cfg.Root)
	})

	t.Run("相対パスは絶対パスへ", func(t *testing.T) {
		t.Setenv(RootEnvVar, "")
		cfg := DefaultConfig()
		require.NoError(t, cfg.ResolveRoot([]string{"dist"}))
		require.True(t, filepath.IsAbs(cfg.Root))
	})

	t.Run("未指定", func(t *testing.T) {
		t.Setenv(RootEnvVar, "")
		cfg := DefaultConfig()
		require.NoError(t, cfg.ResolveRoot(nil))
		require.Empty(t, cfg.Root)
	})
}

func TestConfig_ResolveInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Prefix = "/"
	_, err := cfg.Resolve()
	require.Error(t, err)

	tests := []struct {
		name  string
		rules []model.Rule
	}{
		{name: "自身を含む置換", rules: []model.Rule{{From: "a", To: "aa"}}},
		{name: "既定の規則の検索文字列を生成", rules: []model.Rule{{From: `src="/img/`, To: `src="/_expo/img/`}}},
		{name: "縮約で新たに一致", rules: []model.Rule{{From: "ab", To: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Rules = tt.rules
			_, err := cfg.Resolve()
			require.Error(t, err)
		})
	}
}

func TestNewWire(t *testing.T) {
	cfg := DefaultConfig()
	w, err := NewWire(cfg, io.Discard, io.Discard)
	require.NoError(t, err)
	require.Len(t, w.Rewriter.Rules(), 3)
	require.Equal(t, ".html", w.Scanner.Extension())
}
