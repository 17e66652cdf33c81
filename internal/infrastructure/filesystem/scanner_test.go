package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"distprefix/internal/domain/model"
)

type mockLogger struct {
	logs []struct {
		level   string
		message string
		err     error
	}
}

func (m *mockLogger) Log(level, message string, err error) {
	m.logs = append(m.logs, struct {
		level   string
		message string
		err     error
	}{level, message, err})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanner_ValidateDirectoryPath(t *testing.T) {
	scanner := NewScanner(&mockLogger{})

	tempDir := t.TempDir()
	plainFile := filepath.Join(tempDir, "file.txt")
	writeFile(t, plainFile, "x")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "有効なディレクトリパス",
			path:    tempDir,
			wantErr: false,
		},
		{
			name:    "空のパス",
			path:    "",
			wantErr: true,
		},
		{
			name:    "存在しないパス",
			path:    filepath.Join(tempDir, "notexist"),
			wantErr: true,
		},
		{
			name:    "ファイルパス",
			path:    plainFile,
			wantErr: true,
		},
		{
			name:    "不正な文字を含むパス",
			path:    filepath.Join(tempDir, "test<>|?*"),
			wantErr: true,
		},
	}

	if runtime.GOOS != "windows" {
		special := filepath.Join(tempDir, "a?b")
		require.NoError(t, os.Mkdir(special, 0o755))
		tests = append(tests, struct {
			name    string
			path    string
			wantErr bool
		}{name: "Windows以外で有効な記号を含むパス", path: special, wantErr: false})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scanner.ValidateDirectoryPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirectoryPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	scanner := NewScanner(&mockLogger{})

	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(tempDir, "nested", "deep", "about.html"), "<html></html>")
	writeFile(t, filepath.Join(tempDir, "_expo", "bundle.js"), "console.log(1)")
	writeFile(t, filepath.Join(tempDir, "notes.html.bak"), "old")
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "dir.html"), 0o755))

	files, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, f.RelPath)
		require.True(t, filepath.IsAbs(f.Path))
		require.Equal(t, os.FileMode(0o644), f.Mode)
	}
	require.Equal(t, []string{
		"index.html",
		filepath.Join("nested", "deep", "about.html"),
	}, rel)
}

func TestScanner_ScanSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("シンボリックリンクの作成に権限が必要")
	}
	scanner := NewScanner(&mockLogger{})

	tempDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.html")
	writeFile(t, target, "<html></html>")
	require.NoError(t, os.Symlink(target, filepath.Join(tempDir, "link.html")))

	linkedDir := t.TempDir()
	writeFile(t, filepath.Join(linkedDir, "inner.html"), "<html></html>")
	require.NoError(t, os.Symlink(linkedDir, filepath.Join(tempDir, "linkdir.html")))

	files, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "link.html", files[0].RelPath)
	require.Equal(t, os.FileMode(0o644), files[0].Mode)

	require.NoError(t, os.Symlink(filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "broken.html")))
	_, err = scanner.Scan(context.Background(), tempDir)
	require.Error(t, err)
}

func TestScanner_ScanWithExtension(t *testing.T) {
	scanner := NewScanner(&mockLogger{}, WithExtension("htm"))
	require.Equal(t, ".htm", scanner.Extension())

	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.htm"), "")
	writeFile(t, filepath.Join(tempDir, "b.html"), "")

	files, err := scanner.Scan(context.Background(), tempDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "a.htm", files[0].RelPath)
}

func TestScanner_ScanMissingRoot(t *testing.T) {
	scanner := NewScanner(&mockLogger{})

	_, err := scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestScanner_ScanCancelled(t *testing.T) {
	scanner := NewScanner(&mockLogger{})
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "index.html"), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanner.Scan(ctx, tempDir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestScanner_ReadText(t *testing.T) {
	scanner := NewScanner(&mockLogger{})
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
		wantErr bool
	}{
		{name: "テキストファイル", content: []byte("<p>こんにちは</p>\n")},
		{name: "空のファイル", content: []byte{}},
		{name: "NULLを含むファイル", content: []byte{0x3c, 0x00, 0x3e}},
		{name: "制御文字を含むファイル", content: []byte("<p>\x07bell</p><script src=\"/_expo/a.js\">")},
		{name: "不正なUTF-8", content: []byte{0x3c, 0xff, 0xfe, 0x3e}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, "f.html")
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))

			got, err := scanner.ReadText(model.HTMLFile{Path: path})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.content, got)
		})
	}
}

func TestScanner_WriteFileKeepsMode(t *testing.T) {
	scanner := NewScanner(&mockLogger{})
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, scanner.WriteFile(model.HTMLFile{Path: path, Mode: 0o600}, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
