// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"distprefix/internal/domain/model"
	"distprefix/internal/infrastructure/logging"
)

const DefaultExtension = ".html"

// DirectoryValidator はディレクトリの検証機能を提供するインターフェースです
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// FileSystemScanner はファイルシステムのスキャン機能を提供するインターフェースです
type FileSystemScanner interface {
	DirectoryValidator
	Scan(ctx context.Context, rootDir string) ([]model.HTMLFile, error)
	ReadText(file model.HTMLFile) ([]byte, error)
	WriteFile(file model.HTMLFile, content []byte) error
}

// Scanner はファイルシステムをスキャンするための構造体です
type Scanner struct {
	logger    logging.Logger
	extension string
}

// Option は Scanner の設定を変更します
type Option func(*Scanner)

// WithExtension は対象とするファイル拡張子を指定します
func WithExtension(ext string) Option {
	return func(s *Scanner) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extension = ext
	}
}

// NewScanner は新しい Scanner インスタンスを作成します
func NewScanner(logger logging.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		logger:    logger,
		extension: DefaultExtension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extension は対象拡張子を返します
func (s *Scanner) Extension() string {
	return s.extension
}

// ValidateDirectoryPath はパスが安全で有効なディレクトリであることを確認します
func (s *Scanner) ValidateDirectoryPath(path string) error {
	if path == "" {
		return fmt.Errorf("ディレクトリパスが指定されていません")
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ディレクトリが存在しません: %w", err)
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("指定されたパスはディレクトリではありません")
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("絶対パスで指定してください")
	}

	if runtime.GOOS == "windows" && strings.ContainsAny(path, "<>|?*") {
		return fmt.Errorf("パスに不正な文字が含まれています")
	}

	return nil
}

// Matches はパスが対象拡張子で終わるかどうかを判定します
func (s *Scanner) Matches(path string) bool {
	return strings.HasSuffix(path, s.extension)
}

// regularFileInfo は通常ファイル、または通常ファイルを指すシンボリックリンクの情報を返します。
// それ以外のエントリでは nil を返します。ディレクトリへのリンクはたどりません。
func (s *Scanner) regularFileInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	switch {
	case d.Type().IsRegular():
		return d.Info()
	case d.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("リンク '%s' の参照先を取得できません: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return info, nil
	default:
		return nil, nil
	}
}

// Scan はルート配下を走査し、対象拡張子の通常ファイルを収集します。
// 走査中のエラーはその時点で処理を中断します。
func (s *Scanner) Scan(ctx context.Context, rootDir string) ([]model.HTMLFile, error) {
	var files []model.HTMLFile

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !s.Matches(d.Name()) {
			return nil
		}

		info, err := s.regularFileInfo(path, d)
		if err != nil {
			return err
		}
		if info == nil {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}

		files = append(files, model.HTMLFile{
			Path:    path,
			RelPath: relPath,
			Mode:    info.Mode().Perm(),
			Size:    info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("ファイルシステムの走査に失敗しました: %w", err)
	}

	s.logger.Log("DEBUG", fmt.Sprintf("%d 件の %s ファイルを検出しました: %s", len(files), s.extension, rootDir), nil)
	return files, nil
}

// ReadText はファイルを読み込み、UTF-8テキストであることを確認します
func (s *Scanner) ReadText(file model.HTMLFile) ([]byte, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("ファイル '%s' の読み込みに失敗: %w", file.Path, err)
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("ファイル '%s' は UTF-8 として解釈できません", file.Path)
	}

	return content, nil
}

// WriteFile は内容を元のパーミッションのまま上書きします
func (s *Scanner) WriteFile(file model.HTMLFile, content []byte) error {
	mode := file.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(file.Path, content, mode); err != nil {
		return fmt.Errorf("ファイル '%s' の書き込みに失敗: %w", file.Path, err)
	}
	return nil
}
