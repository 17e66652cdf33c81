// Package watch はビルド出力ディレクトリを監視し、変更されたファイルへ書き換えを再適用します
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"distprefix/internal/domain/model"
	"distprefix/internal/infrastructure/logging"
)

// DefaultDebounce は同一ファイルへの連続イベントをまとめる間隔です
const DefaultDebounce = 200 * time.Millisecond

// FileRewriter は1ファイルの書き換えを行います
type FileRewriter interface {
	RewriteFile(ctx context.Context, file model.HTMLFile) (model.RewriteResult, error)
}

// Matcher は監視対象のファイルかどうかを判定します
type Matcher interface {
	Matches(path string) bool
}

// Watcher はルート配下のディレクトリを再帰的に監視します
type Watcher struct {
	root     string
	rewriter FileRewriter
	matcher  Matcher
	logger   logging.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewWatcher は新しい Watcher を作成します
func NewWatcher(root string, rewriter FileRewriter, matcher Matcher, logger logging.Logger) *Watcher {
	return &Watcher{
		root:     root,
		rewriter: rewriter,
		matcher:  matcher,
		logger:   logger,
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}
}

// Run は ctx がキャンセルされるまで監視を続けます
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("監視の開始に失敗しました: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	w.logger.Log("INFO", fmt.Sprintf("監視を開始しました: %s", w.root), nil)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Log("INFO", "監視を終了しました", nil)
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Log("WARN", "監視中にエラーが発生しました", err)

		case now := <-ticker.C:
			if err := w.flush(ctx, now); err != nil {
				return err
			}
		}
	}
}

// addTree は dir 配下のすべてのディレクトリを監視対象に追加します
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("ディレクトリ '%s' の監視に失敗しました: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, event.Name); err != nil {
				w.logger.Log("WARN", fmt.Sprintf("新しいディレクトリを監視できません: %s", event.Name), err)
			}
			w.enqueueTree(event.Name)
			return
		}
	}

	if w.matcher.Matches(event.Name) {
		w.enqueue(event.Name)
	}
}

// enqueueTree は監視追加前に作成されたファイルを取りこぼさないよう、
// 新しいディレクトリ配下の対象ファイルを登録します
func (w *Watcher) enqueueTree(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && w.matcher.Matches(path) {
			w.enqueue(path)
		}
		return nil
	})
	if err != nil {
		w.logger.Log("WARN", fmt.Sprintf("新しいディレクトリを走査できません: %s", dir), err)
	}
}

func (w *Watcher) enqueue(path string) {
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// flush は debounce 期間を過ぎたファイルを書き換えます。
// 書き換えに失敗した場合は監視を終了します。
func (w *Watcher) flush(ctx context.Context, now time.Time) error {
	w.mu.Lock()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		file, err := w.describe(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if _, err := w.rewriter.RewriteFile(ctx, file); err != nil {
			return fmt.Errorf("ファイル '%s' の書き換えに失敗しました: %w", path, err)
		}
	}
	return nil
}

func (w *Watcher) describe(path string) (model.HTMLFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.HTMLFile{}, err
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return model.HTMLFile{}, err
	}
	return model.HTMLFile{
		Path:    path,
		RelPath: rel,
		Mode:    info.Mode().Perm(),
		Size:    info.Size(),
	}, nil
}
