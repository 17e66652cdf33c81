// Package gui はGUIを提供します
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

// Default window size constants
const (
	DefaultWindowWidth  = 800
	DefaultWindowHeight = 600
)

// DirectoryValidator は、ディレクトリパスの検証を行うインターフェース
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// DirectorySelector は、Fyneを使用してディレクトリ選択を行う構造体
type DirectorySelector struct {
	validator DirectoryValidator
}

// NewDirectorySelector は、DirectorySelectorの新しいインスタンスを作成します
func NewDirectorySelector(validator DirectoryValidator) *DirectorySelector {
	return &DirectorySelector{
		validator: validator,
	}
}

// SelectDirectory は、Fyneダイアログを使用してディレクトリを選択し、
// 選択されたパスまたはエラーを返します
func (s *DirectorySelector) SelectDirectory(title string) (string, error) {
	done := make(chan struct{})
	var path string
	var resultErr error

	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight))

	d := dialog.NewFolderOpen(func(selectedURI fyne.ListableURI, err error) {
		selected := ""
		if selectedURI != nil {
			selected = selectedURI.Path()
		}
		path, resultErr = s.resolve(selected, selectedURI == nil, err)
		close(done)
	}, w)
	w.SetOnClosed(func() {
		select {
		case <-done:
		default:
			resultErr = fmt.Errorf("ウィンドウが閉じられました")
			close(done)
		}
	})
	d.Show()
	w.Show()

	// イベントループ内で待機するため、a.Run() を実行
	go func() {
		<-done
		a.Quit()
	}()
	a.Run()
	return path, resultErr
}

// resolve は、ダイアログのコールバック結果を検証済みのパスに変換します
func (s *DirectorySelector) resolve(path string, cancelled bool, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("フォルダ選択エラー: %w", err)
	}
	if cancelled {
		return "", fmt.Errorf("ユーザーがキャンセルしました")
	}
	if err := s.validator.ValidateDirectoryPath(path); err != nil {
		return "", fmt.Errorf("パス検証エラー: %w", err)
	}
	return path, nil
}
