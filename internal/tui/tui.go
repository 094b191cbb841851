// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hazadus/ksound/internal/config"
	"github.com/hazadus/ksound/internal/session"
	"github.com/hazadus/ksound/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	session *session.Coordinator
	keys    config.Keys
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(sess *session.Coordinator, keys config.Keys) *App {
	return &App{
		session: sess,
		keys:    keys,
	}
}

// Run запускает TUI приложение и блокируется до выхода
func (tuiApp *App) Run() error {
	model := app.NewMainModel(tuiApp.session, tuiApp.keys)

	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err := p.Run()

	// Завершаем сессию, если интерфейс закрылся первым
	tuiApp.session.Dispatch(session.CmdQuit)
	<-tuiApp.session.Done()

	return err
}
