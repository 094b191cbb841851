// Package app содержит основную логику TUI приложения
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hazadus/ksound/internal/config"
	"github.com/hazadus/ksound/internal/session"
	"github.com/hazadus/ksound/internal/tui/browser"
	"github.com/hazadus/ksound/internal/tui/editor"
	tuiPlayer "github.com/hazadus/ksound/internal/tui/player"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// PlayerScreen - экран воспроизведения, основной экран приложения
	PlayerScreen ScreenType = iota
	// BrowserScreen - экран списка треков
	BrowserScreen
	// EditorScreen - экран редактирования тегов
	EditorScreen
)

// MainModel представляет главную модель TUI
type MainModel struct {
	session       *session.Coordinator
	keymap        tuiPlayer.Keymap
	currentScreen ScreenType
	playerModel   *tuiPlayer.Model
	browserModel  *browser.Model
	editorModel   *editor.Model
	width         int
	height        int
}

// NewMainModel создает новую главную модель
func NewMainModel(sess *session.Coordinator, keys config.Keys) *MainModel {
	keymap := tuiPlayer.NewKeymap(keys)

	return &MainModel{
		session:       sess,
		keymap:        keymap,
		currentScreen: PlayerScreen,
		playerModel:   tuiPlayer.NewModel(sess, keymap),
		browserModel:  nil, // Будет создана при переходе к списку
		editorModel:   nil, // Будет создана при редактировании трека
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.playerModel.Init(),
		m.listenForSession(),
	)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		switch msg.String() {
		case "ctrl+c":
			m.session.Dispatch(session.CmdQuit)
			return m, tea.Quit
		}

	case tuiPlayer.SnapshotMsg:
		// Обновления состояния получает плеер, остальные экраны статичны
		updatedModel, playerCmd := m.playerModel.Update(msg)
		if playerModel, ok := updatedModel.(*tuiPlayer.Model); ok {
			m.playerModel = playerModel
		}
		return m, tea.Batch(playerCmd, m.listenForSession())

	case tuiPlayer.SessionClosedMsg:
		return m, tea.Quit

	case tuiPlayer.BrowseRequestedMsg:
		// Переключаемся на экран списка треков
		m.currentScreen = BrowserScreen
		snap := m.session.Snapshot()
		m.browserModel = browser.NewModel(m.session.Tracks(), snap.Index)
		return m, tea.Batch(
			m.browserModel.Init(),
			m.resendWindowSize(),
		)

	case tuiPlayer.EditRequestedMsg:
		// Переключаемся на экран редактирования тегов
		tracks := m.session.Tracks()
		if msg.Index < 0 || msg.Index >= len(tracks) {
			return m, nil
		}
		m.currentScreen = EditorScreen
		m.editorModel = editor.NewModel(m.session, msg.Index, tracks[msg.Index])
		return m, tea.Batch(
			m.editorModel.Init(),
			m.resendWindowSize(),
		)

	case browser.TrackSelectedMsg:
		// Запускаем выбранный трек и возвращаемся к плееру
		m.session.SelectTrack(msg.Index)
		m.currentScreen = PlayerScreen
		m.browserModel = nil
		return m, nil

	case browser.GoBackMsg:
		m.currentScreen = PlayerScreen
		m.browserModel = nil
		return m, nil

	case editor.GoBackMsg:
		m.currentScreen = PlayerScreen
		m.editorModel = nil
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	// Передаем сообщение активной модели
	switch m.currentScreen {
	case PlayerScreen:
		updatedModel, playerCmd := m.playerModel.Update(msg)
		if playerModel, ok := updatedModel.(*tuiPlayer.Model); ok {
			m.playerModel = playerModel
		}
		cmd = playerCmd

	case BrowserScreen:
		if m.browserModel != nil {
			var browserCmd tea.Cmd
			m.browserModel, browserCmd = m.browserModel.Update(msg)
			cmd = browserCmd
		}

	case EditorScreen:
		if m.editorModel != nil {
			var editorCmd tea.Cmd
			m.editorModel, editorCmd = m.editorModel.Update(msg)
			cmd = editorCmd
		}
	}

	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case PlayerScreen:
		return m.playerModel.View()

	case BrowserScreen:
		if m.browserModel != nil {
			return m.browserModel.View()
		}
		return "Ошибка: модель списка не инициализирована"

	case EditorScreen:
		if m.editorModel != nil {
			return m.editorModel.View()
		}
		return "Ошибка: модель редактора не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// listenForSession слушает обновления состояния сессии
func (m *MainModel) listenForSession() tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-m.session.Snapshots():
			return tuiPlayer.SnapshotMsg{Snap: snap}
		case <-m.session.Done():
			return tuiPlayer.SessionClosedMsg{}
		}
	}
}

// resendWindowSize передает новому экрану актуальные размеры окна
func (m *MainModel) resendWindowSize() tea.Cmd {
	if m.width == 0 && m.height == 0 {
		return nil
	}
	width, height := m.width, m.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}
