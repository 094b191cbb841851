package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/config"
	"github.com/hazadus/ksound/internal/player"
	"github.com/hazadus/ksound/internal/session"
	"github.com/hazadus/ksound/internal/tui/browser"
	"github.com/hazadus/ksound/internal/tui/editor"
	tuiPlayer "github.com/hazadus/ksound/internal/tui/player"
)

// stubEngine заглушка движка воспроизведения для тестов интерфейса
type stubEngine struct {
	progress chan player.Status
	done     chan bool
}

func newStubEngine() *stubEngine {
	return &stubEngine{
		progress: make(chan player.Status, 1),
		done:     make(chan bool, 1),
	}
}

func (e *stubEngine) Load(_ catalog.Track) error     { return nil }
func (e *stubEngine) Play()                          {}
func (e *stubEngine) Pause()                         {}
func (e *stubEngine) Stop()                          {}
func (e *stubEngine) SetVolume(_ int)                {}
func (e *stubEngine) Volume() int                    { return 80 }
func (e *stubEngine) Elapsed() time.Duration         { return 0 }
func (e *stubEngine) Duration() time.Duration        { return 0 }
func (e *stubEngine) Progress() <-chan player.Status { return e.progress }
func (e *stubEngine) Done() <-chan bool              { return e.done }

func newTestModel() *MainModel {
	tracks := []catalog.Track{
		{Path: "/music/one.mp3", Artist: "Artist One", Title: "Track One"},
		{Path: "/music/two.mp3", Artist: "Artist Two", Title: "Track Two"},
	}
	sess := session.NewCoordinator(newStubEngine(), catalog.New("", tracks))
	return NewMainModel(sess, config.Default().Keys)
}

func TestMainModelRouting(t *testing.T) {
	model := newTestModel()

	// Проверяем начальное состояние
	if model.currentScreen != PlayerScreen {
		t.Errorf("Ожидался начальный экран PlayerScreen, получен %v", model.currentScreen)
	}

	if model.playerModel == nil {
		t.Error("Модель плеера должна быть инициализирована")
	}

	if model.browserModel != nil {
		t.Error("Модель списка должна быть nil при запуске")
	}

	// Переход к списку треков
	updatedModel, _ := model.Update(tuiPlayer.BrowseRequestedMsg{})
	model = updatedModel.(*MainModel)

	if model.currentScreen != BrowserScreen {
		t.Errorf("Ожидался экран BrowserScreen после BrowseRequestedMsg, получен %v", model.currentScreen)
	}

	if model.browserModel == nil {
		t.Error("Модель списка должна быть инициализирована после перехода")
	}

	// Возврат к плееру
	updatedModel, _ = model.Update(browser.GoBackMsg{})
	model = updatedModel.(*MainModel)

	if model.currentScreen != PlayerScreen {
		t.Errorf("Ожидался экран PlayerScreen после GoBackMsg, получен %v", model.currentScreen)
	}

	if model.browserModel != nil {
		t.Error("Модель списка должна быть nil после возврата")
	}

	// Глобальные горячие клавиши
	ctrlCMsg := tea.KeyMsg{Type: tea.KeyCtrlC}
	_, cmd := model.Update(ctrlCMsg)

	if cmd == nil {
		t.Error("Ожидалась команда tea.Quit после Ctrl+C")
	}
}

func TestMainModelTrackSelection(t *testing.T) {
	model := newTestModel()

	// Переходим к списку и выбираем трек
	updatedModel, _ := model.Update(tuiPlayer.BrowseRequestedMsg{})
	model = updatedModel.(*MainModel)

	updatedModel, _ = model.Update(browser.TrackSelectedMsg{Index: 1})
	model = updatedModel.(*MainModel)

	if model.currentScreen != PlayerScreen {
		t.Errorf("Ожидался возврат к PlayerScreen после выбора трека, получен %v", model.currentScreen)
	}
}

func TestMainModelEditorRouting(t *testing.T) {
	model := newTestModel()

	updatedModel, _ := model.Update(tuiPlayer.EditRequestedMsg{Index: 0})
	model = updatedModel.(*MainModel)

	if model.currentScreen != EditorScreen {
		t.Errorf("Ожидался экран EditorScreen, получен %v", model.currentScreen)
	}

	if model.editorModel == nil {
		t.Fatal("Модель редактора должна быть инициализирована")
	}

	// Возврат из редактора
	updatedModel, _ = model.Update(editor.GoBackMsg{})
	model = updatedModel.(*MainModel)

	if model.currentScreen != PlayerScreen {
		t.Errorf("Ожидался экран PlayerScreen после выхода из редактора, получен %v", model.currentScreen)
	}

	if model.editorModel != nil {
		t.Error("Модель редактора должна быть nil после возврата")
	}
}

func TestMainModelEditorInvalidIndex(t *testing.T) {
	model := newTestModel()

	updatedModel, _ := model.Update(tuiPlayer.EditRequestedMsg{Index: 99})
	model = updatedModel.(*MainModel)

	if model.currentScreen != PlayerScreen {
		t.Error("Недопустимый индекс не должен переключать экран")
	}
}

func TestMainModelView(t *testing.T) {
	model := newTestModel()

	view := model.View()
	if view == "" {
		t.Error("Ожидалось непустое отображение экрана плеера")
	}

	// Состояние с несуществующим экраном
	model.currentScreen = ScreenType(999)
	view = model.View()
	expectedError := "Неизвестный экран"
	if view != expectedError {
		t.Errorf("Ожидалось '%s' для неизвестного экрана, получено '%s'", expectedError, view)
	}
}

func TestMainModelSessionClosed(t *testing.T) {
	model := newTestModel()

	_, cmd := model.Update(tuiPlayer.SessionClosedMsg{})
	if cmd == nil {
		t.Error("Ожидалась команда tea.Quit после закрытия сессии")
	}
}
