// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hazadus/ksound/internal/session"
	"github.com/hazadus/ksound/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaa00")).
			Bold(true).
			MarginTop(1)

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffd700"))
)

// SnapshotMsg содержит обновление состояния сессии
type SnapshotMsg struct {
	Snap session.Snapshot
}

// SessionClosedMsg отправляется при завершении сессии
type SessionClosedMsg struct{}

// BrowseRequestedMsg отправляется для перехода к списку треков
type BrowseRequestedMsg struct{}

// EditRequestedMsg отправляется для перехода к редактору тегов
type EditRequestedMsg struct {
	Index int
}

// Model представляет модель экрана воспроизведения
type Model struct {
	session       *session.Coordinator
	keymap        Keymap
	progressBar   progress.Model
	snap          session.Snapshot
	confirmDelete bool
	width         int
	height        int
}

// NewModel создает новую модель плеера
func NewModel(sess *session.Coordinator, keymap Keymap) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		session:     sess,
		keymap:      keymap,
		progressBar: prog,
		snap:        sess.Snapshot(),
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		m.snap = msg.Snap

		var percent float64
		if msg.Snap.Duration > 0 {
			percent = float64(msg.Snap.Elapsed) / float64(msg.Snap.Duration)
		}
		return m, m.progressBar.SetPercent(percent)

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// handleKey обрабатывает нажатие клавиши
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Режим подтверждения удаления: любая клавиша кроме 'y' отменяет
	if m.confirmDelete {
		m.confirmDelete = false
		if key == "y" {
			m.session.Dispatch(session.CmdDelete)
		}
		return m, nil
	}

	switch key {
	case m.keymap.Delete:
		if m.snap.HasTrack {
			m.confirmDelete = true
		}
		return m, nil

	case m.keymap.Browse:
		return m, func() tea.Msg {
			return BrowseRequestedMsg{}
		}

	case m.keymap.EditTags:
		if !m.snap.HasTrack || m.snap.Track.IsRemote() {
			return m, nil
		}
		// Ставим воспроизведение на паузу перед редактированием
		if m.snap.State == session.StatePlaying {
			m.session.Dispatch(session.CmdPause)
		}
		index := m.snap.Index
		return m, func() tea.Msg {
			return EditRequestedMsg{Index: index}
		}
	}

	if cmd, ok := m.keymap.Lookup(key); ok {
		// Клавиша play_pause работает как переключатель
		if cmd == session.CmdPlay && m.snap.State == session.StatePlaying {
			cmd = session.CmdPause
		}
		m.session.Dispatch(cmd)
	}
	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	title := titleStyle.Render("🎵 ksound")

	if !m.snap.HasTrack {
		return fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			title,
			trackInfoStyle.Render("Каталог пуст, нечего воспроизводить"),
			controlsStyle.Render(fmt.Sprintf("%s: выход", keyLabel(m.keymap.Quit))),
		)
	}

	track := m.snap.Track

	// Информация о текущем треке с пометками
	var markers []string
	if track.Favorite {
		markers = append(markers, favoriteStyle.Render("★ избранное"))
	}
	if track.Skip {
		markers = append(markers, "⏭ пропускается")
	}
	markerLine := strings.Join(markers, "  ")

	info := fmt.Sprintf("🎤 %s\n🎵 %s", track.Artist, track.Title)
	if track.Album != "" {
		info += fmt.Sprintf("\n💿 %s", track.Album)
	}
	if markerLine != "" {
		info += "\n" + markerLine
	}
	trackInfo := trackInfoStyle.Render(info)

	statusText := statusStyle.Render(fmt.Sprintf("%s %s", stateIcon(m.snap.State), formatState(m.snap.State)))

	progressView := m.progressBar.View()

	timeText := fmt.Sprintf(
		"%s / %s  •  🔊 %d%%  •  Трек %d из %d",
		utils.FormatDuration(m.snap.Elapsed),
		utils.FormatDuration(m.snap.Duration),
		m.snap.Volume,
		m.snap.Index+1,
		m.snap.Total,
	)

	var bottom string
	switch {
	case m.confirmDelete:
		bottom = confirmStyle.Render(fmt.Sprintf("⚠️  Удалить файл «%s»? (y/n)", track.DisplayName()))
	case m.snap.LastErr != "":
		bottom = errorStyle.Render("❌ " + m.snap.LastErr)
	default:
		bottom = controlsStyle.Render(m.controlsHelp())
	}

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s\n%s\n\n%s",
		title,
		trackInfo,
		statusText,
		progressView,
		timeText,
		bottom,
	)
}

// controlsHelp собирает строку справки из текущей раскладки клавиш
func (m *Model) controlsHelp() string {
	km := m.keymap
	parts := []string{
		fmt.Sprintf("%s: пауза", keyLabel(km.PlayPause)),
		fmt.Sprintf("%s/%s: след./пред.", keyLabel(km.Next), keyLabel(km.Prev)),
		fmt.Sprintf("%s/%s: громкость", keyLabel(km.VolumeUp), keyLabel(km.VolumeDown)),
		fmt.Sprintf("%s: избранное", keyLabel(km.Favorite)),
		fmt.Sprintf("%s: пропуск", keyLabel(km.Skip)),
		fmt.Sprintf("%s: удалить", keyLabel(km.Delete)),
		fmt.Sprintf("%s: теги", keyLabel(km.EditTags)),
		fmt.Sprintf("%s: список", keyLabel(km.Browse)),
		fmt.Sprintf("%s: выход", keyLabel(km.Quit)),
	}
	return strings.Join(parts, " • ")
}

// Вспомогательные функции

func stateIcon(state session.State) string {
	switch state {
	case session.StatePlaying:
		return "▶️"
	case session.StatePaused:
		return "⏸️"
	case session.StateStopped:
		return "⏹️"
	default:
		return "⏺️"
	}
}

func formatState(state session.State) string {
	switch state {
	case session.StatePlaying:
		return "Воспроизведение"
	case session.StatePaused:
		return "Пауза"
	case session.StateStopped:
		return "Остановлено"
	default:
		return "Готов"
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
