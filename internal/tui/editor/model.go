// Package editor содержит модель экрана редактирования тегов трека для TUI
package editor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/metadata"
	"github.com/hazadus/ksound/internal/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(15)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Margin(1, 0)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

// GoBackMsg отправляется при выходе из редактора
type GoBackMsg struct{}

// fieldType определяет тип поля для редактирования
type fieldType int

const (
	artistField fieldType = iota
	titleField
	albumField
	yearField
	numFields
)

// Model представляет модель экрана редактирования тегов
type Model struct {
	session    *session.Coordinator
	trackIndex int
	track      catalog.Track
	inputs     []textinput.Model
	focusIndex int
	err        string
	success    string
}

// NewModel создает новую модель редактора тегов
func NewModel(sess *session.Coordinator, trackIndex int, track catalog.Track) *Model {
	inputs := make([]textinput.Model, numFields)

	inputs[artistField] = textinput.New()
	inputs[artistField].Placeholder = "Введите исполнителя"
	inputs[artistField].SetValue(track.Artist)
	inputs[artistField].Focus()
	inputs[artistField].PromptStyle = focusedStyle
	inputs[artistField].TextStyle = focusedStyle

	inputs[titleField] = textinput.New()
	inputs[titleField].Placeholder = "Введите название трека"
	inputs[titleField].SetValue(track.Title)

	inputs[albumField] = textinput.New()
	inputs[albumField].Placeholder = "Введите название альбома"
	inputs[albumField].SetValue(track.Album)

	inputs[yearField] = textinput.New()
	inputs[yearField].Placeholder = "Год выпуска"
	inputs[yearField].SetValue(track.Year)

	return &Model{
		session:    sess,
		trackIndex: trackIndex,
		track:      track,
		inputs:     inputs,
		focusIndex: 0,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Отменяем редактирование
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+s":
			return m, m.saveTags()

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				// Enter на кнопке Save
				return m, m.saveTags()
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := 0; i < len(m.inputs); i++ {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
				} else {
					m.inputs[i].Blur()
					m.inputs[i].PromptStyle = blurredStyle
					m.inputs[i].TextStyle = blurredStyle
				}
			}

			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 20
		}
		return m, nil
	}

	// Обновляем активное поле ввода
	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

// saveTags записывает измененные теги трека
func (m *Model) saveTags() tea.Cmd {
	return func() tea.Msg {
		artist := strings.TrimSpace(m.inputs[artistField].Value())
		title := strings.TrimSpace(m.inputs[titleField].Value())
		album := strings.TrimSpace(m.inputs[albumField].Value())
		year := strings.TrimSpace(m.inputs[yearField].Value())

		if artist == "" {
			m.err = "Поле «Исполнитель» не может быть пустым"
			m.success = ""
			return nil
		}

		if title == "" {
			m.err = "Поле «Название» не может быть пустым"
			m.success = ""
			return nil
		}

		if year != "" {
			if _, err := strconv.Atoi(year); err != nil {
				m.err = "Год должен быть числом"
				m.success = ""
				return nil
			}
		}

		meta := metadata.TrackMetadata{
			Artist: artist,
			Title:  title,
			Album:  album,
			Year:   year,
		}

		m.session.EditTags(m.trackIndex, meta)

		m.err = ""
		m.success = "Теги сохранены!"

		// Возвращаемся к плееру через небольшую задержку
		return tea.Tick(time.Second, func(time.Time) tea.Msg {
			return GoBackMsg{}
		})()
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Редактирование тегов: %s", m.track.DisplayName())))
	b.WriteString("\n\n")

	labels := []string{"Исполнитель:", "Название:", "Альбом:", "Год:"}

	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	saveButton := "[ Сохранить ]"
	if m.focusIndex == len(m.inputs) {
		saveButton = focusedStyle.Render(saveButton)
	} else {
		saveButton = blurredStyle.Render(saveButton)
	}
	b.WriteString(saveButton)
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	if m.success != "" {
		b.WriteString(successStyle.Render(m.success))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Tab/Enter: следующее поле • Shift+Tab: предыдущее поле"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Ctrl+S: сохранить • Esc: отмена"))

	return b.String()
}
