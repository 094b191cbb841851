// Package browser содержит модель экрана списка треков для TUI
package browser

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

// TrackSelectedMsg отправляется при выборе трека для воспроизведения
type TrackSelectedMsg struct {
	Index int
}

// GoBackMsg отправляется для возврата к экрану плеера
type GoBackMsg struct{}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	index int
	track catalog.Track
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.track.Artist, i.track.Title)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%-4d %-2s %-25s %-45s %s",
		i.index+1,
		trackMarkers(i.track),
		utils.TruncateString(i.track.Artist, 25),
		utils.TruncateString(i.track.Title, 45),
		trackSize(i.track))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// trackMarkers возвращает пометки избранного и пропуска
func trackMarkers(t catalog.Track) string {
	switch {
	case t.Favorite && t.Skip:
		return "★⏭"
	case t.Favorite:
		return "★"
	case t.Skip:
		return "⏭"
	default:
		return ""
	}
}

// trackSize возвращает размер файла или пометку потока
func trackSize(t catalog.Track) string {
	if t.IsRemote() {
		return "поток"
	}
	return utils.FormatFileSize(t.Size)
}

// Model представляет модель экрана списка треков
type Model struct {
	list list.Model
}

// NewModel создает новую модель списка треков
func NewModel(tracks []catalog.Track, cursor int) *Model {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{index: i, track: t}
	}

	l := list.New(items, trackItemDelegate{}, 0, 0)
	l.Title = "Треки"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	// Ставим курсор списка на текущий трек
	if cursor >= 0 && cursor < len(items) {
		l.Select(cursor)
	}

	return &Model{list: l}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4) // Оставляем место для заголовка и справки
		return m, nil

	case tea.KeyMsg:
		// Во время фильтрации клавиши обрабатывает сам список
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "esc", "b":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "enter":
			selectedItem := m.list.SelectedItem()
			if selectedItem != nil {
				if item, ok := selectedItem.(trackItem); ok {
					return m, func() tea.Msg {
						return TrackSelectedMsg{Index: item.index}
					}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	view := m.list.View()
	extraHelp := helpStyle.Render("Enter: воспроизвести • Esc: назад к плееру")
	return view + "\n" + extraHelp
}
