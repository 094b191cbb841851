package player

import (
	"github.com/hazadus/ksound/internal/config"
	"github.com/hazadus/ksound/internal/session"
)

// Keymap сопоставляет нажатия клавиш командам сессии
type Keymap struct {
	commands map[string]session.Command

	PlayPause  string
	Next       string
	Prev       string
	VolumeUp   string
	VolumeDown string
	Favorite   string
	Skip       string
	Delete     string
	EditTags   string
	Browse     string
	Quit       string
}

// NewKeymap создает раскладку клавиш из настроек приложения
func NewKeymap(keys config.Keys) Keymap {
	km := Keymap{
		PlayPause:  normalizeKey(keys.PlayPause),
		Next:       normalizeKey(keys.Next),
		Prev:       normalizeKey(keys.Prev),
		VolumeUp:   normalizeKey(keys.VolumeUp),
		VolumeDown: normalizeKey(keys.VolumeDown),
		Favorite:   normalizeKey(keys.Favorite),
		Skip:       normalizeKey(keys.Skip),
		Delete:     normalizeKey(keys.Delete),
		EditTags:   normalizeKey(keys.EditTags),
		Browse:     normalizeKey(keys.Browse),
		Quit:       normalizeKey(keys.Quit),
	}

	km.commands = map[string]session.Command{
		km.PlayPause:  session.CmdPlay,
		km.Next:       session.CmdNext,
		km.Prev:       session.CmdPrev,
		km.VolumeUp:   session.CmdVolumeUp,
		km.VolumeDown: session.CmdVolumeDown,
		km.Favorite:   session.CmdFavorite,
		km.Skip:       session.CmdSkip,
		km.Quit:       session.CmdQuit,
	}
	return km
}

// Lookup возвращает команду сессии для нажатой клавиши
func (km Keymap) Lookup(key string) (session.Command, bool) {
	cmd, ok := km.commands[key]
	return cmd, ok
}

// normalizeKey приводит имя клавиши из конфига к виду,
// в котором Bubble Tea передает нажатия
func normalizeKey(key string) string {
	if key == "space" {
		return " "
	}
	return key
}

// keyLabel возвращает читаемое имя клавиши для справки
func keyLabel(key string) string {
	switch key {
	case " ":
		return "Пробел"
	case "right":
		return "→"
	case "left":
		return "←"
	case "up":
		return "↑"
	case "down":
		return "↓"
	default:
		return key
	}
}
