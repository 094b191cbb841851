// Package session связывает каталог, плеер и интерфейс в единый цикл воспроизведения
package session

import (
	"time"

	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/metadata"
	"github.com/hazadus/ksound/internal/player"
)

// Command представляет намерение пользователя
type Command int

// Команды, принимаемые координатором
const (
	CmdPlay Command = iota
	CmdPause
	CmdNext
	CmdPrev
	CmdVolumeUp
	CmdVolumeDown
	CmdFavorite
	CmdSkip
	CmdDelete
	CmdQuit
)

// State представляет состояние сессии воспроизведения
type State int

// Состояния сессии
const (
	// StateIdle - сессия запущена, воспроизведение еще не начиналось
	StateIdle State = iota
	// StatePlaying - трек воспроизводится
	StatePlaying
	// StatePaused - трек на паузе
	StatePaused
	// StateStopped - воспроизведение остановлено (каталог пуст или исчерпан)
	StateStopped
)

// Snapshot читаемая копия состояния сессии для интерфейса
type Snapshot struct {
	State    State
	Track    catalog.Track
	HasTrack bool
	Index    int // Позиция текущего трека в каталоге
	Total    int // Количество треков в каталоге
	Elapsed  time.Duration
	Duration time.Duration
	Volume   int
	LastErr  string // Последняя нефатальная ошибка для отображения
}

// Engine описывает возможности движка воспроизведения, необходимые сессии
type Engine interface {
	Load(track catalog.Track) error
	Play()
	Pause()
	Stop()
	SetVolume(level int)
	Volume() int
	Elapsed() time.Duration
	Duration() time.Duration
	Progress() <-chan player.Status
	Done() <-chan bool
}

// внутренние виды команд, дополняющие пользовательские
const (
	cmdSelect Command = iota + 100
	cmdEditTags
)

type request struct {
	cmd   Command
	index int
	meta  metadata.TrackMetadata
}

// Coordinator управляет состоянием воспроизведения.
// Каталог и движок изменяются только из цикла Run: интерфейс общается
// с координатором через канал команд и читает снимки состояния.
type Coordinator struct {
	engine  Engine
	catalog *catalog.Catalog

	requests  chan request
	snapshots chan Snapshot
	done      chan struct{}

	state State
	snap  snapshotStore
}

// NewCoordinator создает координатор сессии
func NewCoordinator(engine Engine, cat *catalog.Catalog) *Coordinator {
	c := &Coordinator{
		engine:    engine,
		catalog:   cat,
		requests:  make(chan request, 16),
		snapshots: make(chan Snapshot, 8),
		done:      make(chan struct{}),
		state:     StateIdle,
	}
	c.publish()
	return c
}

// Dispatch отправляет команду координатору
func (c *Coordinator) Dispatch(cmd Command) {
	select {
	case c.requests <- request{cmd: cmd}:
	case <-c.done:
	}
}

// SelectTrack переключает воспроизведение на трек с указанным индексом
func (c *Coordinator) SelectTrack(index int) {
	select {
	case c.requests <- request{cmd: cmdSelect, index: index}:
	case <-c.done:
	}
}

// EditTags записывает новые метаданные трека в файл и обновляет каталог
func (c *Coordinator) EditTags(index int, meta metadata.TrackMetadata) {
	select {
	case c.requests <- request{cmd: cmdEditTags, index: index, meta: meta}:
	case <-c.done:
	}
}

// Snapshot возвращает текущий снимок состояния сессии
func (c *Coordinator) Snapshot() Snapshot {
	return c.snap.get()
}

// Snapshots возвращает канал с обновлениями снимков состояния
func (c *Coordinator) Snapshots() <-chan Snapshot {
	return c.snapshots
}

// Done возвращает канал, закрываемый при завершении сессии
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Run запускает основной цикл сессии. Блокируется до команды Quit.
func (c *Coordinator) Run() {
	for {
		select {
		case req := <-c.requests:
			if req.cmd == CmdQuit {
				c.quit()
				return
			}
			c.handle(req)

		case <-c.engine.Done():
			c.autoAdvance()

		case status := <-c.engine.Progress():
			c.applyStatus(status)
		}
	}
}

func (c *Coordinator) handle(req request) {
	switch req.cmd {
	case CmdPlay:
		switch c.state {
		case StatePaused:
			c.engine.Play()
			c.state = StatePlaying
			c.publish()
		case StateIdle, StateStopped:
			track, ok := c.catalog.Current()
			c.loadAndPlay(track, ok)
		}

	case CmdPause:
		if c.state == StatePlaying {
			c.engine.Pause()
			c.state = StatePaused
			c.publish()
		}

	case CmdNext:
		track, ok := c.catalog.Next()
		c.loadAndPlay(track, ok)

	case CmdPrev:
		track, ok := c.catalog.Previous()
		c.loadAndPlay(track, ok)

	case CmdVolumeUp:
		c.engine.SetVolume(c.engine.Volume() + player.VolumeStep)
		c.publish()

	case CmdVolumeDown:
		c.engine.SetVolume(c.engine.Volume() - player.VolumeStep)
		c.publish()

	case CmdFavorite:
		c.catalog.ToggleFavorite()
		c.saveFlags()
		c.publish()

	case CmdSkip:
		c.catalog.ToggleSkip()
		c.saveFlags()
		c.publish()

	case CmdDelete:
		c.deleteCurrent()

	case cmdSelect:
		track, ok := c.catalog.JumpTo(req.index)
		c.loadAndPlay(track, ok)

	case cmdEditTags:
		c.editTags(req.index, req.meta)
	}
}

// loadAndPlay загружает трек и начинает воспроизведение.
// При ошибке декодирования переходит к следующему треку: один некорректный
// файл не должен останавливать прослушивание. Количество попыток ограничено
// размером каталога.
func (c *Coordinator) loadAndPlay(track catalog.Track, ok bool) {
	if !ok {
		c.engine.Stop()
		c.state = StateStopped
		c.publish()
		return
	}

	for attempt := 0; attempt < c.catalog.Len(); attempt++ {
		err := c.engine.Load(track)
		if err == nil {
			c.engine.Play()
			c.state = StatePlaying
			c.publish()
			return
		}

		c.snap.setError(err.Error())
		track, ok = c.catalog.Next()
		if !ok {
			break
		}
	}

	// Ни один трек не удалось загрузить
	c.engine.Stop()
	c.state = StateStopped
	c.publish()
}

// autoAdvance обрабатывает естественное завершение трека:
// ровно один переход к следующему треку на один сигнал
func (c *Coordinator) autoAdvance() {
	if c.state != StatePlaying {
		// Сигнал от трека, уже остановленного пользователем
		return
	}

	track, ok := c.catalog.Next()
	c.loadAndPlay(track, ok)
}

// deleteCurrent удаляет текущий трек с диска и из каталога
func (c *Coordinator) deleteCurrent() {
	if _, ok := c.catalog.Current(); !ok {
		return
	}

	wasActive := c.state == StatePlaying || c.state == StatePaused

	// Освобождаем файл перед удалением
	c.engine.Stop()

	if err := c.catalog.RemoveCurrent(); err != nil {
		c.snap.setError(err.Error())
		// Каталог не изменился: восстанавливаем воспроизведение
		if wasActive {
			track, ok := c.catalog.Current()
			c.loadAndPlay(track, ok)
		} else {
			c.publish()
		}
		return
	}

	c.saveFlags()

	track, ok := c.catalog.Current()
	c.loadAndPlay(track, ok)
}

func (c *Coordinator) editTags(index int, meta metadata.TrackMetadata) {
	tracks := c.catalog.Tracks()
	if index < 0 || index >= len(tracks) {
		return
	}

	if err := metadata.WriteTags(tracks[index].Path, meta); err != nil {
		c.snap.setError(err.Error())
		c.publish()
		return
	}

	c.catalog.SetMetadata(index, meta)
	c.publish()
}

func (c *Coordinator) quit() {
	c.engine.Stop()
	c.saveFlags()
	c.state = StateStopped
	c.publish()
	close(c.done)
}

func (c *Coordinator) saveFlags() {
	if err := c.catalog.SaveFlags(); err != nil {
		c.snap.setError(err.Error())
	}
}

// applyStatus обновляет снимок данными от движка воспроизведения
func (c *Coordinator) applyStatus(status player.Status) {
	snap := c.snap.get()
	snap.Elapsed = status.Elapsed
	if status.Total > 0 {
		snap.Duration = status.Total
	}
	snap.Volume = status.Volume
	c.snap.set(snap)
	c.notify(snap)
}

// publish собирает полный снимок текущего состояния и рассылает его
func (c *Coordinator) publish() {
	snap := Snapshot{
		State:   c.state,
		Index:   c.catalog.Cursor(),
		Total:   c.catalog.Len(),
		Elapsed: c.engine.Elapsed(),
		Volume:  c.engine.Volume(),
		LastErr: c.snap.get().LastErr,
	}
	if track, ok := c.catalog.Current(); ok {
		snap.Track = track
		snap.HasTrack = true
	}
	if total := c.engine.Duration(); total > 0 {
		snap.Duration = total
	}

	c.snap.set(snap)
	c.snap.setTracks(c.catalog.Tracks())
	c.notify(snap)
}

func (c *Coordinator) notify(snap Snapshot) {
	select {
	case c.snapshots <- snap:
	default:
		// Интерфейс не успевает, снимок можно запросить напрямую
	}
}

// Tracks возвращает копию списка треков каталога для интерфейса
func (c *Coordinator) Tracks() []catalog.Track {
	return c.snap.getTracks()
}
