package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/player"
)

// fakeEngine имитирует движок воспроизведения без аудио устройства
type fakeEngine struct {
	mutex     sync.Mutex
	loaded    []string        // Пути всех загруженных треков по порядку
	failPaths map[string]bool // Пути, для которых Load возвращает ошибку
	playing   bool
	volume    int

	progressChan chan player.Status
	doneChan     chan bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		failPaths:    make(map[string]bool),
		volume:       80,
		progressChan: make(chan player.Status, 1),
		doneChan:     make(chan bool, 1),
	}
}

func (e *fakeEngine) Load(track catalog.Track) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.failPaths[track.Path] {
		return fmt.Errorf("%w: %s", player.ErrDecode, track.Path)
	}
	e.loaded = append(e.loaded, track.Path)
	e.playing = false
	return nil
}

func (e *fakeEngine) Play() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.playing = true
}

func (e *fakeEngine) Pause() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.playing = false
}

func (e *fakeEngine) Stop() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.playing = false
}

func (e *fakeEngine) SetVolume(level int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	e.volume = level
}

func (e *fakeEngine) Volume() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.volume
}

func (e *fakeEngine) Elapsed() time.Duration         { return 0 }
func (e *fakeEngine) Duration() time.Duration        { return 3 * time.Minute }
func (e *fakeEngine) Progress() <-chan player.Status { return e.progressChan }
func (e *fakeEngine) Done() <-chan bool              { return e.doneChan }

func (e *fakeEngine) loadCount() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.loaded)
}

func (e *fakeEngine) lastLoaded() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if len(e.loaded) == 0 {
		return ""
	}
	return e.loaded[len(e.loaded)-1]
}

// waitFor опрашивает условие, пока оно не выполнится или не истечет таймаут
func waitFor(t *testing.T, message string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Таймаут ожидания: %s", message)
}

func makeCatalog(paths ...string) *catalog.Catalog {
	tracks := make([]catalog.Track, len(paths))
	for i, p := range paths {
		tracks[i] = catalog.Track{Path: p, Title: filepath.Base(p)}
	}
	return catalog.New("", tracks)
}

func startSession(t *testing.T, engine Engine, cat *catalog.Catalog) *Coordinator {
	t.Helper()
	c := NewCoordinator(engine, cat)
	go c.Run()
	t.Cleanup(func() {
		select {
		case <-c.Done():
		default:
			c.Dispatch(CmdQuit)
			<-c.Done()
		}
	})
	return c
}

func TestPlayFromIdle(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3"))

	if c.Snapshot().State != StateIdle {
		t.Errorf("Ожидалось начальное состояние Idle, получено %v", c.Snapshot().State)
	}

	c.Dispatch(CmdPlay)

	waitFor(t, "переход в состояние Playing", func() bool {
		return c.Snapshot().State == StatePlaying
	})

	if engine.lastLoaded() != "/m/a.mp3" {
		t.Errorf("Ожидалась загрузка /m/a.mp3, получено: %s", engine.lastLoaded())
	}
}

func TestPauseAndResume(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3"))

	c.Dispatch(CmdPlay)
	waitFor(t, "состояние Playing", func() bool { return c.Snapshot().State == StatePlaying })

	c.Dispatch(CmdPause)
	waitFor(t, "состояние Paused", func() bool { return c.Snapshot().State == StatePaused })

	c.Dispatch(CmdPlay)
	waitFor(t, "возврат в Playing", func() bool { return c.Snapshot().State == StatePlaying })

	// Повторная загрузка трека не требуется: пауза снимается без Load
	if engine.loadCount() != 1 {
		t.Errorf("Ожидалась одна загрузка трека, получено %d", engine.loadCount())
	}
}

func TestNextAndPrevious(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3", "/m/c.mp3"))

	c.Dispatch(CmdPlay)
	waitFor(t, "загрузка первого трека", func() bool { return engine.loadCount() == 1 })

	c.Dispatch(CmdNext)
	waitFor(t, "загрузка второго трека", func() bool { return engine.lastLoaded() == "/m/b.mp3" })

	c.Dispatch(CmdPrev)
	waitFor(t, "возврат к первому треку", func() bool { return engine.lastLoaded() == "/m/a.mp3" })

	if c.Snapshot().State != StatePlaying {
		t.Errorf("Ожидалось состояние Playing после навигации, получено %v", c.Snapshot().State)
	}
}

func TestFinishedSignalAdvancesExactlyOnce(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3", "/m/c.mp3"))

	c.Dispatch(CmdPlay)
	waitFor(t, "загрузка первого трека", func() bool { return engine.loadCount() == 1 })

	// Сигнал завершения трека
	engine.doneChan <- true

	waitFor(t, "автопереход ко второму треку", func() bool {
		return engine.lastLoaded() == "/m/b.mp3"
	})

	// Ровно один переход: загружено ровно два трека
	time.Sleep(50 * time.Millisecond)
	if engine.loadCount() != 2 {
		t.Errorf("Ожидалось 2 загрузки после одного сигнала, получено %d", engine.loadCount())
	}
}

func TestFinishedSignalIgnoredWhenPaused(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3"))

	c.Dispatch(CmdPlay)
	waitFor(t, "состояние Playing", func() bool { return c.Snapshot().State == StatePlaying })
	c.Dispatch(CmdPause)
	waitFor(t, "состояние Paused", func() bool { return c.Snapshot().State == StatePaused })

	// Устаревший сигнал завершения не должен вызывать автопереход
	engine.doneChan <- true
	time.Sleep(50 * time.Millisecond)

	if engine.loadCount() != 1 {
		t.Errorf("Ожидалась одна загрузка, получено %d", engine.loadCount())
	}
	if c.Snapshot().State != StatePaused {
		t.Errorf("Состояние должно остаться Paused, получено %v", c.Snapshot().State)
	}
}

func TestDecodeErrorAutoAdvances(t *testing.T) {
	engine := newFakeEngine()
	engine.failPaths["/m/a.mp3"] = true
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3"))

	c.Dispatch(CmdPlay)

	// Некорректный трек пропускается, играет следующий
	waitFor(t, "автопереход после ошибки декодирования", func() bool {
		return engine.lastLoaded() == "/m/b.mp3"
	})

	snap := c.Snapshot()
	if snap.State != StatePlaying {
		t.Errorf("Ожидалось состояние Playing, получено %v", snap.State)
	}
	if snap.LastErr == "" {
		t.Error("Ошибка декодирования должна быть отражена в снимке")
	}
}

func TestAllTracksCorruptStopsPlayback(t *testing.T) {
	engine := newFakeEngine()
	engine.failPaths["/m/a.mp3"] = true
	engine.failPaths["/m/b.mp3"] = true
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3"))

	c.Dispatch(CmdPlay)

	waitFor(t, "переход в состояние Stopped", func() bool {
		return c.Snapshot().State == StateStopped
	})
	if engine.loadCount() != 0 {
		t.Errorf("Ни один трек не должен быть загружен, получено %d", engine.loadCount())
	}
}

func TestVolumeCommands(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3"))

	c.Dispatch(CmdVolumeUp)
	waitFor(t, "увеличение громкости", func() bool { return engine.Volume() == 80+player.VolumeStep })

	c.Dispatch(CmdVolumeDown)
	c.Dispatch(CmdVolumeDown)
	waitFor(t, "уменьшение громкости", func() bool { return engine.Volume() == 80-player.VolumeStep })
}

func TestFavoriteAndSkipToggle(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3"))

	c.Dispatch(CmdFavorite)
	waitFor(t, "установка флага избранного", func() bool {
		snap := c.Snapshot()
		return snap.HasTrack && snap.Track.Favorite
	})

	c.Dispatch(CmdFavorite)
	waitFor(t, "снятие флага избранного", func() bool {
		snap := c.Snapshot()
		return snap.HasTrack && !snap.Track.Favorite
	})

	c.Dispatch(CmdSkip)
	waitFor(t, "установка флага пропуска", func() bool {
		snap := c.Snapshot()
		return snap.HasTrack && snap.Track.Skip
	})
}

func TestDeleteCurrentTrack(t *testing.T) {
	// Каталог с реальными файлами на диске
	dir := t.TempDir()
	paths := make([]string, 3)
	for i, name := range []string{"one.mp3", "two.mp3", "three.mp3"} {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte("fake"), 0644); err != nil {
			t.Fatalf("Ошибка создания тестового файла: %v", err)
		}
	}

	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog(paths...))

	c.Dispatch(CmdPlay)
	waitFor(t, "загрузка первого трека", func() bool { return engine.loadCount() == 1 })

	c.Dispatch(CmdDelete)

	// Каталог уменьшился, играет трек, следовавший за удаленным
	waitFor(t, "воспроизведение следующего трека после удаления", func() bool {
		return engine.lastLoaded() == paths[1]
	})

	snap := c.Snapshot()
	if snap.Total != 2 {
		t.Errorf("Ожидалось 2 трека после удаления, получено %d", snap.Total)
	}

	// Файл удален с диска
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Errorf("Файл %s должен быть удален", paths[0])
	}
}

func TestDeleteLastRemainingTrackStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.mp3")
	if err := os.WriteFile(path, []byte("fake"), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog(path))

	c.Dispatch(CmdPlay)
	waitFor(t, "загрузка трека", func() bool { return engine.loadCount() == 1 })

	c.Dispatch(CmdDelete)

	waitFor(t, "остановка после удаления последнего трека", func() bool {
		snap := c.Snapshot()
		return snap.State == StateStopped && snap.Total == 0
	})
}

func TestSelectTrack(t *testing.T) {
	engine := newFakeEngine()
	c := startSession(t, engine, makeCatalog("/m/a.mp3", "/m/b.mp3", "/m/c.mp3"))

	c.SelectTrack(2)

	waitFor(t, "воспроизведение выбранного трека", func() bool {
		return engine.lastLoaded() == "/m/c.mp3"
	})
	if c.Snapshot().State != StatePlaying {
		t.Errorf("Ожидалось состояние Playing, получено %v", c.Snapshot().State)
	}
}

func TestQuitClosesSession(t *testing.T) {
	engine := newFakeEngine()
	c := NewCoordinator(engine, makeCatalog("/m/a.mp3"))
	go c.Run()

	c.Dispatch(CmdQuit)

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Сессия не завершилась после команды Quit")
	}
}
