// Package player содержит компоненты для управления воспроизведением аудио
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/streaming"
)

var (
	// ErrDevice возвращается, если аудио устройство недоступно.
	// Эта ошибка фатальна и проверяется до запуска основного цикла.
	ErrDevice = errors.New("аудио устройство недоступно")
	// ErrDecode возвращается при невозможности декодировать файл.
	// Ошибка не фатальна: текущее воспроизведение остается нетронутым.
	ErrDecode = errors.New("ошибка декодирования трека")
)

// VolumeStep шаг изменения громкости по нажатию клавиши
const VolumeStep = 5

// Частота дискретизации динамиков; треки с другой частотой ресемплируются
const speakerSampleRate = beep.SampleRate(44100)

// Status представляет снимок состояния воспроизведения для интерфейса
type Status struct {
	Elapsed time.Duration // Текущая позиция
	Total   time.Duration // Общая продолжительность
	Playing bool          // Воспроизводится ли трек
	Volume  int           // Громкость, 0–100
}

// Player владеет аудио устройством и управляет декодированием и выводом.
// На процесс допускается ровно один экземпляр: динамики инициализируются
// при создании и освобождаются при закрытии.
type Player struct {
	// Каналы для обратной связи с интерфейсом
	progressChan chan Status
	doneChan     chan bool

	ctx    context.Context
	cancel context.CancelFunc
	mutex  sync.RWMutex

	streamer    beep.StreamSeekCloser
	source      io.Closer
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	volumeLevel int
	isPaused    bool
}

// NewPlayer создает плеер и захватывает аудио устройство.
// Возвращает ErrDevice, если устройство вывода недоступно.
func NewPlayer(defaultVolume int) (*Player, error) {
	if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
		volumeLevel:  clampVolume(defaultVolume),
	}, nil
}

// Progress возвращает канал для получения обновлений прогресса
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done возвращает канал, сигнализирующий о естественном завершении трека.
// Остановка пользователем или загрузка нового трека сигнала не дают.
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// Load декодирует трек и ставит его на воспроизведение в режиме паузы.
// При ошибке декодирования предыдущее воспроизведение остается нетронутым.
func (p *Player) Load(track catalog.Track) error {
	source, err := openTrack(p.ctx, track)
	if err != nil {
		return err
	}

	streamer, format, err := mp3.Decode(source)
	if err != nil {
		source.Close()
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Декодирование удалось: останавливаем предыдущий трек
	p.stopInternal()

	p.streamer = streamer
	p.source = source
	p.format = format
	p.isPaused = true

	// Ресемплируем к частоте динамиков, если трек закодирован иначе
	var stream beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		stream = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	p.ctrl = &beep.Ctrl{Streamer: stream, Paused: true}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   volumeGain(p.volumeLevel),
		Silent:   p.volumeLevel == 0,
	}

	// Callback срабатывает только при естественном завершении:
	// speaker.Clear при остановке или новой загрузке его не вызывает
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		select {
		case p.doneChan <- true:
		default:
		}
	})))

	go p.monitorProgress(streamer, format)

	return nil
}

// Play возобновляет воспроизведение
func (p *Player) Play() {
	p.setPaused(false)
}

// Pause приостанавливает воспроизведение
func (p *Player) Pause() {
	p.setPaused(true)
}

func (p *Player) setPaused(paused bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.isPaused = paused
	p.ctrl.Paused = paused
	speaker.Unlock()

	p.publishStatus()
}

// SetVolume устанавливает громкость в диапазоне 0–100
func (p *Player) SetVolume(level int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.volumeLevel = clampVolume(level)
	if p.volume != nil {
		speaker.Lock()
		p.volume.Volume = volumeGain(p.volumeLevel)
		p.volume.Silent = p.volumeLevel == 0
		speaker.Unlock()
	}

	p.publishStatus()
}

// Volume возвращает текущий уровень громкости
func (p *Player) Volume() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.volumeLevel
}

// IsPlaying возвращает true, если трек загружен и не на паузе
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused
}

// Elapsed возвращает текущую позицию воспроизведения
func (p *Player) Elapsed() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration возвращает общую продолжительность загруженного трека.
// Для потоковых источников длина может быть неизвестна (ноль).
func (p *Player) Duration() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	total := p.format.SampleRate.D(p.streamer.Len())
	speaker.Unlock()
	if total < 0 {
		return 0
	}
	return total
}

// Stop останавливает воспроизведение и освобождает ресурсы трека
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// stopInternal внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopInternal() {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
		p.volume = nil
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.source != nil {
		p.source.Close()
		p.source = nil
	}
	p.isPaused = false
}

// Close закрывает плеер и освобождает аудио устройство
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	close(p.progressChan)
	close(p.doneChan)
	return nil
}

// publishStatus отправляет снимок состояния без блокировки
// (должен вызываться под мьютексом)
func (p *Player) publishStatus() {
	status := Status{
		Playing: p.ctrl != nil && !p.isPaused,
		Volume:  p.volumeLevel,
	}
	if p.streamer != nil {
		speaker.Lock()
		status.Elapsed = p.format.SampleRate.D(p.streamer.Position())
		if total := p.format.SampleRate.D(p.streamer.Len()); total > 0 {
			status.Total = total
		}
		speaker.Unlock()
	}

	select {
	case p.progressChan <- status:
	default:
		// Интерфейс не успевает, пропускаем обновление
	}
}

// monitorProgress периодически публикует состояние воспроизведения.
// Завершается, когда загружен другой трек или плеер закрыт.
func (p *Player) monitorProgress(streamer beep.StreamSeekCloser, format beep.Format) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()
			if p.streamer != streamer {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			elapsed := format.SampleRate.D(streamer.Position())
			total := format.SampleRate.D(streamer.Len())
			speaker.Unlock()

			status := Status{
				Elapsed: elapsed,
				Playing: !p.isPaused,
				Volume:  p.volumeLevel,
			}
			if total > 0 {
				status.Total = total
			}
			p.mutex.RUnlock()

			select {
			case p.progressChan <- status:
			default:
			}
		}
	}
}

// openTrack открывает источник данных трека: локальный файл или HTTP поток
func openTrack(ctx context.Context, track catalog.Track) (io.ReadCloser, error) {
	if track.IsRemote() {
		const bufferSize = 256 * 1024
		reader, err := streaming.NewReader(ctx, track.Path, bufferSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return reader, nil
	}

	file, err := os.Open(track.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return file, nil
}

func clampVolume(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// volumeGain переводит уровень 0–100 в логарифмическое усиление для effects.Volume
func volumeGain(level int) float64 {
	return float64(level-100) / 16.0
}
