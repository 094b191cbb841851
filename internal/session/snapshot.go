package session

import (
	"sync"

	"github.com/hazadus/ksound/internal/catalog"
)

// snapshotStore хранит последний снимок состояния за мьютексом.
// Записывает только цикл Run, интерфейс читает копии.
type snapshotStore struct {
	mutex  sync.RWMutex
	snap   Snapshot
	tracks []catalog.Track
}

func (s *snapshotStore) get() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.snap
}

func (s *snapshotStore) set(snap Snapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snap = snap
}

func (s *snapshotStore) setError(message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snap.LastErr = message
}

func (s *snapshotStore) setTracks(tracks []catalog.Track) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tracks = tracks
}

func (s *snapshotStore) getTracks() []catalog.Track {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	tracks := make([]catalog.Track, len(s.tracks))
	copy(tracks, s.tracks)
	return tracks
}
