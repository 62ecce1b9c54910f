package store

import (
	"sync"
)

// In memory implementation of Store below

type MemoryStore struct {
	mutex    sync.RWMutex
	stations map[string]Station
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stations: map[string]Station{},
	}
}

func (s *MemoryStore) Save(station Station) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stations[station.UserID] = station
	return nil
}

func (s *MemoryStore) Get(userID string) (Station, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	station, ok := s.stations[userID]
	return station, ok, nil
}

func (s *MemoryStore) Delete(userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.stations, userID)
	return nil
}
