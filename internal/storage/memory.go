package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/agrihaul/agrihaul-backend/internal/models"
)

// MemoryStore holds all data in memory for testing and local development
type MemoryStore struct {
	links  map[string]*models.CarrierLink
	linkMu sync.RWMutex

	linkCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[string]*models.CarrierLink),
	}
}

func (m *MemoryStore) GetCarrierLink(phone string) (*models.CarrierLink, error) {
	m.linkMu.RLock()
	defer m.linkMu.RUnlock()

	link, exists := m.links[phone]
	if !exists {
		return nil, fmt.Errorf("carrier link not found")
	}
	return link, nil
}

func (m *MemoryStore) SaveCarrierLink(phone, carrierID string) (*models.CarrierLink, error) {
	m.linkMu.Lock()
	defer m.linkMu.Unlock()

	if existing, exists := m.links[phone]; exists {
		existing.CarrierID = carrierID
		existing.UpdatedAt = time.Now()
		return existing, nil
	}

	m.linkCounter++
	link := &models.CarrierLink{
		PhoneNumber: phone,
		CarrierID:   carrierID,
	}
	link.ID = m.linkCounter
	link.CreatedAt = time.Now()
	link.UpdatedAt = time.Now()

	m.links[phone] = link
	return link, nil
}

func (m *MemoryStore) DeleteCarrierLink(phone string) error {
	m.linkMu.Lock()
	defer m.linkMu.Unlock()

	if _, exists := m.links[phone]; !exists {
		return fmt.Errorf("carrier link not found")
	}
	delete(m.links, phone)
	return nil
}

func (m *MemoryStore) CountCarrierLinks() (int64, error) {
	m.linkMu.RLock()
	defer m.linkMu.RUnlock()

	return int64(len(m.links)), nil
}
