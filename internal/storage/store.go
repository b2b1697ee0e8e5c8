package storage

import (
	"github.com/agrihaul/agrihaul-backend/internal/models"
)

// Store defines the interface for storage operations
type Store interface {
	// Carrier link operations
	GetCarrierLink(phone string) (*models.CarrierLink, error)
	SaveCarrierLink(phone, carrierID string) (*models.CarrierLink, error)
	DeleteCarrierLink(phone string) error
	CountCarrierLinks() (int64, error)
}
