package storage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agrihaul/agrihaul-backend/internal/models"
)

// DatabaseStore persists data in PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) GetCarrierLink(phone string) (*models.CarrierLink, error) {
	var link models.CarrierLink
	err := d.db.Where("phone_number = ?", phone).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("carrier link not found")
		}
		return nil, err
	}
	return &link, nil
}

func (d *DatabaseStore) SaveCarrierLink(phone, carrierID string) (*models.CarrierLink, error) {
	var link models.CarrierLink
	err := d.db.Where("phone_number = ?", phone).First(&link).Error
	switch {
	case err == nil:
		link.CarrierID = carrierID
		if err := d.db.Save(&link).Error; err != nil {
			return nil, err
		}
		return &link, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = models.CarrierLink{PhoneNumber: phone, CarrierID: carrierID}
		if err := d.db.Create(&link).Error; err != nil {
			return nil, err
		}
		return &link, nil
	default:
		return nil, err
	}
}

func (d *DatabaseStore) DeleteCarrierLink(phone string) error {
	result := d.db.Where("phone_number = ?", phone).Delete(&models.CarrierLink{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("carrier link not found")
	}
	return nil
}

func (d *DatabaseStore) CountCarrierLinks() (int64, error) {
	var count int64
	err := d.db.Model(&models.CarrierLink{}).Count(&count).Error
	return count, err
}
