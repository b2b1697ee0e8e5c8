package models

import (
	"gorm.io/gorm"
)

// CarrierLink associates a WhatsApp sender with an AgriHaul carrier account.
// The link is made once (during the first "find loads" acceptance) and then
// reused for every later application from the same phone number.
type CarrierLink struct {
	gorm.Model
	PhoneNumber string `json:"phone_number" gorm:"uniqueIndex"`
	CarrierID   string `json:"carrier_id"`
}
