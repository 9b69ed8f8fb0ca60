package crm

import "time"

// Instrument is a violin, bow, or other piece of stock a client may own.
type Instrument struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Maker          *string   `json:"maker"`
	InstrumentType *string   `json:"instrument_type"`
	SerialNumber   *string   `json:"serial_number"`
	Description    *string   `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// ClientInstrument links a client to an instrument they own.
type ClientInstrument struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	ClientID     string     `gorm:"index" json:"client_id"`
	InstrumentID string     `gorm:"index" json:"instrument_id"`
	AcquiredAt   *time.Time `json:"acquired_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
