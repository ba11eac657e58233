package model

import "time"

// FarmSave is one persisted farm. Money and LotCount duplicate fields of the
// JSON payload so operators can query them without decoding.
type FarmSave struct {
	SaveKey   string    `gorm:"column:save_key;primaryKey"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	Money     int64     `gorm:"column:money;not null;default:0"`
	LotCount  int32     `gorm:"column:lot_count;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (FarmSave) TableName() string { return "farm_saves" }
