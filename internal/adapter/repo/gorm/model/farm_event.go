package model

import "time"

type FarmEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EventID    string    `gorm:"column:event_id;not null;index:idx_farm_events_event_id"`
	SaveKey    string    `gorm:"column:save_key;not null;index:idx_farm_events_save_key"`
	Type       string    `gorm:"column:type;not null"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
	Payload    string    `gorm:"column:payload;type:text"`
}

func (FarmEvent) TableName() string { return "farm_events" }
