package gormrepo

import (
	"context"
	"errors"
	"time"

	"tilefarm/internal/adapter/repo/gorm/model"
	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FarmStateRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFarmStateRepo(db *gorm.DB) FarmStateRepo {
	return FarmStateRepo{db: db, now: time.Now}
}

func (r FarmStateRepo) Load(ctx context.Context, userKey string) (farm.Record, error) {
	var m model.FarmSave
	if err := r.db.WithContext(ctx).Where("save_key = ?", userKey).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return farm.Record{}, ports.ErrNotFound
		}
		return farm.Record{}, err
	}
	return farm.UnmarshalRecord([]byte(m.Payload))
}

// Save upserts the whole record; the newest write always wins.
func (r FarmStateRepo) Save(ctx context.Context, userKey string, rec farm.Record) error {
	payload, err := farm.MarshalRecord(rec)
	if err != nil {
		return err
	}
	m := model.FarmSave{
		SaveKey:   userKey,
		Payload:   string(payload),
		Money:     int64(rec.Money),
		LotCount:  int32(len(rec.Lots)),
		UpdatedAt: r.now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "save_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "money", "lot_count", "updated_at"}),
	}).Create(&m).Error
}
