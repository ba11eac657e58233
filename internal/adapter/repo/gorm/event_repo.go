package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"tilefarm/internal/adapter/repo/gorm/model"
	"tilefarm/internal/domain/farm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, userKey string, events []farm.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.FarmEvent, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		rows = append(rows, model.FarmEvent{
			EventID:    e.ID,
			SaveKey:    userKey,
			Type:       e.Type,
			OccurredAt: e.OccurredAt.UTC(),
			Payload:    string(b),
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ListByUser returns the latest limit events in insertion order.
func (r EventRepo) ListByUser(ctx context.Context, userKey string, limit int) ([]farm.DomainEvent, error) {
	rows := []model.FarmEvent{}
	query := r.db.WithContext(ctx).
		Where(&model.FarmEvent{SaveKey: userKey}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]farm.DomainEvent, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		var payload map[string]any
		if row.Payload != "" {
			_ = json.Unmarshal([]byte(row.Payload), &payload)
		}
		out = append(out, farm.DomainEvent{
			ID:         row.EventID,
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
