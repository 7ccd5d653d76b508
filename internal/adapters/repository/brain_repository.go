package repository

import (
	"context"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// BrainHealthRepository stores day records as one object keyed by date.
type BrainHealthRepository struct {
	doc document[map[string]entities.DayRecord]
}

func NewBrainHealthRepository(store ports.KVStore, log *logger.Logger) *BrainHealthRepository {
	return &BrainHealthRepository{
		doc: newDocument[map[string]entities.DayRecord](store, ports.BrainHealthKey, log.WithComponent("brain_repository")),
	}
}

func (r *BrainHealthRepository) Load(ctx context.Context) (map[string]entities.DayRecord, ports.LoadResult) {
	records, res := r.doc.load(ctx, func() map[string]entities.DayRecord { return map[string]entities.DayRecord{} })
	if records == nil {
		records = map[string]entities.DayRecord{}
	}
	return records, res
}

func (r *BrainHealthRepository) Save(ctx context.Context, records map[string]entities.DayRecord) error {
	return r.doc.save(ctx, records)
}
