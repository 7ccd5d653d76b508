package repository

import (
	"context"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

type FocusStatsRepository struct {
	doc document[entities.FocusStats]
}

func NewFocusStatsRepository(store ports.KVStore, log *logger.Logger) *FocusStatsRepository {
	return &FocusStatsRepository{
		doc: newDocument[entities.FocusStats](store, ports.FocusStatsKey, log.WithComponent("focus_repository")),
	}
}

func (r *FocusStatsRepository) Load(ctx context.Context) (entities.FocusStats, ports.LoadResult) {
	return r.doc.load(ctx, func() entities.FocusStats { return entities.FocusStats{} })
}

func (r *FocusStatsRepository) Save(ctx context.Context, stats entities.FocusStats) error {
	return r.doc.save(ctx, stats)
}
