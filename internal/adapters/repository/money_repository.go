package repository

import (
	"context"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// MoneyRepository keeps transactions and settings under separate keys.
type MoneyRepository struct {
	transactions document[[]entities.Transaction]
	settings     document[entities.MoneySettings]
}

func NewMoneyRepository(store ports.KVStore, log *logger.Logger) *MoneyRepository {
	log = log.WithComponent("money_repository")
	return &MoneyRepository{
		transactions: newDocument[[]entities.Transaction](store, ports.MoneyKey, log),
		settings:     newDocument[entities.MoneySettings](store, ports.MoneySettingsKey, log),
	}
}

func (r *MoneyRepository) LoadTransactions(ctx context.Context) ([]entities.Transaction, ports.LoadResult) {
	txs, res := r.transactions.load(ctx, func() []entities.Transaction { return []entities.Transaction{} })
	if txs == nil {
		txs = []entities.Transaction{}
	}
	return txs, res
}

func (r *MoneyRepository) SaveTransactions(ctx context.Context, transactions []entities.Transaction) error {
	if transactions == nil {
		transactions = []entities.Transaction{}
	}
	return r.transactions.save(ctx, transactions)
}

func (r *MoneyRepository) LoadSettings(ctx context.Context) (entities.MoneySettings, ports.LoadResult) {
	s, res := r.settings.load(ctx, entities.DefaultMoneySettings)
	if s.Currency == "" {
		s.Currency = entities.DefaultCurrency
	}
	return s, res
}

func (r *MoneyRepository) SaveSettings(ctx context.Context, settings entities.MoneySettings) error {
	return r.settings.save(ctx, settings)
}
