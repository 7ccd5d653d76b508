package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// MoneyService manages transactions and currency settings.
type MoneyService struct {
	repo     ports.MoneyRepository
	clock    ports.Clock
	validate *validator.Validate
	logger   *logger.Logger
	mu       sync.Mutex
}

func NewMoneyService(repo ports.MoneyRepository, clock ports.Clock, logger *logger.Logger) *MoneyService {
	return &MoneyService{
		repo:     repo,
		clock:    clock,
		validate: validator.New(),
		logger:   logger.WithComponent("money_service"),
	}
}

func (s *MoneyService) Add(ctx context.Context, req entities.TransactionRequest) (entities.Transaction, error) {
	if err := s.validate.Struct(req); err != nil {
		return entities.Transaction{}, fmt.Errorf("%w: %v", entities.ErrInvalidTransaction, err)
	}
	tx := entities.NewTransaction(req, s.clock.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, _ := s.repo.LoadTransactions(ctx)
	s.saveTransactions(ctx, append(txs, tx))
	return tx, nil
}

// Update merges patch into the transaction with the given id. Unknown ids are ignored.
func (s *MoneyService) Update(ctx context.Context, id string, patch entities.TransactionPatch) ([]entities.Transaction, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidTransaction, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, _ := s.repo.LoadTransactions(ctx)
	for i := range txs {
		if txs[i].ID == id {
			patch.Apply(&txs[i])
			break
		}
	}
	s.saveTransactions(ctx, txs)
	return txs, nil
}

func (s *MoneyService) Delete(ctx context.Context, id string) []entities.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, _ := s.repo.LoadTransactions(ctx)
	kept := make([]entities.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.saveTransactions(ctx, kept)
	return kept
}

func (s *MoneyService) Transactions(ctx context.Context) []entities.Transaction {
	txs, _ := s.repo.LoadTransactions(ctx)
	return txs
}

// ByDateRange returns the transactions dated inside [start, end], newest date first.
func (s *MoneyService) ByDateRange(ctx context.Context, start, end string) []entities.Transaction {
	txs, _ := s.repo.LoadTransactions(ctx)
	out := make([]entities.Transaction, 0)
	for _, t := range txs {
		if t.Date >= start && t.Date <= end {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// ByDate returns one day's transactions, most recently created first.
func (s *MoneyService) ByDate(ctx context.Context, date string) []entities.Transaction {
	txs, _ := s.repo.LoadTransactions(ctx)
	out := make([]entities.Transaction, 0)
	for _, t := range txs {
		if t.Date == date {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *MoneyService) Settings(ctx context.Context) entities.MoneySettings {
	settings, _ := s.repo.LoadSettings(ctx)
	return settings
}

func (s *MoneyService) SaveSettings(ctx context.Context, settings entities.MoneySettings) error {
	if settings.Currency == "" {
		return fmt.Errorf("%w: currency is required", entities.ErrInvalidTransaction)
	}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.logger.WithError(err).Error("Failed to save money settings")
	}
	return nil
}

// Export writes every transaction and the settings as an indented JSON document.
func (s *MoneyService) Export(ctx context.Context, w io.Writer) error {
	txs, _ := s.repo.LoadTransactions(ctx)
	settings, _ := s.repo.LoadSettings(ctx)

	doc := entities.MoneyExport{
		Transactions: txs,
		Settings:     &settings,
		ExportedAt:   s.clock.Now().UTC(),
		Version:      entities.ExportVersion,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import replaces the stored transactions with the ones in r, and the settings when
// the document carries them. A document without a transactions array is rejected
// with ErrInvalidImportFormat.
func (s *MoneyService) Import(ctx context.Context, r io.Reader) (*entities.MoneyExport, error) {
	var body json.RawMessage
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse import: %w", err)
	}
	if len(body) == 0 || body[0] != '{' {
		return nil, entities.ErrInvalidImportFormat
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse import: %w", err)
	}

	txRaw, ok := raw["transactions"]
	if !ok || len(txRaw) == 0 || txRaw[0] != '[' {
		return nil, entities.ErrInvalidImportFormat
	}

	var doc entities.MoneyExport
	if err := json.Unmarshal(txRaw, &doc.Transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}
	if settingsRaw, ok := raw["settings"]; ok && string(settingsRaw) != "null" {
		var settings entities.MoneySettings
		if err := json.Unmarshal(settingsRaw, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
		doc.Settings = &settings
	}
	if v, ok := raw["version"]; ok {
		if err := json.Unmarshal(v, &doc.Version); err != nil {
			return nil, fmt.Errorf("failed to parse version: %w", err)
		}
	}
	if v, ok := raw["exportedAt"]; ok {
		if err := json.Unmarshal(v, &doc.ExportedAt); err != nil {
			return nil, fmt.Errorf("failed to parse exportedAt: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveTransactions(ctx, doc.Transactions)
	if doc.Settings != nil {
		if err := s.repo.SaveSettings(ctx, *doc.Settings); err != nil {
			s.logger.WithError(err).Error("Failed to save imported settings")
		}
	}

	s.logger.Infow("Imported transactions", "count", len(doc.Transactions))
	return &doc, nil
}

func (s *MoneyService) saveTransactions(ctx context.Context, txs []entities.Transaction) {
	if err := s.repo.SaveTransactions(ctx, txs); err != nil {
		s.logger.WithError(err).Error("Failed to save transactions")
	}
}
