package entities

import (
	"fmt"
	"math"
	"time"
)

// Diet tracks the brain-friendly food groups eaten on a day.
type Diet struct {
	Fruits   bool `json:"fruits"`
	Fish     bool `json:"fish"`
	Nuts     bool `json:"nuts"`
	Beans    bool `json:"beans"`
	Greens   bool `json:"greens"`
	OliveOil bool `json:"oliveOil"`
}

type StressManagement struct {
	Yoga        bool `json:"yoga"`
	Mindfulness bool `json:"mindfulness"`
	SocialTime  bool `json:"socialTime"`
}

// DayRecord is one day of the brain health checklist.
type DayRecord struct {
	Date             string           `json:"date"`
	Sleep            bool             `json:"sleep"`
	Diet             Diet             `json:"diet"`
	Exercise         bool             `json:"exercise"`
	StressManagement StressManagement `json:"stressManagement"`
	Learning         bool             `json:"learning"`
}

// DayRecordPatch replaces whole sections; nil leaves a section alone.
type DayRecordPatch struct {
	Sleep            *bool             `json:"sleep,omitempty"`
	Diet             *Diet             `json:"diet,omitempty"`
	Exercise         *bool             `json:"exercise,omitempty"`
	StressManagement *StressManagement `json:"stressManagement,omitempty"`
	Learning         *bool             `json:"learning,omitempty"`
}

// DayScore pairs a date with its daily score.
type DayScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// StreakThreshold is the minimum score that keeps a streak alive.
const StreakThreshold = 50

const dayRecordPoints = 12

func NewDayRecord(date string) DayRecord {
	return DayRecord{Date: date}
}

func (p DayRecordPatch) Apply(r *DayRecord) {
	if p.Sleep != nil {
		r.Sleep = *p.Sleep
	}
	if p.Diet != nil {
		r.Diet = *p.Diet
	}
	if p.Exercise != nil {
		r.Exercise = *p.Exercise
	}
	if p.StressManagement != nil {
		r.StressManagement = *p.StressManagement
	}
	if p.Learning != nil {
		r.Learning = *p.Learning
	}
}

// Score is the percentage of the twelve checklist items ticked, rounded.
func (r DayRecord) Score() int {
	checked := 0
	for _, ok := range []bool{
		r.Sleep,
		r.Diet.Fruits, r.Diet.Fish, r.Diet.Nuts, r.Diet.Beans, r.Diet.Greens, r.Diet.OliveOil,
		r.Exercise,
		r.StressManagement.Yoga, r.StressManagement.Mindfulness, r.StressManagement.SocialTime,
		r.Learning,
	} {
		if ok {
			checked++
		}
	}
	return int(math.Round(float64(checked) / dayRecordPoints * 100))
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (tt TransactionType) IsValid() bool {
	return tt == TransactionIncome || tt == TransactionExpense
}

// Transaction is a money tracker entry.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type TransactionRequest struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Type        TransactionType `json:"type" validate:"required,oneof=income expense"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount" validate:"gte=0"`
}

type TransactionPatch struct {
	Date        *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Type        *TransactionType `json:"type,omitempty" validate:"omitempty,oneof=income expense"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *float64         `json:"amount,omitempty"`
}

func NewTransaction(req TransactionRequest, now time.Time) Transaction {
	return Transaction{
		ID:          GenerateID(now),
		Date:        req.Date,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		CreatedAt:   now,
	}
}

func (p TransactionPatch) Apply(t *Transaction) {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
}

type MoneySettings struct {
	Currency string `json:"currency"`
}

const DefaultCurrency = "USD"

func DefaultMoneySettings() MoneySettings {
	return MoneySettings{Currency: DefaultCurrency}
}

// ExportVersion is stamped on every money export document.
const ExportVersion = "2.4"

type MoneyExport struct {
	Transactions []Transaction  `json:"transactions"`
	Settings     *MoneySettings `json:"settings,omitempty"`
	ExportedAt   time.Time      `json:"exportedAt"`
	Version      string         `json:"version"`
}

type Totals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type CategoryTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Total   float64 `json:"total"`
}

func CalculateTotals(transactions []Transaction) Totals {
	var totals Totals
	for _, t := range transactions {
		switch t.Type {
		case TransactionIncome:
			totals.Income += t.Amount
		case TransactionExpense:
			totals.Expenses += t.Amount
		}
	}
	totals.Balance = totals.Income - totals.Expenses
	return totals
}

// CategoryBreakdown groups amounts per category. Total is the gross volume, expenses
// included as positive amounts.
func CategoryBreakdown(transactions []Transaction) map[string]CategoryTotals {
	breakdown := make(map[string]CategoryTotals)
	for _, t := range transactions {
		c := breakdown[t.Category]
		if t.Type == TransactionIncome {
			c.Income += t.Amount
		} else {
			c.Expense += t.Amount
		}
		c.Total += t.Amount
		breakdown[t.Category] = c
	}
	return breakdown
}

// DurationStats counts focus sessions for one session length.
type DurationStats struct {
	Attempts  int `json:"attempts"`
	Completed int `json:"completed"`
}

type FocusStats struct {
	Duration30 DurationStats `json:"duration30"`
	Duration45 DurationStats `json:"duration45"`
}

// For returns the counters for a session length, or nil for unsupported lengths.
func (s *FocusStats) For(minutes int) *DurationStats {
	switch minutes {
	case 30:
		return &s.Duration30
	case 45:
		return &s.Duration45
	default:
		return nil
	}
}

// String renders the counters as "✓completed/attempts".
func (d DurationStats) String() string {
	return fmt.Sprintf("✓%d/%d", d.Completed, d.Attempts)
}
