package storage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/forgeplanner/core/internal/ports"
)

// Metrics counts storage operations per op and outcome.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forge_storage_operations_total",
				Help: "Total number of key-value storage operations",
			},
			[]string{"op", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forge_storage_operation_duration_seconds",
				Help:    "Key-value storage operation latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.ops, m.duration)
	return m
}

// Instrumented decorates a store with metrics.
type Instrumented struct {
	next    ports.KVStore
	metrics *Metrics
}

func Instrument(next ports.KVStore, m *Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ops.WithLabelValues(op, status).Inc()
	s.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *Instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, found, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return v, found, err
}

func (s *Instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *Instrumented) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Remove(ctx, key)
	s.observe("remove", start, err)
	return err
}

func (s *Instrumented) Ping(ctx context.Context) error {
	if p, ok := s.next.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
