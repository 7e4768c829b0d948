// Package redis mirrors the latest source health report into Redis so other
// processes, and the next start of this one, can read it.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/incident-fusion-service/internal/config"
	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// HealthMirror stores a HealthReport as a Redis hash with one field per
// source, plus a string key holding the overall status.
// It implements pipeline.HealthStore.
type HealthMirror struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewClient creates a Redis client from the REDIS_* settings.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// NewHealthMirror creates a mirror writing under keys prefixed with prefix.
func NewHealthMirror(client *redis.Client, prefix string, logger *slog.Logger) *HealthMirror {
	return &HealthMirror{client: client, prefix: prefix, logger: logger}
}

func (m *HealthMirror) healthKey() string  { return m.prefix + ":source_health" }
func (m *HealthMirror) overallKey() string { return m.prefix + ":overall_status" }

// Save replaces the mirrored report in a single MULTI/EXEC pipeline.
func (m *HealthMirror) Save(ctx context.Context, report domain.HealthReport) error {
	fields, err := encodeReport(report)
	if err != nil {
		return err
	}

	pipe := m.client.TxPipeline()
	pipe.Del(ctx, m.healthKey())
	if len(fields) > 0 {
		pipe.HSet(ctx, m.healthKey(), fields)
	}
	pipe.Set(ctx, m.overallKey(), report.OverallStatus(), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mirror source health: %w", err)
	}
	return nil
}

// Load reads the mirrored report. A missing hash yields an empty report.
// Fields that fail to decode are logged and skipped.
func (m *HealthMirror) Load(ctx context.Context) (domain.HealthReport, error) {
	raw, err := m.client.HGetAll(ctx, m.healthKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("load mirrored source health: %w", err)
	}
	report, bad := decodeReport(raw)
	for _, name := range bad {
		m.logger.Warn("skipping undecodable mirrored health", "source", name)
	}
	return report, nil
}

// OverallStatus reads the mirrored overall status, or "" when none is stored.
func (m *HealthMirror) OverallStatus(ctx context.Context) (string, error) {
	status, err := m.client.Get(ctx, m.overallKey()).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load mirrored overall status: %w", err)
	}
	return status, nil
}

// Ping verifies Redis is reachable.
func (m *HealthMirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *HealthMirror) Close() error {
	return m.client.Close()
}

func encodeReport(report domain.HealthReport) (map[string]any, error) {
	fields := make(map[string]any, len(report))
	for name, h := range report {
		data, err := json.Marshal(h)
		if err != nil {
			return nil, fmt.Errorf("encode health for %s: %w", name, err)
		}
		fields[name] = string(data)
	}
	return fields, nil
}

func decodeReport(raw map[string]string) (domain.HealthReport, []string) {
	report := make(domain.HealthReport, len(raw))
	var bad []string
	for name, data := range raw {
		var h domain.SourceHealth
		if err := json.Unmarshal([]byte(data), &h); err != nil {
			bad = append(bad, name)
			continue
		}
		report[name] = h
	}
	return report, bad
}
