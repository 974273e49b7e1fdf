//go:build integration

// Package containers manages throwaway backing services for integration
// tests. One container of each kind is shared across the test binary;
// suites isolate themselves by truncating tables between tests.
package containers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 2 * time.Minute

// Manager owns the shared containers for the test binary.
type Manager struct {
	mu sync.Mutex

	postgres    *tcpostgres.PostgresContainer
	postgresURL string

	redis    *tcredis.RedisContainer
	redisURL string

	redpanda       *redpanda.Container
	redpandaBroker string
}

var (
	manager     *Manager
	managerOnce sync.Once
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

// GetPostgres starts (once) and returns a connection URL for a PostgreSQL
// container with the application schema applied.
func (m *Manager) GetPostgres(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres != nil {
		return m.postgresURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("larder_test"),
		tcpostgres.WithUsername("larder"),
		tcpostgres.WithPassword("larder"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	if err := applySchema(ctx, url); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	m.postgres = container
	m.postgresURL = url
	return url
}

// GetRedis starts (once) and returns a connection URL for a Redis container.
func (m *Manager) GetRedis(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redis != nil {
		return m.redisURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	m.redis = container
	m.redisURL = url
	return url
}

// GetRedpanda starts (once) and returns the broker address of a Redpanda
// container for Kafka-compatible event tests.
func (m *Manager) GetRedpanda(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redpanda != nil {
		return m.redpandaBroker
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.1.2")
	if err != nil {
		t.Fatalf("start redpanda container: %v", err)
	}
	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		t.Fatalf("redpanda broker address: %v", err)
	}

	m.redpanda = container
	m.redpandaBroker = broker
	return broker
}

// TruncateTables clears every application table so a test starts from a
// clean slate without paying container startup again.
func TruncateTables(t *testing.T, url string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := openPool(ctx, url)
	if err != nil {
		t.Fatalf("open pool for truncate: %v", err)
	}
	defer pool.Close()

	tables := []string{
		"chat_messages", "conversations",
		"shopping_list_items", "shopping_lists",
		"recipe_instructions", "recipe_ingredients", "recipes",
		"leftovers", "ingredients", "profiles",
	}
	for _, table := range tables {
		if _, err := pool.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
}
