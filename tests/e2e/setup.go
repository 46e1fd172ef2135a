//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant-engine/cmd/bootstrap"
	"restaurant-engine/cmd/bootstrap/components"
	"restaurant-engine/internal/infra/catalog"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container
	redisContainerOnce    sync.Once
	redisTestContainer    testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

const catalogFile = "config/catalog.yaml"

type ContainerInfo struct {
	Host string
	Port nat.Port
}

type environment struct {
	pool    *pgxpool.Pool
	rdb     *redis.Client
	router  *gin.Engine
	cfg     config.Config
	seeder  components.Seeder
	catalog *catalog.Static
	clock   clock.Clock
}

// ------------------------------------------------------------
// Per test process setup
// ------------------------------------------------------------
func setupE2EEnvironment(t *testing.T) *environment {
	postgresInfo, redisInfo := startContainers(t)

	dbConfig := prepareDatabase(t, postgresInfo)
	cfg := createTestConfig(t, dbConfig, redisInfo)

	env, app := buildE2EApp(cfg)
	require.NotNil(t, env.router, "failed to set up router")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err.Error())
		}
	})

	slog.Info("e2e environment ready",
		"postgres_host", postgresInfo.Host,
		"postgres_port", postgresInfo.Port.Port(),
		"redis_port", redisInfo.Port.Port())

	return env
}

// ------------------------------------------------------------
// Containers
// ------------------------------------------------------------
func startContainers(t *testing.T) (ContainerInfo, ContainerInfo) {
	gin.SetMode(gin.TestMode)
	startPostgreSQLContainerOnce(t)
	startRedisContainerOnce(t)

	postgresInfo, err := getContainerHostPort(postgresTestContainer, "5432/tcp")
	require.NoError(t, err, "failed to read postgres container info")
	redisInfo, err := getContainerHostPort(redisTestContainer, "6379/tcp")
	require.NoError(t, err, "failed to read redis container info")

	return postgresInfo, redisInfo
}

// ------------------------------------------------------------
// Database per test process
// ------------------------------------------------------------
func prepareDatabase(t *testing.T, postgresInfo ContainerInfo) config.DBConfig {
	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, postgresInfo.Host, postgresInfo.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer adminPool.Close()

	var createErr error
	for attempts := range 5 {
		if attempts > 0 {
			time.Sleep(min(time.Duration(500+attempts*500)*time.Millisecond, 3*time.Second))
		}
		_, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
		if createErr == nil {
			break
		}
		slog.Warn("retrying database creation", "attempt", attempts+1, "error", createErr.Error())
	}
	require.NoError(t, createErr, "failed to create test database")

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()

		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			slog.Warn("failed to connect for cleanup", "database", dbName, "error", err.Error())
			return
		}
		defer cleanupPool.Close()

		if _, err := cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     postgresInfo.Host,
		Port:     postgresInfo.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 8,
	}
}

// resolveCatalog finds the catalog from the package directory `go test` runs in.
func resolveCatalog(t *testing.T) string {
	t.Helper()
	for _, cand := range []string{
		catalogFile,
		filepath.Join("..", catalogFile),
		filepath.Join("..", "..", catalogFile),
		filepath.Join("..", "..", "..", catalogFile),
	} {
		if _, err := os.Stat(cand); err == nil {
			return cand
		}
	}
	require.FailNow(t, "catalog not found", catalogFile)
	return ""
}

func createTestConfig(t *testing.T, dbConfig config.DBConfig, redisInfo ContainerInfo) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	cfg.Store.Driver = "postgres"
	cfg.Redis = config.RedisConfig{
		Addr:    redisInfo.Host + ":" + redisInfo.Port.Port(),
		LockTTL: 10 * time.Second,
	}
	cfg.Catalog.Path = resolveCatalog(t)
	// keep the background jobs out of the way of assertions
	cfg.Engine.SweepInterval = time.Hour
	cfg.Engine.RotationCheckInterval = time.Hour
	return cfg
}

// ------------------------------------------------------------
// Application graph, built the same way cmd/main.go builds it
// ------------------------------------------------------------
func buildE2EApp(cfg config.Config) (*environment, *fx.App) {
	env := &environment{cfg: cfg}

	app := fx.New(
		fx.Provide(func() config.Config { return cfg }),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.DBModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		bootstrap.JobsModule,

		fx.Populate(&env.router, &env.pool, &env.rdb, &env.seeder, &env.catalog, &env.clock),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start fx app: %v", err))
	}
	if env.router == nil || env.pool == nil {
		panic("fx app started without router or database")
	}
	return env, app
}

func startGenericContainer(req testcontainers.ContainerRequest, timeoutSec int) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

func startPostgreSQLContainerOnce(t *testing.T) {
	postgresContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		postgresTestContainer, err = startGenericContainer(req, 180)
		require.NoError(t, err, "failed to start postgres container")
		registerTerminate(t, postgresTestContainer, "postgres")
	})
}

func startRedisContainerOnce(t *testing.T) {
	redisContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
			Labels:       map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		redisTestContainer, err = startGenericContainer(req, 60)
		require.NoError(t, err, "failed to start redis container")
		registerTerminate(t, redisTestContainer, "redis")
	})
}

func registerTerminate(t *testing.T, c testcontainers.Container, name string) {
	t.Cleanup(func() {
		if c == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Terminate(ctx); err != nil {
			slog.Warn("failed to terminate container", "container", name, "error", err.Error())
		}
	})
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// ------------------------------------------------------------
// Shared suite for e2e packages
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Config config.Config

	env *environment
}

func (s *SharedSuite) SetupSuite() {
	s.env = setupE2EEnvironment(s.T())
	s.Router = s.env.router
	s.DB = s.env.pool
	s.Redis = s.env.rdb
	s.Config = s.env.cfg
	require.NotNil(s.T(), s.Redis, "redis client missing")
}

// SetupSubTest truncates every table, clears the redis counters and reseeds
// the catalog floor plan and inventory.
func (s *SharedSuite) SetupSubTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.DB.Exec(ctx, `TRUNCATE order_lines, orders, stock_reservation_items, stock_reservations,
		table_occupancy, inventory, restaurant_tables, order_sequences`)
	require.NoError(s.T(), err, "failed to truncate")
	require.NoError(s.T(), s.Redis.FlushDB(ctx).Err(), "failed to flush redis")

	tables, err := s.env.catalog.Tables(s.env.clock.Now())
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.env.seeder.Seed(ctx, tables, s.env.catalog.Inventory()), "failed to reseed")
}

// OnHand reads the on-hand count straight from the database.
func (s *SharedSuite) OnHand(productID uuid.UUID) int {
	var n int
	err := s.DB.QueryRow(context.Background(), `SELECT on_hand FROM inventory WHERE product_id = $1`, productID).Scan(&n)
	require.NoError(s.T(), err)
	return n
}
