package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	migrations "github.com/doodlesbykumbi/aiact-compliance/db"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/datakey"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/db"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	DataKey       []byte
	JWTSecret     []byte
	Cipher        datakey.Cipher
	HTTPClient    *http.Client
	InlineMode    bool
	BinaryPath    string
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
}

// NewTestContext creates a new test context with a PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set AIACT_BINARY to the path of the compliancectl binary
//   - Inline mode: Set AIACT_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	inlineMode := os.Getenv("AIACT_INLINE") == "1"
	binaryPath := os.Getenv("AIACT_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either AIACT_BINARY or AIACT_INLINE=1 is required.\n\nBinary mode:\n  go build -o compliancectl ./cmd/compliancectl\n  INTEGRATION_TEST=1 AIACT_BINARY=$(pwd)/compliancectl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 AIACT_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("AIACT_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("aiact_test"),
		tcpostgres.WithUsername("aiact"),
		tcpostgres.WithPassword("aiact"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	cipher, err := datakey.New(dataKey)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// The cipher travels with the connection so test assertions see plaintext keys
	database, err := db.Connect(db.Config{URL: connStr, Cipher: cipher})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	tc := &TestContext{
		DB:          database,
		Container:   pgContainer,
		DatabaseURL: connStr,
		DataKey:     dataKey,
		JWTSecret:   []byte("integration-test-jwt-secret"),
		Cipher:      cipher,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		InlineMode:  inlineMode,
		BinaryPath:  binaryPath,
	}

	instance, err := StartServer(tc, DefaultServerConfig())
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	tc.ServerURL = instance.ServerURL
	tc.Cancel = instance.Stop
	tc.ServerProcess = instance.serverProcess
	tc.InlineServer = instance.Server

	return tc, nil
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// Reset empties every application table between scenarios.
func (tc *TestContext) Reset() error {
	return tc.DB.Exec(`TRUNCATE TABLE
		approval_history, approval_assignments, approval_items,
		training_progress, training_modules,
		risk_assessments, ai_systems,
		activities, api_keys, regulatory_terms, users
		RESTART IDENTITY CASCADE`).Error
}

// runMigrations applies the embedded migrations the same way compliancectl does.
func runMigrations(connStr string) error {
	src, err := iofs.New(migrations.Migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, db.MigrationURL(connStr))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
