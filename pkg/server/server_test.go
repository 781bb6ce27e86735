package server

import (
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)

	issuer, err := auth.NewIssuer([]byte("server-test-secret"), time.Hour)
	require.NoError(t, err)

	s, err := NewServer(Options{
		DB:         db,
		Config:     config.Default(),
		Logger:     logger.Nop(),
		Issuer:     issuer,
		KeyManager: providers.NewKeyManager(logger.Nop()),
		Clients:    []providers.Client{},
	})
	require.NoError(t, err)
	return s
}

// Run with -race: reloads and logins share the issuer.
func TestApplyConfigWhileIssuing(t *testing.T) {
	s := newTestServer(t)
	user := &model.User{ID: 9, Email: "officer@example.com", Role: model.RoleComplianceOfficer}

	cfg := config.Default()
	cfg.TokenTTLMinutes = 15

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.ApplyConfig(cfg)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _, err := s.Issuer.Issue(user)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	assert.Equal(t, 15*time.Minute, s.Issuer.TTL())
	assert.Same(t, cfg, s.Config())

	_, exp, err := s.Issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)
}
