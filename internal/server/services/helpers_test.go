package services

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/server/auth"
	"github.com/dmitrijs2005/campusmarket/internal/server/config"
	"github.com/dmitrijs2005/campusmarket/internal/server/media"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.BaseURL = "http://market.test"
	return cfg
}

type testEnv struct {
	cfg      *config.Config
	rm       *repomanager.MemoryRepositoryManager
	store    *media.MemoryStore
	accounts *AccountService
	uploads  *UploadService
	catalog  *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	rm := repomanager.NewMemoryRepositoryManager()
	store := media.NewMemoryStore(cfg.BaseURL)

	accounts, err := NewAccountService(nil, rm, auth.NewPlainCodec(), cfg)
	require.NoError(t, err)
	accounts.now = func() time.Time { return fixedNow }

	uploads := NewUploadService(nil, rm, store, cfg)
	uploads.now = func() time.Time { return fixedNow }

	catalog := NewCatalogService(nil, rm, cfg)
	catalog.now = func() time.Time { return fixedNow }

	return &testEnv{cfg: cfg, rm: rm, store: store, accounts: accounts, uploads: uploads, catalog: catalog}
}
