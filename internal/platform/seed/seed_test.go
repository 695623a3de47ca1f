package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/platform/seed"
	"github.com/SscSPs/studio_ops_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundledSeed = "../../../seed/catalog.toml"

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_BundledFile(t *testing.T) {
	f, err := seed.Load(bundledSeed)
	require.NoError(t, err)

	assert.Len(t, f.Packages, 3)
	assert.True(t, f.Packages[1].Price.Equal(decimal.NewFromInt(15_000_000)))
	assert.Len(t, f.Pockets, 5)
	require.NotNil(t, f.PromoCodes[0].MaxUsage)
	assert.Equal(t, 50, *f.PromoCodes[0].MaxUsage)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := writeSeed(t, `
[[package]]
id = "PKG001"
name = "Gold"
prise = "100"
`)
	_, err := seed.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prise")
}

func TestLoadIfExists_MissingFile(t *testing.T) {
	f, err := seed.LoadIfExists(filepath.Join(t.TempDir(), "absent.toml"))
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestApply_OnlyIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	repos, _ := memory.NewRepositoryProvider()
	f, err := seed.Load(bundledSeed)
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	n, err := seed.Apply(ctx, repos, f, now)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	promo, err := repos.PromoCodeRepo.Get(ctx, "PROMO-WELCOME")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", promo.Code)
	assert.True(t, promo.IsActive)
	assert.Equal(t, seed.SystemUserID, promo.CreatedBy)

	locked, err := repos.PocketRepo.Get(ctx, "POC003")
	require.NoError(t, err)
	assert.Equal(t, domain.PocketLocked, locked.Type)
	require.NotNil(t, locked.LockEndDate)
	assert.True(t, locked.IsLocked(now))

	n, err = seed.Apply(ctx, repos, f, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApply_InvalidPromoWritesNothing(t *testing.T) {
	ctx := context.Background()
	repos, _ := memory.NewRepositoryProvider()
	path := writeSeed(t, `
[[package]]
id = "PKG001"
name = "Gold"
price = "100"

[[promo_code]]
id = "P1"
code = "BAD"
discount_type = "percentage"
discount_value = "150"
`)
	f, err := seed.Load(path)
	require.NoError(t, err)

	_, err = seed.Apply(ctx, repos, f, time.Now())
	require.Error(t, err)

	pkgs, err := repos.PackageRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}
