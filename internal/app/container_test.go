package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/infrastructure/config"
)

func TestProvideStoreOptions(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{
		Timeout:         time.Second,
		RetryAttempts:   2,
		RetryBackoff:    10 * time.Millisecond,
		ExportBatchSize: 50,
	}}
	opts := provideStoreOptions(cfg)
	assert.Equal(t, time.Second, opts.Timeout)
	assert.Equal(t, 2, opts.RetryAttempts)
	assert.Equal(t, 10*time.Millisecond, opts.RetryBackoff)
	assert.Equal(t, 50, opts.ExportBatchSize)
}

func TestInitializeWiresSQLiteContainer(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("WORDPICKER_DATABASE_DSN", "file:"+filepath.Join(t.TempDir(), "app.db")+"?_fk=1")
	t.Setenv("WORDPICKER_LOG_LEVEL", "error")

	c, cleanup, err := Initialize()
	if err != nil {
		t.Skipf("sqlite not available: %v", err)
	}
	defer cleanup()

	ctx := context.Background()
	res, err := c.Store.Add(ctx, "wired")
	require.NoError(t, err)
	assert.Equal(t, entity.AddResultAdded, res)

	page, err := c.Reader.Page(ctx, 1, c.Config.Store.PageSize)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "wired", page[0].Text)
	assert.NotNil(t, c.Server)
	assert.NotNil(t, c.Backup)
}
