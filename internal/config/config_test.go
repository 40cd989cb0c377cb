package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAMPUS_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, "/media", cfg.Storage.MediaURL)
	assert.Equal(t, int64(5242880), cfg.Storage.UploadMaxBytes)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.yml")
	body := []byte("listen_addr: \":9090\"\nstorage:\n  backend: minio\n  minio_bucket: reports\nseed:\n  admin_username: root\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("CAMPUS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, StorageMinio, cfg.Storage.Backend)
	assert.Equal(t, "reports", cfg.Storage.MinioBucket)
	assert.Equal(t, "root", cfg.Seed.AdminUsername)
}

func TestValidate(t *testing.T) {
	cfg := &AppConfig{SessionSecret: "x", Storage: StorageConfig{Backend: "s3", UploadMaxBytes: 1}}
	assert.Error(t, cfg.Validate())

	cfg.Storage.Backend = StorageLocal
	assert.NoError(t, cfg.Validate())

	cfg.GinMode = "release"
	cfg.SessionSecret = "secret_key_change_me"
	assert.Error(t, cfg.Validate(), "default secret is refused in release mode")
}
