package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("VIDTUBE_AUTH__JWT_SECRET", testSecret)
	t.Setenv("VIDTUBE_MEDIA__BUCKET", "vidtube-media")
	t.Setenv("VIDTUBE_SERVER__PORT", "9090")
	t.Setenv("VIDTUBE_SERVER__CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("VIDTUBE_AUTH__ACCESS_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, "vidtube-media", cfg.Media.Bucket)
	assert.Equal(t, MediaDriverS3, cfg.Media.Driver)
	assert.Equal(t, 10*24*time.Hour, cfg.Auth.RefreshTTL, "defaults survive env overrides")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidtube.yaml")
	contents := []byte(`
auth:
  jwt_secret: "` + testSecret + `"
media:
  driver: gcs
  bucket: from-file
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	t.Setenv(PathEnvVar, path)
	t.Setenv("VIDTUBE_MEDIA__BUCKET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, MediaDriverGCS, cfg.Media.Driver)
	assert.Equal(t, "from-env", cfg.Media.Bucket, "environment wins over file")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
	assert.Contains(t, err.Error(), "media.bucket")

	cfg.Auth.JWTSecret = testSecret
	cfg.Media.Bucket = "bucket"
	require.NoError(t, cfg.Validate())

	cfg.Media.Driver = "ftp"
	require.Error(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "auth.jwt_secret", envKey("VIDTUBE_AUTH__JWT_SECRET"))
	assert.Equal(t, "server.port", envKey("VIDTUBE_SERVER__PORT"))
	assert.Equal(t, "", envKey("VIDTUBE_CONFIG"))
}
