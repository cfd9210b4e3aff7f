package config

import (
	"testing"
	"time"

	"github.com/developia-II/vendora-onboarding/internal/onboarding"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("MONGO_DB", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("DOCUMENT_MAX_BYTES", "")
	t.Setenv("LOGO_MAX_BYTES", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "vendora", cfg.MongoDB)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, int64(onboarding.MaxDocumentSize), cfg.DocumentMaxBytes)
	assert.Equal(t, int64(onboarding.MaxLogoSize), cfg.LogoMaxBytes)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("DOCUMENT_MAX_BYTES", "1048576")
	t.Setenv("LOGO_MAX_BYTES", "4096")
	t.Setenv("SESSION_IDLE_TIMEOUT", "45m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 45*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	limits := cfg.Limits()
	assert.Equal(t, int64(1048576), limits[onboarding.SlotNIDFront])
	assert.Equal(t, int64(1048576), limits[onboarding.SlotTINCertificate])
	assert.Equal(t, int64(4096), limits[onboarding.SlotStoreLogo])
	assert.Equal(t, int64(onboarding.MaxBannerSize), limits[onboarding.SlotStoreBanner])
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Run("missing mongo uri", func(t *testing.T) {
		setRequired(t)
		t.Setenv("MONGO_URI", "")
		_, err := Load()
		assert.EqualError(t, err, "MONGO_URI is required")
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.EqualError(t, err, "JWT_SECRET is required")
	})

	t.Run("bad byte count", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DOCUMENT_MAX_BYTES", "five")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DOCUMENT_MAX_BYTES")
	})

	t.Run("bad idle timeout", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SESSION_IDLE_TIMEOUT", "-5m")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_IDLE_TIMEOUT")
	})
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetFormatter(logrus.StandardLogger().Formatter)

	(&Config{LogLevel: "debug", GinMode: gin.ReleaseMode}).ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	(&Config{LogLevel: "nonsense", GinMode: gin.DebugMode}).ConfigureLogging()
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)
}

func TestCloudinaryConfigured(t *testing.T) {
	cfg := &Config{CloudinaryCloudName: "demo", CloudinaryAPIKey: "key"}
	assert.False(t, cfg.CloudinaryConfigured())
	cfg.CloudinaryAPISecret = "secret"
	assert.True(t, cfg.CloudinaryConfigured())
}
