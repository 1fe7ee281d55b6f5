package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("EXAM_PASSING_SCORE", "")
	t.Setenv("DB_DRIVER", "")

	cfg := LoadConfig()

	assert.Same(t, cfg, AppConfig)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "APEX", cfg.CertificatePrefix)
	assert.Equal(t, 2, cfg.CertificateValidityYears)
	assert.Equal(t, 70.0, cfg.ExamPassingScore)
	assert.Equal(t, 80.0, cfg.ExamRequiredProgress)
	assert.Equal(t, 3, cfg.ExamMaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.MpesaTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("EXAM_MAX_ATTEMPTS", "5")
	t.Setenv("EXAM_PASSING_SCORE", "65.5")
	t.Setenv("MPESA_TIMEOUT", "3s")
	t.Setenv("SEED_DEMO", "true")

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5, cfg.ExamMaxAttempts)
	assert.Equal(t, 65.5, cfg.ExamPassingScore)
	assert.Equal(t, 3*time.Second, cfg.MpesaTimeout)
	assert.True(t, cfg.SeedDemo)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("EXAM_MAX_ATTEMPTS", "three")
	t.Setenv("MPESA_TIMEOUT", "soon")
	t.Setenv("SEED_DEMO", "maybe")

	assert.Equal(t, 3, getEnvInt("EXAM_MAX_ATTEMPTS", 3))
	assert.Equal(t, time.Minute, getEnvDuration("MPESA_TIMEOUT", time.Minute))
	assert.False(t, getEnvBool("SEED_DEMO", false))
}
