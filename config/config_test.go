package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 10, cfg.MaxSize)
	assert.Equal(t, time.Duration(0), cfg.AcquireTimeout.Duration())
	assert.Equal(t, time.Duration(0), cfg.IdleTimeout.Duration())
	assert.Equal(t, 1*time.Minute, cfg.HealthInterval.Duration())
	assert.Equal(t, 1, cfg.UnhealthyAfter)
	assert.False(t, cfg.Prewarm)

	// 验证默认配置有效
	err := cfg.Validate()
	assert.NoError(t, err)

	t.Log("✅ NewConfig 测试通过")
}

// TestLoad 测试从 JSON 加载配置
func TestLoad(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		data := []byte(`{
			"max_size": 20,
			"acquire_timeout": "5s",
			"idle_timeout": "10m",
			"health_interval": "30s",
			"unhealthy_after": 3,
			"prewarm": true
		}`)
		cfg, err := Load(data)
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.MaxSize)
		assert.Equal(t, 5*time.Second, cfg.AcquireTimeout.Duration())
		assert.Equal(t, 10*time.Minute, cfg.IdleTimeout.Duration())
		assert.Equal(t, 30*time.Second, cfg.HealthInterval.Duration())
		assert.Equal(t, 3, cfg.UnhealthyAfter)
		assert.True(t, cfg.Prewarm)
	})

	t.Run("PartialKeepsDefaults", func(t *testing.T) {
		cfg, err := Load([]byte(`{"max_size": 5}`))
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.MaxSize)
		assert.Equal(t, 1*time.Minute, cfg.HealthInterval.Duration())
		assert.Equal(t, 1, cfg.UnhealthyAfter)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := Load([]byte(`{max_size:}`))
		assert.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		_, err := Load([]byte(`{"max_size": 0}`))
		assert.Error(t, err)
	})

	t.Log("✅ Load 测试通过")
}

// TestLoadFile 测试从文件加载配置
func TestLoadFile(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pool.json")
		err := os.WriteFile(path, []byte(`{"max_size": 8, "acquire_timeout": "2s"}`), 0o600)
		require.NoError(t, err)

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.MaxSize)
		assert.Equal(t, 2*time.Second, cfg.AcquireTimeout.Duration())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Log("✅ LoadFile 测试通过")
}

// TestConfig_Validate 测试配置验证
func TestConfig_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		err := NewConfig().Validate()
		assert.NoError(t, err)
	})

	t.Run("ZeroMaxSize", func(t *testing.T) {
		cfg := NewConfig()
		cfg.MaxSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeMaxSize", func(t *testing.T) {
		cfg := NewConfig()
		cfg.MaxSize = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeAcquireTimeout", func(t *testing.T) {
		cfg := NewConfig()
		cfg.AcquireTimeout = Duration(-1 * time.Second)
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeIdleTimeout", func(t *testing.T) {
		cfg := NewConfig()
		cfg.IdleTimeout = Duration(-1 * time.Second)
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeHealthInterval", func(t *testing.T) {
		cfg := NewConfig()
		cfg.HealthInterval = Duration(-1 * time.Second)
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeUnhealthyAfter", func(t *testing.T) {
		cfg := NewConfig()
		cfg.UnhealthyAfter = -1
		assert.Error(t, cfg.Validate())
	})

	t.Log("✅ Config.Validate 测试通过")
}

// TestConfig_Chaining 测试链式配置
func TestConfig_Chaining(t *testing.T) {
	cfg := NewConfig().
		WithMaxSize(32).
		WithAcquireTimeout(3 * time.Second).
		WithIdleTimeout(5 * time.Minute).
		WithHealthInterval(10 * time.Second).
		WithUnhealthyAfter(2).
		WithPrewarm(true)

	assert.Equal(t, 32, cfg.MaxSize)
	assert.Equal(t, 3*time.Second, cfg.AcquireTimeout.Duration())
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout.Duration())
	assert.Equal(t, 10*time.Second, cfg.HealthInterval.Duration())
	assert.Equal(t, 2, cfg.UnhealthyAfter)
	assert.True(t, cfg.Prewarm)

	t.Log("✅ Config 链式配置测试通过")
}
