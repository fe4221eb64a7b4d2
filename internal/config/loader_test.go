package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/podium/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.RedisHost, convey.ShouldEqual, "localhost")
				convey.So(cfg.RedisPort, convey.ShouldEqual, 6379)
				convey.So(cfg.ScanCount, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PODIUM_ADDR", ":8080")
			_ = os.Setenv("PODIUM_REDIS_HOST", "redis.internal")
			_ = os.Setenv("PODIUM_REDIS_PORT", "16379")
			_ = os.Setenv("PODIUM_REDIS_USERNAME", "loader")
			_ = os.Setenv("PODIUM_REDIS_PASSWORD", "secret")
			_ = os.Setenv("PODIUM_SCAN_COUNT", "500")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RedisHost, convey.ShouldEqual, "redis.internal")
				convey.So(cfg.RedisPort, convey.ShouldEqual, 16379)
				convey.So(cfg.RedisUsername, convey.ShouldEqual, "loader")
				convey.So(cfg.RedisPassword, convey.ShouldEqual, "secret")
				convey.So(cfg.RedisAddr(), convey.ShouldEqual, "redis.internal:16379")
				convey.So(cfg.ScanCount, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
redis_host: "redis.test"
redis_port: 6380
scan_count: 250
top_players_limit: 25
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("PODIUM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RedisHost, convey.ShouldEqual, "redis.test")
				convey.So(cfg.RedisPort, convey.ShouldEqual, 6380)
				convey.So(cfg.ScanCount, convey.ShouldEqual, 250)
				convey.So(cfg.TopPlayersLimit, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When env vars override the file", func() {
			yamlContent := `
redis_host: "redis.file"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("PODIUM_CONFIG", tmpFile)
			_ = os.Setenv("PODIUM_REDIS_HOST", "redis.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RedisHost, convey.ShouldEqual, "redis.env")
			})
		})

		convey.Convey("When config values are invalid", func() {
			_ = os.Setenv("PODIUM_REDIS_PORT", "99999")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then Load should fail with ErrInvalidConfig", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "redis_port")
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"PODIUM_CONFIG",
		"PODIUM_ADDR",
		"PODIUM_LOG_LEVEL",
		"PODIUM_REDIS_HOST",
		"PODIUM_REDIS_PORT",
		"PODIUM_REDIS_USERNAME",
		"PODIUM_REDIS_PASSWORD",
		"PODIUM_REDIS_DB",
		"PODIUM_SCAN_COUNT",
		"PODIUM_TOP_PLAYERS_LIMIT",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "podium.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
