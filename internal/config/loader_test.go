package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/perfscope/internal/config"
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
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(32<<20))
				convey.So(cfg.HeaderScanRows, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PERFSCOPE_ADDR", ":8080")
			_ = os.Setenv("PERFSCOPE_SESSION_CAPACITY", "4")
			_ = os.Setenv("PERFSCOPE_LOG_FORMAT", "json")
			_ = os.Setenv("PERFSCOPE_PLACEHOLDER_EMAIL_DOMAIN", "acme.org")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SessionCapacity, convey.ShouldEqual, 4)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.PlaceholderEmailDomain, convey.ShouldEqual, "acme.org")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# comments are fine
addr: ":9090"
header_scan_rows: 20
session_capacity: 8
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PERFSCOPE_CONFIG", tmpFile)
			_ = os.Setenv("PERFSCOPE_SESSION_CAPACITY", "16") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")       // From file
				convey.So(cfg.HeaderScanRows, convey.ShouldEqual, 20)  // From file
				convey.So(cfg.SessionCapacity, convey.ShouldEqual, 16) // Overridden by env
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")    // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PERFSCOPE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PERFSCOPE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid numeric variable", func() {
			_ = os.Setenv("PERFSCOPE_SESSION_CAPACITY", "many")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an out of range value", func() {
			_ = os.Setenv("PERFSCOPE_HEADER_SCAN_ROWS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PERFSCOPE_CONFIG",
		"PERFSCOPE_ADDR",
		"PERFSCOPE_SESSION_CAPACITY",
		"PERFSCOPE_LOG_FORMAT",
		"PERFSCOPE_PLACEHOLDER_EMAIL_DOMAIN",
		"PERFSCOPE_HEADER_SCAN_ROWS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "perfscope-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
