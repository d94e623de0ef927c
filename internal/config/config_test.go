package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashrotd/singcoach/internal/config"
	"github.com/ashrotd/singcoach/internal/llm"
	"github.com/smartystreets/goconvey/convey"
)

// clearEnv blanks every variable Load consults.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"SINGCOACH_CONFIG", "SINGCOACH_ADDR", "SINGCOACH_DB", "SINGCOACH_LOG_LEVEL",
		"SINGCOACH_LOG_FORMAT", "SINGCOACH_LLM_PROVIDER", "SINGCOACH_LLM_API_KEY",
		"SINGCOACH_LLM_MODEL", "SINGCOACH_LLM_TIMEOUT", "SINGCOACH_LLM_RETRY_MAX_ATTEMPTS",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3001")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.LLM.Provider, convey.ShouldEqual, llm.ProviderAnthropic)
			convey.So(cfg.LLM.MaxTokens, convey.ShouldEqual, 1024)
			convey.So(cfg.LLM.Timeout, convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.LLM.Retry.MaxAttempts, convey.ShouldEqual, 1)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearEnv(t)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then defaults are returned and no key is configured", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3001")
				convey.So(cfg.LLM.Configured(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := filepath.Join(t.TempDir(), "singcoach.yaml")
			yml := "addr: \":9000\"\nlog_format: json\nllm:\n  provider: openai\n  model: gpt-4o\n  timeout: 45s\n  retry:\n    max_attempts: 3\n"
			convey.So(os.WriteFile(path, []byte(yml), 0o600), convey.ShouldBeNil)

			cfg, err := config.Load(path)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9000")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.LLM.Provider, convey.ShouldEqual, llm.ProviderOpenAI)
				convey.So(cfg.LLM.Model, convey.ShouldEqual, "gpt-4o")
				convey.So(cfg.LLM.Timeout, convey.ShouldEqual, 45*time.Second)
				convey.So(cfg.LLM.Retry.MaxAttempts, convey.ShouldEqual, 3)
				convey.So(cfg.LLM.MaxTokens, convey.ShouldEqual, 1024)
			})

			convey.Convey("Then env vars override the file", func() {
				t.Setenv("SINGCOACH_ADDR", ":9100")
				t.Setenv("SINGCOACH_LLM_API_KEY", "sk-test")
				t.Setenv("SINGCOACH_LLM_RETRY_MAX_ATTEMPTS", "2")

				cfg, err := config.Load(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9100")
				convey.So(cfg.LLM.APIKey, convey.ShouldEqual, "sk-test")
				convey.So(cfg.LLM.Retry.MaxAttempts, convey.ShouldEqual, 2)
				convey.So(cfg.LLM.Configured(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When only a standard provider variable is set", func() {
			t.Setenv("OPENROUTER_API_KEY", "or-key")

			cfg, err := config.Load("")

			convey.Convey("Then it is discovered", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLM.Provider, convey.ShouldEqual, llm.ProviderOpenRouter)
				convey.So(cfg.LLM.APIKey, convey.ShouldEqual, "or-key")
			})
		})

		convey.Convey("When the provider is explicit", func() {
			t.Setenv("SINGCOACH_LLM_PROVIDER", "gemini")
			t.Setenv("ANTHROPIC_API_KEY", "ant-key")

			cfg, err := config.Load("")

			convey.Convey("Then other providers' variables are ignored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LLM.Provider, convey.ShouldEqual, llm.ProviderGemini)
				convey.So(cfg.LLM.APIKey, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When values are invalid", func() {
			t.Setenv("SINGCOACH_LOG_LEVEL", "loud")

			_, err := config.Load("")

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is missing", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
