package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "matchstate-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "matchstate-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_LLMProviderValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults to offline", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LLMProvider != "offline" {
			t.Fatalf("expected default LLM_PROVIDER=offline, got %q", cfg.LLMProvider)
		}
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "not-a-provider")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid LLM_PROVIDER")
		}
	})

	t.Run("accepts http provider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "http")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LLMProvider != "http" {
			t.Fatalf("unexpected LLMProvider: %q", cfg.LLMProvider)
		}
	})
}

func TestLoad_LLMNumericParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("LLM_TEMPERATURE", "0.4")
	t.Setenv("LLM_MAX_TOKENS", "256")
	t.Setenv("LLM_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LLMTemperature != 0.4 {
		t.Fatalf("unexpected LLMTemperature: %v", cfg.LLMTemperature)
	}
	if cfg.LLMMaxTokens != 256 {
		t.Fatalf("unexpected LLMMaxTokens: %d", cfg.LLMMaxTokens)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Fatalf("unexpected LLMTimeout: %s", cfg.LLMTimeout)
	}

	t.Run("invalid temperature", func(t *testing.T) {
		t.Setenv("LLM_TEMPERATURE", "not-a-float")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid LLM_TEMPERATURE")
		}
	})
}

func TestLoad_ResetDBAndWorldSeedParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("RESET_DB", "true")
	t.Setenv("WORLD_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.ResetDB {
		t.Fatalf("expected ResetDB=true")
	}
	if cfg.WorldSeed != 42 {
		t.Fatalf("unexpected WorldSeed: %d", cfg.WorldSeed)
	}

	t.Run("invalid reset db", func(t *testing.T) {
		t.Setenv("RESET_DB", "not-a-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid RESET_DB")
		}
	})
}
