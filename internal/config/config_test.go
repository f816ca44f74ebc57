package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.MaxConcurrency != DefaultMaxConcurrency {
		t.Errorf("expected MaxConcurrency %d, got %d", DefaultMaxConcurrency, cfg.MaxConcurrency)
	}
	if cfg.MaxPages != DefaultMaxPages {
		t.Errorf("expected MaxPages %d, got %d", DefaultMaxPages, cfg.MaxPages)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected Timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.CrawlTimeout != 0 {
		t.Errorf("expected CrawlTimeout 0, got %v", cfg.CrawlTimeout)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("expected UserAgent %q, got %q", DefaultUserAgent, cfg.UserAgent)
	}
	if cfg.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("expected MaxBodySize %d, got %d", DefaultMaxBodySize, cfg.MaxBodySize)
	}
	if cfg.JSONReport || cfg.MarkdownReport || cfg.CollectPages {
		t.Error("expected report options to be off by default")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "missing base URL",
			modify:  func(c *Config) { c.BaseURL = "" },
			wantErr: ErrNoBaseURL,
		},
		{
			name:    "zero max concurrency",
			modify:  func(c *Config) { c.MaxConcurrency = 0 },
			wantErr: ErrInvalidMaxConcurrency,
		},
		{
			name:    "negative max pages",
			modify:  func(c *Config) { c.MaxPages = -1 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative crawl timeout",
			modify:  func(c *Config) { c.CrawlTimeout = -time.Second },
			wantErr: ErrInvalidCrawlTimeout,
		},
		{
			name:    "negative max body size",
			modify:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name: "conflicting report formats",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.BaseURL = "https://example.com"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		args            []string
		wantErr         error
		wantConcurrency int
		wantPages       int
	}{
		{name: "no arguments", args: nil, wantErr: ErrNoBaseURL},
		{
			name:            "base URL only keeps defaults",
			args:            []string{"https://example.com"},
			wantConcurrency: DefaultMaxConcurrency,
			wantPages:       DefaultMaxPages,
		},
		{name: "two arguments", args: []string{"https://example.com", "2"}, wantErr: ErrArgumentCount},
		{name: "four arguments", args: []string{"https://example.com", "2", "3", "4"}, wantErr: ErrArgumentCount},
		{
			name:            "all three arguments",
			args:            []string{"https://example.com", "2", "50"},
			wantConcurrency: 2,
			wantPages:       50,
		},
		{
			name:            "whole number written as float",
			args:            []string{"https://example.com", "3.0", "10"},
			wantConcurrency: 3,
			wantPages:       10,
		},
		{name: "non-numeric concurrency", args: []string{"https://example.com", "abc", "10"}, wantErr: ErrInvalidMaxConcurrency},
		{name: "NaN concurrency", args: []string{"https://example.com", "NaN", "10"}, wantErr: ErrInvalidMaxConcurrency},
		{name: "infinite concurrency", args: []string{"https://example.com", "Inf", "10"}, wantErr: ErrInvalidMaxConcurrency},
		{name: "zero concurrency", args: []string{"https://example.com", "0", "10"}, wantErr: ErrInvalidMaxConcurrency},
		{name: "negative pages", args: []string{"https://example.com", "2", "-1"}, wantErr: ErrInvalidMaxPages},
		{name: "fractional pages", args: []string{"https://example.com", "2", "2.5"}, wantErr: ErrInvalidMaxPages},
		{name: "pages out of range", args: []string{"https://example.com", "2", "1e20"}, wantErr: ErrInvalidMaxPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			err := cfg.ApplyArgs(tt.args)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.BaseURL != tt.args[0] {
				t.Errorf("expected BaseURL %q, got %q", tt.args[0], cfg.BaseURL)
			}
			if cfg.MaxConcurrency != tt.wantConcurrency {
				t.Errorf("expected MaxConcurrency %d, got %d", tt.wantConcurrency, cfg.MaxConcurrency)
			}
			if cfg.MaxPages != tt.wantPages {
				t.Errorf("expected MaxPages %d, got %d", tt.wantPages, cfg.MaxPages)
			}
		})
	}
}

func TestApplyArgs_ErrorLeavesConfigUntouched(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if err := cfg.ApplyArgs([]string{"https://example.com", "4", "0"}); err == nil {
		t.Fatal("expected error")
	}
	if cfg.BaseURL != "" || cfg.MaxConcurrency != DefaultMaxConcurrency {
		t.Errorf("expected config to be unchanged, got BaseURL=%q MaxConcurrency=%d",
			cfg.BaseURL, cfg.MaxConcurrency)
	}
}

func TestFile_SiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			UserAgent: "default-agent",
			Headers:   map[string]string{"Accept-Language": "en"},
		},
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:  "session=abc",
				Headers: map[string]string{"Authorization": "Bearer token"},
			},
			"Other.Example": {
				UserAgent: "other-agent",
			},
		},
	}

	t.Run("merges site over defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.SiteConfig("example.com")
		if sc.Cookie != "session=abc" {
			t.Errorf("expected cookie 'session=abc', got %q", sc.Cookie)
		}
		if sc.UserAgent != "default-agent" {
			t.Errorf("expected default user agent, got %q", sc.UserAgent)
		}
		if sc.Headers["Accept-Language"] != "en" || sc.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected merged headers, got %v", sc.Headers)
		}
	})

	t.Run("host lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()

		if got := cf.SiteConfig("other.example").UserAgent; got != "other-agent" {
			t.Errorf("expected 'other-agent', got %q", got)
		}
	})

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.SiteConfig("unknown.example")
		if sc.Cookie != "" || sc.UserAgent != "default-agent" {
			t.Errorf("expected defaults, got %+v", sc)
		}
	})

	t.Run("merging does not modify defaults", func(t *testing.T) {
		t.Parallel()

		_ = cf.SiteConfig("example.com")
		if _, ok := cf.Defaults.Headers["Authorization"]; ok {
			t.Error("defaults headers were modified by merge")
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads valid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
defaults:
  userAgent: "bot/1.0"
sites:
  example.com:
    cookie: "a=1"
    headers:
      X-Test: "yes"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Defaults.UserAgent != "bot/1.0" {
			t.Errorf("expected default user agent 'bot/1.0', got %q", cf.Defaults.UserAgent)
		}
		site := cf.Sites["example.com"]
		if site.Cookie != "a=1" || site.Headers["X-Test"] != "yes" {
			t.Errorf("unexpected site config: %+v", site)
		}
	})

	t.Run("empty file yields empty sites map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected non-nil sites map")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path that exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("sites: {}\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected XDG config dir to end with %q, got %q", AppName, dir)
	}
}
