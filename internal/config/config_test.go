package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "LLM_API_KEY", "OPENAI_API_KEY", "ENABLE_GENERATOR", "LLM_TIMEOUT"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8080" || c.DBDriver != "sqlite" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.EnableGenerator {
		t.Fatalf("generator enabled without an api key")
	}
	if c.LLMTimeout != 60*time.Second {
		t.Fatalf("timeout = %v", c.LLMTimeout)
	}
	if got := c.CORSOrigins(); len(got) != 1 || got[0] != "http://localhost:3000" {
		t.Fatalf("offline origins = %v", got)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("PUBLIC_URL", "https://ct.example.com/")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://a.example.com, https://b.example.com,")
	t.Setenv("SCORE_ANSWERED_ONLY_RANGE", "yes")

	c := FromEnv()
	if c.LLMAPIKey != "sk-test" || !c.EnableGenerator {
		t.Fatalf("api key fallback not applied: %+v", c)
	}
	if c.LLMTimeout != 5*time.Second || !c.AnsweredOnlyRange {
		t.Fatalf("overrides = %+v", c)
	}
	if got := c.CORSOrigins(); len(got) != 2 || got[1] != "https://b.example.com" {
		t.Fatalf("online origins = %v", got)
	}
	if got := c.ShareURL("abc"); got != "https://ct.example.com/tests/abc" {
		t.Fatalf("share url = %s", got)
	}
}
