package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", 7, "Password", "hunter2", "dangling"})

	if len(out) != 5 {
		t.Fatalf("expected 5 values, got %d", len(out))
	}
	if out[1] != 7 {
		t.Errorf("expected user_id to be kept, got %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Errorf("expected password to be redacted, got %v", out[3])
	}
	if out[4] != "dangling" {
		t.Errorf("expected odd trailing value to be kept, got %v", out[4])
	}
}

func TestNewDevelopmentAndProduction(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		log.With("component", "test").Debug("hello")
	}
}
