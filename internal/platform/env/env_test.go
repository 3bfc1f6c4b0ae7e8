package env

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestString(t *testing.T) {
	if got := String("REGISTRY_ENV_STRING_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("String()=%q, want fallback", got)
	}
	t.Setenv("REGISTRY_ENV_STRING", "value")
	if got := String("REGISTRY_ENV_STRING", "fallback"); got != "value" {
		t.Fatalf("String()=%q, want value", got)
	}
}

func TestDuration(t *testing.T) {
	got, err := Duration("REGISTRY_ENV_DURATION_MISSING", 5*time.Second)
	if err != nil || got != 5*time.Second {
		t.Fatalf("Duration()=%v,%v want 5s,nil", got, err)
	}
	t.Setenv("REGISTRY_ENV_DURATION", " 250ms ")
	got, err = Duration("REGISTRY_ENV_DURATION", 5*time.Second)
	if err != nil || got != 250*time.Millisecond {
		t.Fatalf("Duration()=%v,%v want 250ms,nil", got, err)
	}
	t.Setenv("REGISTRY_ENV_DURATION", "soon")
	if _, err := Duration("REGISTRY_ENV_DURATION", time.Second); err == nil {
		t.Fatalf("Duration() expected error")
	}
}

func TestBool(t *testing.T) {
	t.Setenv("REGISTRY_ENV_BOOL", "false")
	got, err := Bool("REGISTRY_ENV_BOOL", true)
	if err != nil || got {
		t.Fatalf("Bool()=%v,%v want false,nil", got, err)
	}
	t.Setenv("REGISTRY_ENV_BOOL", "nope")
	if _, err := Bool("REGISTRY_ENV_BOOL", true); err == nil {
		t.Fatalf("Bool() expected error")
	}
}

func TestInt(t *testing.T) {
	got, err := Int("REGISTRY_ENV_INT_MISSING", 42)
	if err != nil || got != 42 {
		t.Fatalf("Int()=%v,%v want 42,nil", got, err)
	}
	t.Setenv("REGISTRY_ENV_INT", "7")
	got, err = Int("REGISTRY_ENV_INT", 42)
	if err != nil || got != 7 {
		t.Fatalf("Int()=%v,%v want 7,nil", got, err)
	}
	t.Setenv("REGISTRY_ENV_INT", "seven")
	if _, err := Int("REGISTRY_ENV_INT", 42); err == nil {
		t.Fatalf("Int() expected error")
	}
}

func TestCSV(t *testing.T) {
	def := []string{"viewer"}
	if diff := cmp.Diff(def, CSV("REGISTRY_ENV_CSV_MISSING", def)); diff != "" {
		t.Fatalf("CSV() mismatch (-want +got):\n%s", diff)
	}
	t.Setenv("REGISTRY_ENV_CSV", " admin, ,viewer ,")
	if diff := cmp.Diff([]string{"admin", "viewer"}, CSV("REGISTRY_ENV_CSV", def)); diff != "" {
		t.Fatalf("CSV() mismatch (-want +got):\n%s", diff)
	}
}
