package config

import (
	"testing"

	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

func TestLoadWithPathAppliesDefaults(t *testing.T) {
	cfg, err := LoadWithPath(t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithPath: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if !cfg.Eval.RequireNonEmptyInstruction {
		t.Fatalf("expected RequireNonEmptyInstruction default to be true")
	}
	if cfg.Transport.MaxMessageBytes != 0 {
		t.Fatalf("expected MaxMessageBytes default of 0, got %d", cfg.Transport.MaxMessageBytes)
	}
}

func TestRuntimeProfileOmitsTransportWhenUnset(t *testing.T) {
	cfg, err := LoadWithPath(t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithPath: %v", err)
	}
	profile := cfg.RuntimeProfile()
	if profile.Transport != nil {
		t.Fatalf("expected a nil Transport profile when maxMessageBytes is unset, got %+v", profile.Transport)
	}
}

func TestRuntimeProfileCarriesTransportWhenSet(t *testing.T) {
	cfg := &Config{Transport: TransportConfig{MaxMessageBytes: 1024}}
	profile := cfg.RuntimeProfile()
	if profile.Transport == nil || profile.Transport.MaxMessageBytes != 1024 {
		t.Fatalf("expected Transport profile with MaxMessageBytes=1024, got %+v", profile.Transport)
	}
}

func TestValidateConfigRejectsBadLogLevel(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "nonsense", Format: "text"}}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("expected an error for an invalid logging.level")
	}
}

func TestEvalProfileRoundTrips(t *testing.T) {
	cfg := &Config{Eval: EvalConfig{RequireNonEmptyInstruction: true, FSharpLexChecks: true, MaxUnknownTokenRatio: 0.5}}
	got := cfg.EvalProfile()
	want := validate.EvalProfile{RequireNonEmptyInstruction: true, FSharpLexChecks: true, MaxUnknownTokenRatio: 0.5}
	if got != want {
		t.Fatalf("EvalProfile() = %+v, want %+v", got, want)
	}
}
