package config

import (
	"reflect"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/contracts")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("environment default = %q", cfg.Environment)
	}
	if cfg.HTTP.Port != 7092 {
		t.Fatalf("port default = %d", cfg.HTTP.Port)
	}
	if cfg.Contracts.NumberPrefix != "CT" || cfg.Contracts.DefaultCurrency != "OMR" {
		t.Fatalf("contract defaults = %+v", cfg.Contracts)
	}
	want := []string{"draft", "active", "expired", "terminated", "pending"}
	if !reflect.DeepEqual(cfg.Contracts.ValidStatuses, want) {
		t.Fatalf("status defaults = %v", cfg.Contracts.ValidStatuses)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatalf("missing DB_DSN must fail")
	}

	t.Setenv("DB_DSN", "postgres://localhost:5432/contracts")
	t.Setenv("JWT_ACCESS_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("missing JWT_ACCESS_SECRET must fail")
	}
}

func TestParseList(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"draft,active", []string{"draft", "active"}},
		{" draft , active , ", []string{"draft", "active"}},
	}
	for _, tc := range cases {
		if got := parseList(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("parseList(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
