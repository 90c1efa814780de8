package util

import "testing"

func TestGetEnvString(t *testing.T) {
	t.Setenv("ENV_TEST_STRING", "value")
	if got := GetEnvString("ENV_TEST_STRING", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := GetEnvString("ENV_TEST_STRING_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	// an explicitly empty value wins over the default
	t.Setenv("ENV_TEST_EMPTY", "")
	if got := GetEnvString("ENV_TEST_EMPTY", "fallback"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("ENV_TEST_INT", "42")
	if got := GetEnvInt("ENV_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := GetEnvInt("ENV_TEST_INT_MISSING", 7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}

	t.Setenv("ENV_TEST_INT_BAD", "not-a-number")
	if got := GetEnvInt("ENV_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("expected fallback for unparsable value, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "1", want: true},
		{value: "false", want: false},
		{value: "0", want: false},
		{value: "yes", want: false}, // unparsable falls back to the default
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ENV_TEST_BOOL", tt.value)
			if got := GetEnvBool("ENV_TEST_BOOL", false); got != tt.want {
				t.Fatalf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if got := GetEnvBool("ENV_TEST_BOOL_MISSING", true); got != true {
		t.Fatal("expected default true for unset key")
	}
}
