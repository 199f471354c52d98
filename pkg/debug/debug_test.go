package debug

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "auth", map[string]bool{"auth": true}},
		{"multiple", "auth,session", map[string]bool{"auth": true, "session": true}},
		{"all", "all", map[string]bool{"all": true}},
		{"with spaces", " auth , session ", map[string]bool{"auth": true, "session": true}},
		{"uppercase normalized", "AUTH,Session", map[string]bool{"auth": true, "session": true}},
		{"empty segments", "auth,,session", map[string]bool{"auth": true, "session": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("got[%q] = %v, want %v", k, got[k], v)
				}
			}
			if len(got) != len(tt.want) {
				t.Errorf("len(got) = %d, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("auth,session")

	if !Enabled("auth") {
		t.Error("auth should be enabled")
	}
	if !Enabled("session") {
		t.Error("session should be enabled")
	}
	if Enabled("storage") {
		t.Error("storage should not be enabled")
	}
}

func TestEnabled_All(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("all")

	if !Enabled("auth") || !Enabled("anything") {
		t.Error("every category should be enabled via 'all'")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "json", slog.LevelInfo)).Info("hello", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json handler output = %q, want a JSON object", buf.String())
	}

	buf.Reset()
	slog.New(NewHandler(&buf, "text", slog.LevelInfo)).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "k=v") {
		t.Errorf("text handler output = %q, want key=value pairs", buf.String())
	}

	buf.Reset()
	slog.New(NewHandler(&buf, "", slog.LevelWarn)).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written below warn level: %q", buf.String())
	}
}

func TestNewHandler_RedactFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "text", slog.LevelInfo, "password", "Reset_Token"))

	logger.Info("login", "email", "u@x.com", "PASSWORD", "hunter2", slog.Group("user", "reset_token", "abc123"))

	out := buf.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "abc123") {
		t.Errorf("secret leaked into log output: %q", out)
	}
	if !strings.Contains(out, "PASSWORD=***") || !strings.Contains(out, "user.reset_token=***") {
		t.Errorf("masked attributes missing: %q", out)
	}
	if !strings.Contains(out, "email=u@x.com") {
		t.Errorf("unmasked attribute altered: %q", out)
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("abc"); got != "***" {
		t.Errorf("Redact short = %q, want %q", got, "***")
	}
	if got := Redact("abcdefghijk"); got != "abcdef..." {
		t.Errorf("Redact long = %q, want %q", got, "abcdef...")
	}
}

func TestLog_DisabledCategory(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("")

	// Should not panic or produce output.
	Log("auth", "test message", "key", "value")
	Trace("auth", "trace message", "key", "value")
}
