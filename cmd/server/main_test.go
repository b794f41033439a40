package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect string
	}{
		{"normal short name", "alice", "alice"},
		{"exactly 16 bytes", "1234567890123456", "1234567890123456"},
		{"long name truncated", "harbormaster-of-the-north", "harbormaster-of-"},
		{"control chars stripped", "al\x00i\x1bce", "alice"},
		{"separators stripped", "../../etc", "....etc"},
		{"backslash stripped", `a\b`, "ab"},
		{"dot only", ".", ""},
		{"dot dot", "..", ""},
		{"empty input", "", ""},
		{"tabs and newlines stripped", "a\tb\nc", "abc"},
		{"multi-byte cut on rune boundary", "ééééééééé", "éééééééé"},
		{"emoji cut on rune boundary", "🧪🧪🧪🧪🧪", "🧪🧪🧪🧪"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeName(tc.input)
			if got != tc.expect {
				t.Errorf("sanitizeName(%q) = %q, want %q", tc.input, got, tc.expect)
			}
			if len(got) > maxNameBytes || !utf8.ValidString(got) {
				t.Errorf("sanitizeName(%q) = %q is not a valid short name", tc.input, got)
			}
		})
	}
}

func TestAllowedTerms(t *testing.T) {
	cases := []struct {
		term    string
		allowed bool
	}{
		{"xterm-256color", true},
		{"tmux-256color", true},
		{"linux", true},
		{"vt100", true},
		{"screen", true},
		{"rxvt-unicode-256color", true},
		{"evil-term", false},
		{"../../../etc/passwd", false},
		{"", false},
		{"xterm-kitty", false},
	}
	for _, tc := range cases {
		if got := allowedTerms[tc.term]; got != tc.allowed {
			t.Errorf("allowedTerms[%q] = %v, want %v", tc.term, got, tc.allowed)
		}
	}
}

func TestClaimAllowsOneSessionPerName(t *testing.T) {
	s := &server{}
	if !s.claim("alice") {
		t.Fatal("first login should be accepted")
	}
	if s.claim("alice") {
		t.Fatal("second login with the same name must be refused")
	}
	if !s.claim("bob") {
		t.Fatal("other names are independent")
	}
	s.release("alice")
	if !s.claim("alice") {
		t.Fatal("name should be free again after the session ends")
	}
}

func TestLoadOrCreateHostKeyPersists(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "host_key")

	first := loadOrCreateHostKey(path, logger)
	second := loadOrCreateHostKey(path, logger)
	if string(first.PublicKey().Marshal()) != string(second.PublicKey().Marshal()) {
		t.Fatal("second load should reuse the persisted key")
	}
}
