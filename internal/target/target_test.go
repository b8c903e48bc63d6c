package target

import (
	"errors"
	"testing"
)

func TestResolve_SchemeGuessing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantURL    string
		wantOrigin string
	}{
		{"bare host gets https", "example.com", "https://example.com", "https://example.com"},
		{"explicit http kept verbatim", "http://example.com", "http://example.com", "http://example.com"},
		{"explicit https kept", "https://example.com/app", "https://example.com/app", "https://example.com"},
		{"trailing slash stripped", "https://example.com/app/", "https://example.com/app", "https://example.com"},
		{"root slash stripped", "https://example.com/", "https://example.com", "https://example.com"},
		{"whitespace trimmed", "  example.com  ", "https://example.com", "https://example.com"},
		{"host lowercased", "HTTPS://EXAMPLE.com/Path", "https://example.com/Path", "https://example.com"},
		{"default port dropped", "https://example.com:443/x", "https://example.com/x", "https://example.com"},
		{"custom port kept", "example.com:8443/x", "https://example.com:8443/x", "https://example.com:8443"},
		{"idn converted to punycode", "münchen.de", "https://xn--mnchen-3ya.de", "https://xn--mnchen-3ya.de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.input, err)
			}
			if got.EffectiveURL != tt.wantURL {
				t.Errorf("EffectiveURL = %q, want %q", got.EffectiveURL, tt.wantURL)
			}
			if got.BaseOrigin != tt.wantOrigin {
				t.Errorf("BaseOrigin = %q, want %q", got.BaseOrigin, tt.wantOrigin)
			}
			if got.RawInput != tt.input {
				t.Errorf("RawInput = %q, want %q", got.RawInput, tt.input)
			}
		})
	}
}

func TestResolve_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "///", "ftp://example.com", "https://", "http://"} {
		if _, err := Resolve(input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Resolve(%q) err = %v, want ErrInvalidInput", input, err)
		}
	}
}

func TestAlternateURL_FlipsScheme(t *testing.T) {
	t.Parallel()

	tg, err := Resolve("https://example.com/page")
	if err != nil {
		t.Fatal(err)
	}
	if alt := tg.AlternateURL(); alt != "http://example.com/page" {
		t.Errorf("AlternateURL = %q", alt)
	}

	tg2, _ := Resolve("http://example.com")
	if alt := tg2.AlternateURL(); alt != "https://example.com" {
		t.Errorf("AlternateURL = %q", alt)
	}
}

func TestCommitEffective_UpdatesOrigin(t *testing.T) {
	t.Parallel()

	tg, _ := Resolve("example.com/login")
	if err := tg.CommitEffective(tg.AlternateURL()); err != nil {
		t.Fatal(err)
	}
	if tg.EffectiveURL != "http://example.com/login" {
		t.Errorf("EffectiveURL = %q", tg.EffectiveURL)
	}
	if tg.BaseOrigin != "http://example.com" {
		t.Errorf("BaseOrigin = %q", tg.BaseOrigin)
	}
	if tg.IsHTTPS() {
		t.Error("IsHTTPS() = true after committing http")
	}
}

func TestOriginURLAndResolveRef(t *testing.T) {
	t.Parallel()

	tg, _ := Resolve("https://example.com/app/page")
	if got := tg.OriginURL("robots.txt"); got != "https://example.com/robots.txt" {
		t.Errorf("OriginURL = %q", got)
	}
	if got := tg.OriginURL("/admin"); got != "https://example.com/admin" {
		t.Errorf("OriginURL = %q", got)
	}

	ref, err := tg.ResolveRef("submit.php")
	if err != nil {
		t.Fatal(err)
	}
	if ref != "https://example.com/app/submit.php" {
		t.Errorf("ResolveRef = %q", ref)
	}
	abs, _ := tg.ResolveRef("https://other.example/form")
	if abs != "https://other.example/form" {
		t.Errorf("ResolveRef absolute = %q", abs)
	}
}
