package cli

import (
	"testing"
	"time"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		args, err := ParseArgs([]string{"-target", "example.com"})
		if err != nil {
			t.Fatalf("ParseArgs: %v", err)
		}
		if args.Target != "example.com" {
			t.Errorf("Target = %q", args.Target)
		}
		if args.Format != "json" {
			t.Errorf("Format = %q, want json", args.Format)
		}
		if args.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", args.Timeout)
		}
		if args.NoActive {
			t.Error("NoActive defaulted to true")
		}
	})

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()
		args, err := ParseArgs([]string{
			"-target", "https://example.com",
			"-format", "pdf",
			"-o", "out.pdf",
			"-timeout", "5s",
			"-no-active",
			"-debug",
		})
		if err != nil {
			t.Fatalf("ParseArgs: %v", err)
		}
		if args.Format != "pdf" || args.Output != "out.pdf" {
			t.Errorf("Format/Output = %q/%q", args.Format, args.Output)
		}
		if args.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v", args.Timeout)
		}
		if !args.NoActive || !args.Debug {
			t.Error("boolean flags not set")
		}
	})

	t.Run("missing target", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseArgs(nil); err == nil {
			t.Error("expected an error for missing -target")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseArgs([]string{"-target", "x.com", "-format", "docx"}); err == nil {
			t.Error("expected an error for unknown format")
		}
	})
}
