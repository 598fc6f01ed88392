package ui

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/manifoldco/promptui"
)

func newTestUI() *UI {
	var out, errOut bytes.Buffer
	return New(&out, &errOut, ColorNever, true)
}

func TestConfirmPrompt(t *testing.T) {
	u := newTestUI()
	prompt := u.confirmPrompt("Is the cover letter okay?")
	if !prompt.IsConfirm {
		t.Fatalf("IsConfirm = false, want true")
	}
	if prompt.Label != "Is the cover letter okay" {
		t.Fatalf("Label = %q", prompt.Label)
	}
	if prompt.Stdin != u.In {
		t.Fatalf("Stdin not wired to UI input")
	}
}

func TestSecretPromptMasksInput(t *testing.T) {
	prompt := newTestUI().secretPrompt("SMTP password: ")
	if prompt.Mask != '*' {
		t.Fatalf("Mask = %q, want '*'", prompt.Mask)
	}
	if prompt.Label != "SMTP password" {
		t.Fatalf("Label = %q", prompt.Label)
	}
	if err := prompt.Validate("  "); err == nil {
		t.Fatalf("Validate(blank) error = nil")
	}
	if err := prompt.Validate("hunter2"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestConfirmResult(t *testing.T) {
	if ok, err := confirmResult(nil); !ok || err != nil {
		t.Fatalf("confirmResult(nil) = %v, %v; want true", ok, err)
	}
	if ok, err := confirmResult(promptui.ErrAbort); ok || err != nil {
		t.Fatalf("confirmResult(ErrAbort) = %v, %v; want false, nil", ok, err)
	}
	if _, err := confirmResult(promptui.ErrEOF); !errors.Is(err, ErrNoInput) {
		t.Fatalf("confirmResult(ErrEOF) error = %v, want ErrNoInput", err)
	}
	if _, err := confirmResult(io.EOF); !errors.Is(err, ErrNoInput) {
		t.Fatalf("confirmResult(io.EOF) error = %v, want ErrNoInput", err)
	}
	if _, err := confirmResult(promptui.ErrInterrupt); !errors.Is(err, promptui.ErrInterrupt) {
		t.Fatalf("confirmResult(ErrInterrupt) error = %v", err)
	}
}

func TestNormalizeColorMode(t *testing.T) {
	if got := NormalizeColorMode(" ALWAYS "); got != ColorAlways {
		t.Fatalf("NormalizeColorMode() = %q, want %q", got, ColorAlways)
	}
	if got := NormalizeColorMode("sometimes"); got != ColorAuto {
		t.Fatalf("NormalizeColorMode() = %q, want %q", got, ColorAuto)
	}
}
