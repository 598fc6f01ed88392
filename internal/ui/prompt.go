package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrNoInput is returned when stdin closes before an answer.
var ErrNoInput = errors.New("no answer on stdin")

// Confirm asks a yes/no question on Err. Anything but y is a no.
func (u *UI) Confirm(format string, args ...any) (bool, error) {
	prompt := u.confirmPrompt(fmt.Sprintf(format, args...))
	_, err := prompt.Run()
	return confirmResult(err)
}

// Secret reads a masked line, for passwords.
func (u *UI) Secret(label string) (string, error) {
	prompt := u.secretPrompt(label)
	value, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(value), nil
}

func (u *UI) confirmPrompt(label string) promptui.Prompt {
	return promptui.Prompt{
		Label:     strings.TrimRight(strings.TrimSpace(label), "?"),
		IsConfirm: true,
		Stdin:     u.In,
		Stdout:    nopWriteCloser{u.Err},
	}
}

func (u *UI) secretPrompt(label string) promptui.Prompt {
	return promptui.Prompt{
		Label: strings.TrimRight(strings.TrimSpace(label), ":"),
		Mask:  '*',
		Validate: func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("value required")
			}
			return nil
		},
		Stdin:  u.In,
		Stdout: nopWriteCloser{u.Err},
	}
}

func confirmResult(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, promptError(err)
	}
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
		return ErrNoInput
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
