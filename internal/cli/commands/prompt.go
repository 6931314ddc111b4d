package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

var errNonInteractive = errors.New("input required in non-interactive mode")

// readPassword reads a secret from the terminal without echo.
func readPassword(env *Env, out io.Writer, label string) (string, error) {
	if !env.interactive() {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), errNonInteractive)
	}
	fmt.Fprintf(out, "%s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// promptText asks for a single line of input.
func promptText(env *Env, label string) (string, error) {
	if !env.interactive() {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), errNonInteractive)
	}
	p := promptui.Prompt{Label: label, Stdin: env.Stdin}
	v, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(v), nil
}

// confirm asks for a y/N answer. yes short-circuits the prompt.
func confirm(env *Env, label string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !env.interactive() {
		return false, fmt.Errorf("confirmation %w (pass --yes)", errNonInteractive)
	}
	p := promptui.Prompt{Label: label, IsConfirm: true, Stdin: env.Stdin}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return true, nil
}

// choose lets the user pick one of items and returns its index.
func choose(env *Env, label string, items []string) (int, error) {
	if !env.interactive() {
		return -1, fmt.Errorf("%s: %w", strings.ToLower(label), errNonInteractive)
	}
	s := promptui.Select{Label: label, Items: items, Stdin: env.Stdin}
	i, _, err := s.Run()
	if err != nil {
		return -1, fmt.Errorf("selection failed: %w", err)
	}
	return i, nil
}
