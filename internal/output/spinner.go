package output

import (
	"context"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner executes an action with a spinner.
// Off a TTY the action runs directly. The action always runs to completion and
// its result is what gets returned; a spinner that fails to draw or is
// interrupted after the action succeeded is only logged.
func RunWithSpinner(ctx context.Context, action func(ctx context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{
		title: "Working...",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if !IsTTY() {
		return action(ctx)
	}

	errCh := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		errCh <- action(ctx)
		close(done)
	}()

	spinnerErr := spinner.New().Title(cfg.title).Action(func() {
		<-done
	}).Run()

	<-done
	return spinnerResult(<-errCh, spinnerErr)
}

// spinnerResult picks the error RunWithSpinner reports. The action's outcome
// wins, so work that completed is never reported as failed.
func spinnerResult(actionErr, spinnerErr error) error {
	if actionErr != nil {
		return actionErr
	}
	if spinnerErr != nil {
		Debug("spinner stopped", "error", spinnerErr)
	}
	return nil
}
