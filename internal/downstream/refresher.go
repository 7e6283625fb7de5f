package downstream

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"statsweep/internal/config"
	"statsweep/internal/logging"
)

// Refresher regenerates downstream artifacts after a mutation.
type Refresher interface {
	// Refresh runs the configured regeneration steps and returns the
	// per-command failures. A non-empty slice is advisory only.
	Refresh(ctx context.Context) []error
}

// NewRefresher builds a refresher from configuration. Disabled or
// empty configurations yield a no-op.
func NewRefresher(cfg *config.Config, logger *slog.Logger) Refresher {
	if !cfg.Downstream.Enabled || len(cfg.Downstream.Commands) == 0 {
		return noopRefresher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.Downstream.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &commandRefresher{
		commands: cfg.Downstream.Commands,
		timeout:  timeout,
		logger:   logging.NewComponentLogger(logger, "downstream"),
	}
}

type commandRefresher struct {
	commands []string
	timeout  time.Duration
	logger   *slog.Logger
}

func (r *commandRefresher) Refresh(ctx context.Context) []error {
	var failures []error
	for _, command := range r.commands {
		command = strings.TrimSpace(command)
		if command == "" {
			continue
		}
		r.logger.Info("running downstream refresh", slog.String("command", command))

		cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
		cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
		output, err := cmd.CombinedOutput()
		cancel()

		if err != nil {
			r.logger.Warn("downstream refresh failed",
				slog.String("command", command),
				slog.String("output", strings.TrimSpace(string(output))),
				logging.Error(err))
			failures = append(failures, err)
			continue
		}
		r.logger.Info("downstream refresh finished", slog.String("command", command))
	}
	return failures
}

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context) []error { return nil }
