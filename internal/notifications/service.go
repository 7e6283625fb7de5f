package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"statsweep/internal/config"
)

const userAgent = "statsweep/0.1.0"

// Service defines the notification surface exposed to the cleanup
// pipeline.
type Service interface {
	NotifyAnalysisComplete(ctx context.Context, issues, recommendations int) error
	NotifyCleanupCompleted(ctx context.Context, gamesRemoved, playersRemoved int, dryRun bool) error
	NotifyManualReviewRequired(ctx context.Context, count int, reportPath string) error
	NotifyBlocked(ctx context.Context, reason string) error
	NotifyBackupCreated(ctx context.Context, path string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when
// configured. When no topic is set, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		cleanup:  cfg.Notifications.Cleanup,
		review:   cfg.Notifications.Review,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	cleanup  bool
	review   bool
	errors   bool
}

func (n *ntfyService) NotifyAnalysisComplete(ctx context.Context, issues, recommendations int) error {
	if !n.cleanup {
		return nil
	}
	data := payload{
		title:   "statsweep - Analysis Complete",
		message: fmt.Sprintf("Found %d issues, %d removal recommendations", issues, recommendations),
		tags:    []string{"statsweep", "analysis", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCleanupCompleted(ctx context.Context, gamesRemoved, playersRemoved int, dryRun bool) error {
	if !n.cleanup {
		return nil
	}
	mode := "Cleanup complete"
	if dryRun {
		mode = "Dry run complete"
	}
	data := payload{
		title:   "statsweep - " + mode,
		message: fmt.Sprintf("%s: %d games and %d player entries removed", mode, gamesRemoved, playersRemoved),
		tags:    []string{"statsweep", "cleanup", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyManualReviewRequired(ctx context.Context, count int, reportPath string) error {
	if !n.review {
		return nil
	}
	message := fmt.Sprintf("%d removals need manual review", count)
	if reportPath != "" {
		message += "\nReport: " + reportPath
	}
	data := payload{
		title:    "statsweep - Review Required",
		message:  message,
		tags:     []string{"statsweep", "review"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBlocked(ctx context.Context, reason string) error {
	if !n.review {
		return nil
	}
	data := payload{
		title:    "statsweep - Cleanup Blocked",
		message:  "Cleanup blocked: " + reason,
		tags:     []string{"statsweep", "blocked", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBackupCreated(ctx context.Context, path string) error {
	if !n.cleanup {
		return nil
	}
	data := payload{
		title:   "statsweep - Backup Created",
		message: "Backup created at " + path,
		tags:    []string{"statsweep", "backup"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, errContext string) error {
	if !n.errors {
		return nil
	}
	data := payload{
		title:    "statsweep - Error",
		message:  fmt.Sprintf("Error with %s: %v", errContext, err),
		tags:     []string{"statsweep", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "statsweep - Test",
		message:  "Notification system test",
		tags:     []string{"statsweep", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAnalysisComplete(context.Context, int, int) error        { return nil }
func (noopService) NotifyCleanupCompleted(context.Context, int, int, bool) error  { return nil }
func (noopService) NotifyManualReviewRequired(context.Context, int, string) error { return nil }
func (noopService) NotifyBlocked(context.Context, string) error                   { return nil }
func (noopService) NotifyBackupCreated(context.Context, string) error             { return nil }
func (noopService) NotifyError(context.Context, error, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
