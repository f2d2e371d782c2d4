package world

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/metrics"
)

type artifact struct {
	kind      string
	path      string
	mediaType string
	howTo     string
}

// Cleanup tears the world down. Recordings are kept or removed according to
// the artifact settings and, for failed scenarios only, attached to the
// report. Timeouts are logged and answered with a force close of the
// browser, never returned. Calling Cleanup on a world that is not
// initialized does nothing.
func (w *World) Cleanup(ctx context.Context, attacher Attacher, failed bool) error {
	if w.state != Initialized {
		return nil
	}
	w.state = CleaningUp

	s := w.session
	defer func() {
		w.session = nil
		w.state = Closed
		metrics.RecordScenario(failed, w.now().Sub(w.StartedAt))
	}()

	retain := w.Env.Artifacts.Retain(failed)
	if !retain.Any() {
		w.Log.Debug("no artifacts kept for this outcome", zap.Bool("failed", failed))
	}
	var errs []error
	var kept []artifact

	if s.tracing {
		var tracePath string
		if retain.Trace {
			tracePath = w.artifactPath(w.Env.TracesDir(), ".zip")
		}
		stopped, err := w.stopTracing(ctx, s, tracePath)
		if err != nil {
			errs = append(errs, err)
		}
		if stopped && tracePath != "" {
			kept = append(kept, artifact{
				kind:      "trace",
				path:      tracePath,
				mediaType: "application/zip",
				howTo:     fmt.Sprintf("Trace saved to %s\nOpen it with: e2e traces show %s\nor drop the file on https://trace.playwright.dev", tracePath, filepath.Base(tracePath)),
			})
		}
		metrics.RecordArtifact("trace", retain.Trace)
	}

	videoPath := w.videoPath(s)

	if err := w.closeSession(ctx, s); err != nil {
		errs = append(errs, err)
	}

	// playwright only finishes writing the video once the context is closed
	if videoPath != "" {
		if retain.Video {
			dst := w.artifactPath(w.Env.VideosDir(), ".webm")
			if err := os.Rename(videoPath, dst); err != nil {
				w.Log.Warn("could not rename video, keeping original name", zap.Error(err))
				dst = videoPath
			}
			kept = append(kept, artifact{
				kind:      "video",
				path:      dst,
				mediaType: "video/webm",
				howTo:     fmt.Sprintf("Video saved to %s\nOpen it in any browser or player that plays WebM.", dst),
			})
		} else if err := os.Remove(videoPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove video: %w", err))
		}
		metrics.RecordArtifact("video", retain.Video)
	}

	if failed {
		w.attachArtifacts(attacher, kept)
	}

	for _, a := range kept {
		w.Log.Info("artifact kept", zap.String("type", a.kind), zap.String("path", a.path))
	}

	return errors.Join(errs...)
}

// stopTracing reports whether the trace was written out in time.
func (w *World) stopTracing(ctx context.Context, s *Session, path string) (bool, error) {
	err := within(ctx, w.timeouts.TraceStop, func() error {
		if path == "" {
			return s.Context.Tracing().Stop()
		}
		return s.Context.Tracing().Stop(path)
	})
	if interrupted(err) {
		metrics.RecordCleanupTimeout(metrics.StageTraceStop)
		w.Log.Warn("stopping trace did not finish, continuing cleanup",
			zap.Duration("timeout", w.timeouts.TraceStop), zap.Error(err))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stop tracing: %w", err)
	}
	return true, nil
}

func (w *World) videoPath(s *Session) string {
	if !w.Env.Artifacts.Videos || s.Page == nil {
		return ""
	}
	video := s.Page.Video()
	if video == nil {
		return ""
	}
	path, err := video.Path()
	if err != nil {
		w.Log.Warn("could not resolve video path", zap.Error(err))
		return ""
	}
	return path
}

// closeSession releases the session within the close budget and falls back
// to closing the browser handle directly when that budget is exceeded.
func (w *World) closeSession(ctx context.Context, s *Session) error {
	err := within(ctx, w.timeouts.Close, s.release)
	if err == nil {
		return nil
	}
	if !interrupted(err) {
		w.Log.Warn("errors while closing browser resources", zap.Error(err))
		return err
	}

	metrics.RecordCleanupTimeout(metrics.StageClose)
	w.Log.Warn("closing browser resources did not finish, force closing browser",
		zap.Duration("timeout", w.timeouts.Close), zap.Error(err))

	err = within(context.Background(), w.timeouts.ForceClose, func() error {
		return guard("browser", func() error { return s.Browser.Close() })
	})
	if errors.Is(err, context.DeadlineExceeded) {
		metrics.RecordCleanupTimeout(metrics.StageForceClose)
		w.Log.Error("force close timed out, browser process may be left behind")
		return nil
	}
	if err != nil {
		w.Log.Warn("force close failed", zap.Error(err))
	}
	return nil
}

// interrupted reports whether a bounded call was abandoned, either because
// its budget ran out or because the caller gave up.
func interrupted(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func (w *World) attachArtifacts(attacher Attacher, kept []artifact) {
	if attacher == nil {
		return
	}
	for _, a := range kept {
		data, err := os.ReadFile(a.path)
		if err != nil {
			w.Log.Warn("could not read artifact for report", zap.String("path", a.path), zap.Error(err))
			continue
		}
		attacher.Attach(data, a.mediaType)
		attacher.Attach([]byte(a.howTo), "text/plain")
	}
}

// CaptureScreenshot saves a full page screenshot when screenshots are kept
// for this outcome. CI runs skip it. The path is empty when nothing was taken.
func (w *World) CaptureScreenshot(attacher Attacher, failed bool) (string, error) {
	if w.Env.CI || !w.Env.Artifacts.Retain(failed).Screenshot {
		return "", nil
	}
	page, err := w.Page()
	if err != nil {
		return "", err
	}

	path := w.artifactPath(w.Env.ScreenshotsDir(), ".png")
	data, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("take screenshot: %w", err)
	}
	metrics.RecordArtifact("screenshot", true)

	if failed && attacher != nil {
		attacher.Attach(data, "image/png")
	}
	return path, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

func (w *World) artifactPath(dir, ext string) string {
	name := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(w.Scenario), "-"), "-")
	if name == "" {
		name = "scenario"
	}
	stamp := w.now().Format("20060102-150405")
	return filepath.Join(dir, fmt.Sprintf("%s-%s-%s%s", name, stamp, uuid.NewString()[:8], ext))
}
