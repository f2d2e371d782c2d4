package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	MetricsNamespace = "e2e"
)

const (
	ResultPassed = "passed"
	ResultFailed = "failed"

	ActionKept    = "kept"
	ActionDeleted = "deleted"

	StageTraceStop  = "trace_stop"
	StageClose      = "close"
	StageForceClose = "force_close"
)

var (
	scenariosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "scenarios_total",
		Help:      "Count of finished scenarios by result",
	}, []string{
		"result",
	})

	scenarioDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "scenario_duration_seconds",
		Help:      "Wall clock time from world init to cleanup",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
	})

	artifactsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "artifacts_total",
		Help:      "Artifacts kept or deleted during world cleanup",
	}, []string{
		"type",
		"action",
	})

	cleanupTimeoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "cleanup_timeouts_total",
		Help:      "Cleanup stages that exceeded their time budget",
	}, []string{
		"stage",
	})
)

func RecordScenario(failed bool, d time.Duration) {
	result := ResultPassed
	if failed {
		result = ResultFailed
	}
	scenariosTotal.WithLabelValues(result).Inc()
	scenarioDuration.Observe(d.Seconds())
}

func RecordArtifact(kind string, kept bool) {
	action := ActionDeleted
	if kept {
		action = ActionKept
	}
	artifactsTotal.WithLabelValues(kind, action).Inc()
}

func RecordCleanupTimeout(stage string) {
	cleanupTimeoutsTotal.WithLabelValues(stage).Inc()
}

// Serve exposes the default registry on addr until ctx is done.
func Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
