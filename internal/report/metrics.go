package report

import (
	"fmt"

	"github.com/modsync/modsync/internal/reconcile"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "modsync"

// Gatherer builds a registry holding the metrics for one run.
func Gatherer(rep *reconcile.Report) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{
		"game_version": rep.Target.GameVersion,
		"loader":       rep.Target.Loader,
	}

	artifacts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "artifacts",
		Help:        "Mods seen in the last run, by final status",
		ConstLabels: labels,
	}, []string{"status"})

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last run finished",
		ConstLabels: labels,
	})

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "last_run_duration_seconds",
		Help:        "Wall time of the last run",
		ConstLabels: labels,
	})

	downloaded := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "downloaded_bytes",
		Help:        "Bytes downloaded by the last run",
		ConstLabels: labels,
	})

	for _, c := range []prometheus.Collector{artifacts, lastRun, duration, downloaded} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}

	counts := rep.Counts()
	for _, s := range reconcile.Statuses {
		artifacts.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
	lastRun.Set(float64(rep.Finished.Unix()))
	duration.Set(rep.Duration().Seconds())
	downloaded.Set(float64(rep.BytesDownloaded()))

	return reg, nil
}

// WriteMetrics writes the run's metrics to path in the Prometheus text format.
// The file is replaced atomically.
func WriteMetrics(path string, rep *reconcile.Report) error {
	reg, err := Gatherer(rep)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
