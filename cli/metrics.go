package cli

import (
	"callcenter-sim/metrics"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"
)

const pushJobName = "callcenter_sim"

// serveMetrics exposes the registry on addr/metrics in the background.
func serveMetrics(addr string, log logrus.FieldLogger) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		log.Infof("Metrics server listening on %s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("Metrics server error")
		}
	}()
}

// pushMetrics sends the registry to a Pushgateway, grouped by run so
// concurrent runs do not overwrite each other.
func pushMetrics(url, runID string) error {
	return push.New(url, pushJobName).
		Gatherer(metrics.Registry).
		Grouping("run_id", runID).
		Push()
}

// flushScrape gives a scraper a moment to collect the final values.
// Batch jobs should prefer the Pushgateway or --wait.
func flushScrape() {
	time.Sleep(100 * time.Millisecond)
}
