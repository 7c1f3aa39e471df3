package metrics

import (
	"net/http"

	"contrib.go.opencensus.io/exporter/prometheus"
	logging "github.com/ipfs/go-log/v2"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/stats/view"
	"golang.org/x/xerrors"
)

var log = logging.Logger("metrics")

// Exporter registers the default views and returns a handler serving them in
// the prometheus text format.
func Exporter(namespace string) (http.Handler, error) {
	if err := view.Register(DefaultViews...); err != nil {
		return nil, xerrors.Errorf("registering views: %w", err)
	}

	registry, ok := promclient.DefaultRegisterer.(*promclient.Registry)
	if !ok {
		log.Warnf("failed to export default prometheus registry; some metrics will be unavailable; unexpected type: %T", promclient.DefaultRegisterer)
		registry = promclient.NewRegistry()
	}

	exporter, err := prometheus.NewExporter(prometheus.Options{
		Registry:  registry,
		Namespace: namespace,
	})
	if err != nil {
		return nil, xerrors.Errorf("could not create the prometheus stats exporter: %w", err)
	}
	return exporter, nil
}
