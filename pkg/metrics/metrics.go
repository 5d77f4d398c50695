package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsLevelConfig string

const (
	MetricsLevelNone       MetricsLevelConfig = "none"
	MetricsLevelAggregated MetricsLevelConfig = "aggregated"
	MetricsLevelFull       MetricsLevelConfig = "full"
	// MetricsLevelDefault is the default metrics level.
	MetricsLevelDefault MetricsLevelConfig = MetricsLevelFull
)

var ErrInvalidMetricsLevel = errors.New("invalid metrics level")

// ParseMetricsLevel validates a level read from the configuration. An
// empty string gives the default level.
func ParseMetricsLevel(s string) (MetricsLevelConfig, error) {
	switch level := MetricsLevelConfig(s); level {
	case "":
		return MetricsLevelDefault, nil
	case MetricsLevelNone, MetricsLevelAggregated, MetricsLevelFull:
		return level, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMetricsLevel, s)
	}
}

// RegisterMetricsWith registers the collectors matching metricsLevel with
// reg. The aggregated level leaves out the per-strategy and byte counters.
func RegisterMetricsWith(reg prometheus.Registerer, metricsLevel MetricsLevelConfig) error {
	var collectors []prometheus.Collector

	switch metricsLevel {
	case MetricsLevelNone:
		// Do not register any metrics
	case MetricsLevelAggregated:
		collectors = []prometheus.Collector{GlobalInfo, BodyEncodings, HeadersEncodedByEncoder}
	case MetricsLevelFull:
		collectors = []prometheus.Collector{GlobalInfo, BodyEncodings, HeadersEncodedByEncoder, HeadersEncoded, EncodedBytes}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMetricsLevel, metricsLevel)
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
	}

	return nil
}
