package metrics

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
)

// WriteText writes the metrics collected by g in the text exposition
// format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))

	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
	}

	return nil
}

type MetricPoint struct {
	Labels map[string]string
	Value  float64
	Type   dto.MetricType
	Name   string
}

// ParseMetrics reads the text exposition format. Only counters, gauges and
// untyped metrics are returned, sorted by name.
func ParseMetrics(r io.Reader) ([]MetricPoint, error) {
	parser := expfmt.NewTextParser(model.UTF8Validation)

	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, err
	}

	var out []MetricPoint

	for name, mf := range mfs {
		for _, m := range mf.GetMetric() {
			point := MetricPoint{
				Labels: make(map[string]string),
				Type:   mf.GetType(),
				Name:   name,
			}

			for _, lp := range m.GetLabel() {
				point.Labels[lp.GetName()] = lp.GetValue()
			}

			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				point.Value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				point.Value = m.GetGauge().GetValue()
			case dto.MetricType_UNTYPED:
				point.Value = m.GetUntyped().GetValue()
			default:
				continue
			}

			out = append(out, point)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return fmt.Sprint(out[i].Labels) < fmt.Sprint(out[j].Labels)
	})

	return out, nil
}

// Snapshot gathers g and returns its points, like ParseMetrics would after
// a round trip through WriteText.
func Snapshot(g prometheus.Gatherer) ([]MetricPoint, error) {
	var buf bytes.Buffer

	if err := WriteText(&buf, g); err != nil {
		return nil, err
	}

	return ParseMetrics(&buf)
}
