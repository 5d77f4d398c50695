package metrics

import (
	"github.com/crowdsecurity/go-cs-lib/version"
	"github.com/prometheus/client_golang/prometheus"
)

const GlobalInfoMetricName = "mailenc_info"

var GlobalInfo = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name:        GlobalInfoMetricName,
		Help:        "Information about mailenc.",
		ConstLabels: prometheus.Labels{"version": version.String()},
	},
)

const BodyEncodingsMetricName = "mailenc_body_encoding_total"

var BodyEncodings = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: BodyEncodingsMetricName,
		Help: "Total bodies by chosen transfer encoding.",
	},
	[]string{"encoding"},
)

const HeadersEncodedByEncoderMetricName = "mailenc_header_encoder_total"

var HeadersEncodedByEncoder = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: HeadersEncodedByEncoderMetricName,
		Help: "Total header values encoded, by encoder.",
	},
	[]string{"encoder"},
)

const HeadersEncodedMetricName = "mailenc_header_encoded_total"

var HeadersEncoded = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: HeadersEncodedMetricName,
		Help: "Total header values encoded, by encoder and representation.",
	},
	[]string{"encoder", "strategy"},
)

const EncodedBytesMetricName = "mailenc_encoded_bytes_total"

var EncodedBytes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: EncodedBytesMetricName,
		Help: "Total bytes written by the encoders.",
	},
	[]string{"kind"},
)

// ObserveHeader counts a header value written by encoder with the given
// representation, n bytes long once encoded.
func ObserveHeader(encoder string, strategy string, n int) {
	HeadersEncodedByEncoder.WithLabelValues(encoder).Inc()
	HeadersEncoded.WithLabelValues(encoder, strategy).Inc()
	EncodedBytes.WithLabelValues("header").Add(float64(n))
}

// ObserveBody counts a body encoded with encoding, n bytes long once
// encoded.
func ObserveBody(encoding string, n int) {
	BodyEncodings.WithLabelValues(encoding).Inc()
	EncodedBytes.WithLabelValues("body").Add(float64(n))
}
