package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enumerateScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "udevgo",
		Subsystem: "enumerate",
		Name:      "scans_total",
		Help:      "Enumerator scans run, by kind (devices, subsystems)",
	}, []string{"kind"})

	enumerateDevicesFound = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "udevgo",
		Subsystem: "enumerate",
		Name:      "devices_found",
		Help:      "Syspaths returned by the most recent scan, by kind",
	}, []string{"kind"})
)

// ObserveScan records a completed scan of the given kind ("devices" or
// "subsystems") and the number of syspaths it returned.
func ObserveScan(kind string, count int) {
	enumerateScansTotal.WithLabelValues(kind).Inc()
	enumerateDevicesFound.WithLabelValues(kind).Set(float64(count))
}
