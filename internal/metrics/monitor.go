// Package metrics provides Prometheus metrics for the monitor and
// enumerate packages, registered automatically via promauto so an
// embedding application only needs to mount internal/metrics/exporters'
// HTTP handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	monitorFramesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "udevgo",
		Subsystem: "monitor",
		Name:      "frames_received_total",
		Help:      "Netlink uevent frames received, by group",
	}, []string{"group"})

	monitorFramesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "udevgo",
		Subsystem: "monitor",
		Name:      "frames_dropped_total",
		Help:      "Netlink uevent frames dropped before a Device record could be built, by reason",
	}, []string{"reason"})

	monitorFramesFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "udevgo",
		Subsystem: "monitor",
		Name:      "frames_filtered_total",
		Help:      "Frames that decoded successfully but did not pass subscriber-side filters, by group",
	}, []string{"group"})
)

// ObserveFrameReceived increments the received-frame counter for group.
func ObserveFrameReceived(group string) {
	monitorFramesReceived.WithLabelValues(group).Inc()
}

// ObserveFrameDropped increments the dropped-frame counter for reason.
func ObserveFrameDropped(reason string) {
	monitorFramesDropped.WithLabelValues(reason).Inc()
}

// ObserveFrameFiltered increments the filtered-frame counter for group.
func ObserveFrameFiltered(group string) {
	monitorFramesFiltered.WithLabelValues(group).Inc()
}
