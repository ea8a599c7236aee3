// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escape_room_transport_requests_total",
			Help: "Total number of authority calls by operation, mode and outcome",
		},
		[]string{"operation", "mode", "outcome"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "escape_room_transport_request_duration_seconds",
			Help:    "Authority call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "mode"},
	)

	PendingCallbacks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "escape_room_transport_pending_callbacks",
			Help: "Host bridge callback tokens awaiting an answer",
		},
	)
)

// Collectors returns every transport metric for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{RequestsTotal, RequestDuration, PendingCallbacks}
}
