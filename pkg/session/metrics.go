// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import "github.com/prometheus/client_golang/prometheus"

var (
	ShowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escape_room_session_shows_total",
			Help: "Puzzles opened, by how the open resolved",
		},
		[]string{"outcome"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escape_room_session_submissions_total",
			Help: "Answers submitted, by puzzle kind and verdict",
		},
		[]string{"kind", "outcome"},
	)

	CompletionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "escape_room_session_completions_total",
			Help: "Puzzles marked completed",
		},
	)
)

// Collectors returns every session metric for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{ShowsTotal, SubmissionsTotal, CompletionsTotal}
}
