package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mockapi_auth_attempts_total",
		Help: "Authentication strategy outcomes.",
	},
	[]string{"strategy", "result"},
)
