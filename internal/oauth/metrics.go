package oauth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tokenRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mockapi_oauth_token_requests_total",
		Help: "Token endpoint requests by grant type and outcome.",
	},
	[]string{"grant_type", "outcome"},
)
