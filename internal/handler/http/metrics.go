package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eximroyals/storefront/internal/lifecycle"
)

var (
	enquiriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_enquiries_total",
			Help: "Contact form submissions by outcome",
		},
		[]string{"outcome"},
	)

	adminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_logins_total",
			Help: "Admin sign-in attempts by outcome",
		},
		[]string{"outcome"},
	)

	pageReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_page_reads_total",
			Help: "Catalog reads made while rendering pages, by read and final state",
		},
		[]string{"read", "state"},
	)
)

func recordRead(name string, state lifecycle.State) {
	pageReadsTotal.WithLabelValues(name, state.String()).Inc()
}
