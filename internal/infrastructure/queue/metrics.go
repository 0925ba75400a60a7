package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userservice"

// eventsPublishedTotal counts events delivered to the bus.
// Label:
//   - type: the event type (e.g. "user.registered")
var eventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events delivered to the event bus.",
	},
	[]string{"type"},
)

// eventsDroppedTotal counts events discarded before delivery, either
// because the publish buffer was full or because shutdown drained out.
var eventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of domain events dropped before delivery.",
	},
)
