package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RESTCalls counts OMAS REST calls by service, method and outcome (ok or the exception kind).
var RESTCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "omag_rest_calls_total",
		Help: "Total number of access service REST calls",
	},
	[]string{"service", "method", "outcome"},
)

// RESTCallLatency records the time spent inside a REST service method.
var RESTCallLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "omag_rest_call_latency_seconds",
		Help:    "Latency in seconds of access service REST calls",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"service", "method"},
)

// TopicEvents counts events received on an in topic by event type and outcome.
var TopicEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "omag_topic_events_total",
		Help: "Total number of events processed from access service in topics",
	},
	[]string{"topic", "event_type", "outcome"},
)

// OutTopicEvents counts events published to an out topic.
var OutTopicEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "omag_out_topic_events_total",
		Help: "Total number of events published on access service out topics",
	},
	[]string{"service", "event_type", "outcome"},
)

// CacheLookups counts entity cache lookups by result (hit, miss, error).
var CacheLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "omag_entity_cache_lookups_total",
		Help: "Entity cache lookups by result",
	},
	[]string{"result"},
)

// Database connection pool metrics
var (
	DBOpenConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "omag_db_open_connections",
			Help: "Number of open connections in the DB pool",
		},
		[]string{"db"},
	)

	DBIdleConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "omag_db_idle_connections",
			Help: "Number of idle connections in the DB pool",
		},
		[]string{"db"},
	)

	DBInUseConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "omag_db_in_use_connections",
			Help: "Number of in-use connections in the DB pool",
		},
		[]string{"db"},
	)
)

func init() {
	prometheus.MustRegister(RESTCalls, RESTCallLatency, TopicEvents, OutTopicEvents, CacheLookups)
	prometheus.MustRegister(DBOpenConns, DBIdleConns, DBInUseConns)
	prometheus.MustRegister(StreamClients, StreamDropped)
}

// StreamClients tracks open out topic stream connections per server.
var StreamClients = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "omag_out_topic_stream_clients",
		Help: "Number of websocket clients following an out topic",
	},
	[]string{"topic"},
)

// StreamDropped counts events not delivered to a stream client whose send buffer was full.
var StreamDropped = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "omag_out_topic_stream_dropped_total",
		Help: "Out topic events dropped for slow websocket clients",
	},
	[]string{"topic"},
)
