package chatrelay

import "github.com/prometheus/client_golang/prometheus"

const (
	teardownHangup     = "hangup"
	teardownReadError  = "read_error"
	teardownWriteError = "write_error"
)

var (
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chatrelay_connected_clients",
		Help: "Number of currently connected clients",
	})

	ConnectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatrelay_connections_total",
		Help: "Accepted connections by admission result",
	}, []string{"result"})

	BytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatrelay_bytes_total",
		Help: "Payload bytes relayed by direction",
	}, []string{"direction"})

	TeardownsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatrelay_teardowns_total",
		Help: "Closed connections by reason",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(ConnectedClients)
	prometheus.MustRegister(ConnectionsTotal)
	prometheus.MustRegister(BytesTotal)
	prometheus.MustRegister(TeardownsTotal)
}
