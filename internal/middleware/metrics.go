package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RedisErrors counts failed Redis commands by command name.
var RedisErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "friends",
	Name:      "redis_errors_total",
	Help:      "Total number of failed Redis commands",
}, []string{"command"})

// InitMetrics builds the HTTP metrics collector on its own registry, so
// several apps in one process never collide on registration.
// extra collectors are registered alongside the HTTP ones.
func InitMetrics(serviceName string, extra ...prometheus.Collector) (*fiberprometheus.FiberPrometheus, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RedisErrors,
	)
	for _, c := range extra {
		registry.MustRegister(c)
	}

	prom := fiberprometheus.NewWithRegistry(registry, serviceName, "friends", "http", nil)
	return prom, registry
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
