package services

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "codequest_api"
	DEFAULT_PROMETHEUS_PORT = 2112

	RewardSourceLesson = "lesson"
	RewardSourceGame   = "game"
	RewardSourceDaily  = "daily_task"
)

// RewardMetrics receives the economy events worth counting.
type RewardMetrics interface {
	RecordReward(source string, xp, coins int)
	RecordPurchase(coins int)
	RecordDailyFinished()
}

type noopMetrics struct{}

func (noopMetrics) RecordReward(string, int, int) {}
func (noopMetrics) RecordPurchase(int)            {}
func (noopMetrics) RecordDailyFinished()          {}

type MonitoringService struct {
	context.DefaultService

	port     int
	serve    bool
	register *prometheus.Registry

	closed      chan struct{}
	server      *fiber.App
	lastGCCount uint32

	httpRequestsTotal          *prometheus.CounterVec
	httpRequestsFailedTotal    *prometheus.CounterVec
	httpRequestsActive         *prometheus.GaugeVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	httpResponseSizeBytes      *prometheus.HistogramVec

	heapAllocBytes prometheus.Gauge
	heapSysBytes   prometheus.Gauge
	gcTotal        prometheus.Counter

	xpAwardedTotal     *prometheus.CounterVec
	coinsAwardedTotal  *prometheus.CounterVec
	coinsSpentTotal    prometheus.Counter
	purchasesTotal     prometheus.Counter
	dailyFinishedTotal prometheus.Counter
}

// NewMonitoringService builds the registry up front so the HTTP middleware
// and domain services can record before the metrics server is listening.
func NewMonitoringService(cfg config.Metrics, serve bool) *MonitoringService {
	port := cfg.Port
	if port <= 0 {
		port = DEFAULT_PROMETHEUS_PORT
	}
	svc := &MonitoringService{port: port, serve: serve}
	svc.initializeMetrics()
	return svc
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	if !svc.serve {
		return nil
	}
	svc.closed = make(chan struct{}, 1)

	go svc.updateMemoryMetrics()

	cfg := fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	}

	svc.server = fiber.New(cfg)
	svc.server.Use(recover.New())

	svc.server.Get("/metrics", svc.metricsHandler)
	svc.server.Get("/health", svc.healthHandler)

	go func() {
		log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.Error().Err(err).Msg("Prometheus metrics server stopped")
		}
	}()
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.closed != nil {
		svc.closed <- struct{}{}
	}
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *MonitoringService) Registry() *prometheus.Registry {
	return svc.register
}

func (svc *MonitoringService) metricsHandler(c *fiber.Ctx) error {
	handler := promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)(c)
}

func (svc *MonitoringService) healthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}

func (svc *MonitoringService) initializeMetrics() {
	svc.httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"endpoint", "method", "status"})
	svc.httpRequestsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_failed_total",
		Help: "Total failed HTTP requests (4xx, 5xx status codes)",
	}, []string{"endpoint", "method"})
	svc.httpRequestsActive = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_requests_active",
		Help: "Number of active concurrent HTTP requests",
	}, []string{"method"})
	svc.httpRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint", "method", "status"})
	svc.httpResponseSizeBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response payload size in bytes",
		Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
	}, []string{"endpoint", "method"})

	svc.heapAllocBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "heap_alloc_bytes",
		Help: "Heap memory allocated in bytes",
	})
	svc.heapSysBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "heap_sys_bytes",
		Help: "Heap memory obtained from system in bytes",
	})
	svc.gcTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gc_total",
		Help: "Total number of garbage collections",
	})

	svc.xpAwardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xp_awarded_total",
		Help: "XP credited to learners",
	}, []string{"source"})
	svc.coinsAwardedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coins_awarded_total",
		Help: "Coins credited to learners",
	}, []string{"source"})
	svc.coinsSpentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coins_spent_total",
		Help: "Coins debited by shop purchases",
	})
	svc.purchasesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_purchases_total",
		Help: "Completed shop purchases",
	})
	svc.dailyFinishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daily_challenges_finished_total",
		Help: "Daily challenges marked completed",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		svc.httpRequestsTotal,
		svc.httpRequestsFailedTotal,
		svc.httpRequestsActive,
		svc.httpRequestDurationSeconds,
		svc.httpResponseSizeBytes,
		svc.heapAllocBytes,
		svc.heapSysBytes,
		svc.gcTotal,
		svc.xpAwardedTotal,
		svc.coinsAwardedTotal,
		svc.coinsSpentTotal,
		svc.purchasesTotal,
		svc.dailyFinishedTotal,
	)
	svc.register = reg

	for _, source := range []string{RewardSourceLesson, RewardSourceGame, RewardSourceDaily} {
		svc.xpAwardedTotal.WithLabelValues(source).Add(0)
		svc.coinsAwardedTotal.WithLabelValues(source).Add(0)
	}
}

// updateMemoryMetrics updates memory-related metrics every 15 seconds
func (svc *MonitoringService) updateMemoryMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			svc.heapAllocBytes.Set(float64(m.Alloc))
			svc.heapSysBytes.Set(float64(m.Sys))

			// Update GC count (only increment difference)
			if m.NumGC > svc.lastGCCount {
				svc.gcTotal.Add(float64(m.NumGC - svc.lastGCCount))
				svc.lastGCCount = m.NumGC
			}

		case <-svc.closed:
			log.Info().Msg("Memory metrics updater stopped")
			return
		}
	}
}

// RecordRequest records HTTP request metrics
func (svc *MonitoringService) RecordRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	svc.httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	svc.httpRequestDurationSeconds.WithLabelValues(endpoint, method, status).Observe(duration.Seconds())
	svc.httpResponseSizeBytes.WithLabelValues(endpoint, method).Observe(float64(responseSize))

	if statusCode, _ := strconv.Atoi(status); statusCode >= 400 {
		svc.httpRequestsFailedTotal.WithLabelValues(endpoint, method).Inc()
	}
}

func (svc *MonitoringService) RecordReward(source string, xp, coins int) {
	svc.xpAwardedTotal.WithLabelValues(source).Add(float64(xp))
	svc.coinsAwardedTotal.WithLabelValues(source).Add(float64(coins))
}

func (svc *MonitoringService) RecordPurchase(coins int) {
	svc.purchasesTotal.Inc()
	svc.coinsSpentTotal.Add(float64(coins))
}

func (svc *MonitoringService) RecordDailyFinished() {
	svc.dailyFinishedTotal.Inc()
}

// MonitoringMiddleware creates a Fiber middleware for monitoring HTTP requests
func MonitoringMiddleware(monitoringSvc *MonitoringService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()

		monitoringSvc.httpRequestsActive.WithLabelValues(method).Inc()
		defer monitoringSvc.httpRequestsActive.WithLabelValues(method).Dec()

		err := c.Next()

		// Route is resolved only after the chain ran; use the pattern, not the raw path.
		endpoint := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if appErr, ok := shared.GetAppError(err); ok {
				status = appErr.StatusCode
			} else if status < 400 {
				status = fiber.StatusInternalServerError
			}
		}

		monitoringSvc.RecordRequest(method, endpoint, strconv.Itoa(status), time.Since(start), len(c.Response().Body()))
		return err
	}
}

// rewardMetricsFrom narrows a container lookup to RewardMetrics, or a no-op.
func rewardMetricsFrom(found interface{}) RewardMetrics {
	if m, ok := found.(*MonitoringService); ok && m != nil {
		return m
	}
	return noopMetrics{}
}
