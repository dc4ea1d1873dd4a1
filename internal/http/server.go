package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/metrics"
	"github.com/hardwayp3nny/ioweb/internal/trend"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	processorDataPath = "/data/processor-data"
	miningDataPath    = "/data/mining-data"

	requestIDHeader = "X-Request-ID"
	unmatchedPath   = "unmatched"
)

type SnapshotService interface {
	GetSnapshot(ctx context.Context) ([]byte, error)
	SaveSnapshot(ctx context.Context, body []byte) error
	Series(ctx context.Context) (trend.SeriesSet, error)
	LatestRewards(ctx context.Context) ([]trend.RewardRow, error)
	Roi(ctx context.Context, processor string, purchasePrice float64) (trend.RoiResult, error)
	CheckStore(ctx context.Context) error
}

// Options поведение транспорта, не относящееся к адресу
type Options struct {
	ErrorMapping string
	MaxBodyBytes int64
}

type HTTPServer struct {
	server  *http.Server
	router  *mux.Router
	service SnapshotService
	errors  errorMapper
	maxBody int64
	logger  *zap.Logger
}

func NewHTTPServer(addr string, service SnapshotService, opts Options, logger *zap.Logger) *HTTPServer {
	router := mux.NewRouter()

	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 8 << 20
	}

	s := &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		router:  router,
		service: service,
		errors:  newErrorMapper(opts.ErrorMapping),
		maxBody: opts.MaxBodyBytes,
		logger:  logger,
	}

	// Middleware регистрации
	router.Use(requestIDMiddleware)
	router.Use(s.metricsMiddleware)
	router.Use(s.loggingMiddleware)

	// Снапшот
	router.HandleFunc(processorDataPath, s.getSnapshot).Methods(http.MethodGet)
	router.HandleFunc(miningDataPath, s.putSnapshot).Methods(http.MethodPut)

	// Производные представления
	router.HandleFunc("/data/series", s.getSeries).Methods(http.MethodGet)
	router.HandleFunc("/data/rewards", s.getLatestRewards).Methods(http.MethodGet)
	router.HandleFunc("/data/roi", s.getRoi).Methods(http.MethodGet)

	router.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)

	// Метрики Prometheus
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Всё остальное, включая неподходящий метод на известном пути, отдаёт 404 без CORS.
	// Middleware роутера на эти ответы не распространяется, поэтому оборачиваем вручную.
	unmatched := requestIDMiddleware(s.metricsMiddleware(s.loggingMiddleware(http.HandlerFunc(notFound))))
	router.NotFoundHandler = unmatched
	router.MethodNotAllowedHandler = unmatched

	return s
}

// Handler возвращает корневой обработчик, удобно для httptest
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// responseWriter для отслеживания статус кода и размера
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// middleware для сбора метрик HTTP запросов с использованием шаблона пути
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		method := r.Method
		status := strconv.Itoa(rw.statusCode)

		// произвольные пути в метки не пишем
		path := unmatchedPath
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
		metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(rw.size))
	})
}

// middleware для логирования HTTP запросов
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Info("HTTP request",
			zap.String("request_id", w.Header().Get(requestIDHeader)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("ip", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()),
			zap.Int("status", rw.statusCode),
			zap.Int("response_size", rw.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
