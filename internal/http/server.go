package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finboard/internal/auth"
	"finboard/internal/core"
	applog "finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	"finboard/internal/ports"
	"finboard/internal/services"
)

const defaultRequestTimeout = 7 * time.Second

// Options configures NewServer. Stores and JWTSecret are required.
type Options struct {
	Stores    ports.Stores
	Publisher ports.EventPublisher // optional
	// Ready reports backend health for /readyz; nil means always ready.
	Ready          func(context.Context) error
	JWTSecret      []byte
	RequestTimeout time.Duration
	RateLimit      ratelimit.Config
	Logger         *applog.Logger
}

type Server struct {
	http.Server

	vouchers    *services.RecordService[core.Voucher]
	crops       *services.RecordService[core.Crop]
	capex       *services.RecordService[core.CapexItem]
	investments *services.RecordService[core.Investment]
	loans       *services.RecordService[core.Loan]
	plans       *services.RecordService[core.Plan]
	metrics     ports.MetricStore
	portfolio   *services.PortfolioService

	ready          func(context.Context) error
	requestTimeout time.Duration
	limiter        *ratelimit.Limiter
	shutdownOnce   sync.Once
}

func NewServer(addr string, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}

	st := opts.Stores
	s := &Server{
		vouchers:       services.NewRecordService[core.Voucher](st.Vouchers, opts.Publisher),
		crops:          services.NewRecordService[core.Crop](st.Crops, opts.Publisher),
		capex:          services.NewRecordService[core.CapexItem](st.Capex, opts.Publisher),
		investments:    services.NewRecordService[core.Investment](st.Investments, opts.Publisher),
		loans:          services.NewRecordService[core.Loan](st.Loans, opts.Publisher),
		plans:          services.NewRecordService[core.Plan](st.Plans, opts.Publisher),
		metrics:        st.Metrics,
		portfolio:      services.NewPortfolioService(st),
		ready:          opts.Ready,
		requestTimeout: opts.RequestTimeout,
		limiter:        ratelimit.NewLimiter(opts.RateLimit),
	}

	api := http.NewServeMux()
	registerCollection(api, s, "/api/vouchers", s.vouchers, parseVoucher, services.SummarizeVouchers)
	registerCollection(api, s, "/api/crops", s.crops, parseCrop, services.SummarizeCrops)
	registerCollection(api, s, "/api/capex", s.capex, parseCapex, services.SummarizeCapex)
	registerCollection(api, s, "/api/investments", s.investments, parseInvestment, services.SummarizeInvestments)
	registerCollection(api, s, "/api/loans", s.loans, parseLoan, services.SummarizeLoans)
	registerCollection(api, s, "/api/plans", s.plans, parsePlan, services.SummarizePlans)
	api.HandleFunc("GET /api/loans/{id}/schedule", s.handleLoanSchedule)
	api.HandleFunc("GET /api/dashboard", s.handleDashboard)
	api.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	api.HandleFunc("GET /api/portfolio/chart.png", s.handlePortfolioChart)
	api.HandleFunc("POST /api/calc/emi", s.handleCalcEMI)
	api.HandleFunc("POST /api/calc/return", s.handleCalcReturn)
	api.HandleFunc("POST /api/calc/progress", s.handleCalcProgress)

	detector := security.NewDetector()
	writes := func(r *http.Request) bool { return r.Method != http.MethodGet && r.Method != http.MethodHead }
	limited := s.limiter.Middleware(detector.ClientIP, writes, func(w http.ResponseWriter, r *http.Request) {
		slog.WarnContext(r.Context(), "Rate limit exceeded",
			"component", applog.ComponentRateLimit,
			"client_ip", detector.ClientIP(r),
			"path", r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("/api/", auth.Middleware(opts.JWTSecret)(limited(api)))

	var handler http.Handler = mux
	handler = detector.Middleware(handler)
	handler = applog.Middleware(opts.Logger, trace.GetRequestID)(handler)
	handler = trace.NewMiddleware(detector.ClientIP).Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.limiter.Stop)
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			slog.WarnContext(ctx, "Readiness check failed", "error", err)
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

// withTimeout bounds store work for one request.
func (s *Server) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

// userID returns the authenticated user; auth.Middleware guarantees it on /api/.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		ErrorResponse(http.StatusUnauthorized, auth.ErrMissingToken.Error()).Write(w)
	}
	return id, ok
}
