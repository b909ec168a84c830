package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/innovatun/console/internal/billingdashboard"
	billingdashboarddomain "github.com/innovatun/console/internal/billingdashboard/domain"
	"github.com/innovatun/console/internal/cache"
	"github.com/innovatun/console/internal/checkout"
	checkoutdomain "github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/customers"
	customersdomain "github.com/innovatun/console/internal/customers/domain"
	"github.com/innovatun/console/internal/observability"
	obsmiddleware "github.com/innovatun/console/internal/observability/logger"
	obsmetrics "github.com/innovatun/console/internal/observability/metrics"
	obstracing "github.com/innovatun/console/internal/observability/tracing"
	"github.com/innovatun/console/internal/payments"
	paymentsdomain "github.com/innovatun/console/internal/payments/domain"
	"github.com/innovatun/console/internal/providers/pdf"
	"github.com/innovatun/console/internal/records"
	"github.com/innovatun/console/internal/scheduler"
	"github.com/innovatun/console/internal/subscriptions"
	subscriptionsdomain "github.com/innovatun/console/internal/subscriptions/domain"
	"github.com/innovatun/console/internal/upstream"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	records.Module,
	upstream.Module,
	cache.Module,
	checkout.Module,
	payments.Module,
	subscriptions.Module,
	customers.Module,
	billingdashboard.Module,
	pdf.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine              *gin.Engine
	cfg                 config.Config
	paymentsSvc         paymentsdomain.Service
	subscriptionsSvc    subscriptionsdomain.Service
	customersSvc        customersdomain.Service
	billingDashboardSvc billingdashboarddomain.Service
	checkoutSvc         checkoutdomain.Service
	obsMetrics          *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin                 *gin.Engine
	Cfg                 config.Config
	PaymentsSvc         paymentsdomain.Service
	SubscriptionsSvc    subscriptionsdomain.Service
	CustomersSvc        customersdomain.Service
	BillingDashboardSvc billingdashboarddomain.Service
	CheckoutSvc         checkoutdomain.Service
	ObsMetrics          *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:              p.Gin,
		cfg:                 p.Cfg,
		paymentsSvc:         p.PaymentsSvc,
		subscriptionsSvc:    p.SubscriptionsSvc,
		customersSvc:        p.CustomersSvc,
		billingDashboardSvc: p.BillingDashboardSvc,
		checkoutSvc:         p.CheckoutSvc,
		obsMetrics:          p.ObsMetrics,
	}

	svc.registerAdminRoutes()
	svc.registerBillingRoutes()
	svc.registerCheckoutRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/v1/admin")

	admin.GET("/payments", s.ListPayments)
	admin.GET("/payments/export", s.ExportPayments)
	admin.GET("/subscriptions", s.ListSubscriptions)
	admin.GET("/customers", s.ListCustomers)
	admin.GET("/customers/export", s.ExportCustomers)
}

func (s *Server) registerBillingRoutes() {
	billing := s.engine.Group("/api/v1/billing")

	billing.GET("/:email", s.GetBilling)
	billing.GET("/:email/invoices/:session_id/pdf", s.GetInvoicePDF)
	billing.GET("/:email/receipts/:session_id/pdf", s.GetReceiptPDF)
}

func (s *Server) registerCheckoutRoutes() {
	checkout := s.engine.Group("/api/v1/checkout")

	checkout.POST("/success", s.CheckoutSuccess)
	checkout.POST("/sweep", s.CheckoutSweep)
	checkout.GET("/local", s.ListLocalCheckouts)
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "server_error", payload.Type
	}
	return "client_error", payload.Type
}
