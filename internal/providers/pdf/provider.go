package pdf

import (
	"context"
	"io"

	"github.com/innovatun/console/internal/billing"
	"github.com/innovatun/console/internal/config"
	"github.com/innovatun/console/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Provider renders billing documents as PDF streams.
type Provider interface {
	GenerateInvoice(ctx context.Context, row billing.Record) (io.Reader, error)
	GenerateReceipt(ctx context.Context, row billing.Record) (io.Reader, error)
}

type Params struct {
	fx.In

	Holder  *config.ConsoleConfigHolder
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type provider struct {
	holder  *config.ConsoleConfigHolder
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(p Params) Provider {
	return &provider{
		holder:  p.Holder,
		log:     p.Log.Named("providers.pdf"),
		metrics: p.Metrics,
	}
}

func (p *provider) company() config.CompanyConfig {
	return p.holder.Get().Company
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
