package checkout

import (
	"github.com/innovatun/console/internal/checkout/repository"
	"github.com/innovatun/console/internal/checkout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("checkout.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
