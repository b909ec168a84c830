package customers

import (
	"github.com/innovatun/console/internal/customers/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customers.service",
	fx.Provide(service.New),
)
