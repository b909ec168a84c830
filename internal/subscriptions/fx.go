package subscriptions

import (
	"github.com/innovatun/console/internal/subscriptions/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscriptions.service",
	fx.Provide(service.New),
)
