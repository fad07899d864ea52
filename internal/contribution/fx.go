package contribution

import (
	"github.com/openjustice/contribution-engine/internal/contribution/repository"
	"github.com/openjustice/contribution-engine/internal/contribution/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contribution.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
