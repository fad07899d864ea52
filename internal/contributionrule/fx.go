package contributionrule

import (
	"github.com/openjustice/contribution-engine/internal/contributionrule/repository"
	"github.com/openjustice/contribution-engine/internal/contributionrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contributionrule.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
