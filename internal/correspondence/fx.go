package correspondence

import (
	"github.com/openjustice/contribution-engine/internal/correspondence/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("correspondence.repository",
	fx.Provide(repository.NewRepository),
)
