package blog

import (
	"github.com/smallbiznis/inkwell/internal/blog/domain"
	"github.com/smallbiznis/inkwell/internal/blog/service"
	"github.com/smallbiznis/inkwell/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("blog.service",
	fx.Provide(repository.ProvideStore[domain.Blog]),
	fx.Provide(repository.ProvideStore[domain.Comment]),
	fx.Provide(repository.ProvideStore[domain.Review]),
	fx.Provide(service.NewService),
)
