package auth

import (
	"github.com/smallbiznis/inkwell/internal/auth/repository"
	"github.com/smallbiznis/inkwell/internal/auth/service"
	"github.com/smallbiznis/inkwell/internal/auth/session"
	"github.com/smallbiznis/inkwell/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(token.NewManager),
	session.Module,
)
