package openapi

import (
	"userapp/config"
	"userapp/server"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Invoke(func(srv *server.Server, cfg *config.Config) {
		Register(srv.Echo(), Document(cfg.App.Name))
	}),
)
