package main

import (
	"userapp/config"
	"userapp/database"
	"userapp/openapi"
	"userapp/server"
	"userapp/services/auth"
	"userapp/services/logging"
	"userapp/services/mail"
	"userapp/services/token"
	"userapp/users"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		logging.Module,
		fx.Provide(func() *database.ModelsOption {
			return database.WithModels(&users.User{}, &auth.EmailCode{})
		}),
		database.Module,
		mail.Module,
		fx.Provide(func(m *mail.Service) users.Mailer { return m }),
		token.Module,
		auth.Module,
		users.Module,
		openapi.Module,
		server.Module,
	).Run()
}
