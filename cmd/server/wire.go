// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"pet_rescue_backend/internal/adoption"
	"pet_rescue_backend/internal/app"
	"pet_rescue_backend/internal/auth"
	"pet_rescue_backend/internal/config"
	"pet_rescue_backend/internal/jobs"
	"pet_rescue_backend/internal/lostpet"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/pet"
	"pet_rescue_backend/internal/platform/database"
	"pet_rescue_backend/internal/platform/logger"
	"pet_rescue_backend/internal/transfer"
	"pet_rescue_backend/internal/user"
	"pet_rescue_backend/internal/vaccination"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Token issuing and verification
		auth.NewJWTService, // Provides shared.TokenService

		// Core User Services
		user.NewGORMRepository, // Provides user.Repository
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		user.NewSharedServiceAdapter, // Provides shared.Service for other modules
		user.NewHandler,
		auth.NewHandler, // Needs user.Service for credential checks

		// Pets
		pet.NewGORMRepository,
		pet.NewService,
		wire.Bind(new(pet.Service), new(*pet.ServiceImplementation)),
		pet.NewHandler,

		// Notifications (outbox + sink)
		notification.NewGORMRepository,
		notification.NewService,
		wire.Bind(new(notification.Service), new(*notification.ServiceImplementation)),
		notification.NewZapSink,
		wire.Bind(new(notification.Sink), new(*notification.ZapSink)),
		notification.NewHandler,

		// Adoption workflow
		adoption.NewGORMRepository,
		adoption.NewService,
		wire.Bind(new(adoption.Service), new(*adoption.ServiceImplementation)),
		adoption.NewHandler,

		// Transfer coordination
		transfer.NewGORMRepository,
		transfer.NewService,
		wire.Bind(new(transfer.Service), new(*transfer.ServiceImplementation)),
		transfer.NewHandler,

		// Lost and found
		lostpet.NewGORMRepository,
		lostpet.NewService,
		wire.Bind(new(lostpet.Service), new(*lostpet.ServiceImplementation)),
		lostpet.NewHandler,

		// Vaccination records
		vaccination.NewGORMRepository,
		vaccination.NewService,
		wire.Bind(new(vaccination.Service), new(*vaccination.ServiceImplementation)),
		vaccination.NewHandler,

		// Jobs
		jobs.NewOutboxDispatchJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
