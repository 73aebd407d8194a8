package main

import (
	"os"

	"github.com/deniz/campuslink/internal/pkg/logger"
	"github.com/deniz/campuslink/internal/server"
)

// @title CampusLink API
// @version 1.0
// @description Campus portal API for students, faculty, recruiters and institution admins

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token issued by the identity provider

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
