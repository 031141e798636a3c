package http

import (
	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/internal/utils"
)

type Handler struct {
	services *service.Services
	uuid     *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		uuid:     utils.NewUUIDGenerator(),
		logger:   logger,
	}
}
