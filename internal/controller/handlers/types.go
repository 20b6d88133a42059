package handlers

import (
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/navigation"
	"github.com/Freeeeeet/quran_academy/internal/service"
)

// Handlers содержит все зависимости для обработки команд и callback
type Handlers struct {
	userService    *service.UserService
	bookingService *service.BookingService
	navigation     *navigation.Manager
	location       *time.Location
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	bookingService *service.BookingService,
	nav *navigation.Manager,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	if location == nil {
		location = time.UTC
	}

	return &Handlers{
		userService:    userService,
		bookingService: bookingService,
		navigation:     nav,
		location:       location,
		logger:         logger,
	}
}
