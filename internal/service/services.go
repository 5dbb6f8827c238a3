package service

import (
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/notify"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type Services struct {
	AuthService        AuthService
	TokenService       TokenService
	ActionTokenService ActionTokenService
	UserService        UserService
	TaskService        TaskService
	AppInfoService     AppInfoService
}

func NewServices(storages *store.Storages, notifier notify.Notifier, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) *Services {
	tokens := NewTokenService(cfg.App, storages.Revocations, logger)
	actionTokens := NewActionTokenService(storages.ActionTokens, cfg.App, logger)

	return &Services{
		AuthService:        NewAuthService(storages.Users, tokens, actionTokens, notifier, cfg.App, logger),
		TokenService:       tokens,
		ActionTokenService: actionTokens,
		UserService:        NewUserService(storages.Users, logger),
		TaskService:        NewTaskService(storages.Tasks, storages.Users, notifier, logger),
		AppInfoService:     NewAppInfoService(cfg.App, buildInfo, logger),
	}
}
