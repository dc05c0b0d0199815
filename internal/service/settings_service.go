package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/classboard/classboard-api/internal/dto"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
)

// SettingsService exposes the app-wide configuration, including the forced
// dashboard assignment pin.
type SettingsService interface {
	Global(ctx context.Context) (dto.GlobalSettingsResponse, error)
	SetForcedTask(ctx context.Context, payload dto.ForcedTaskRequest) (dto.GlobalSettingsResponse, error)
}

type settingsService struct {
	repo   repository.SettingsRepository
	logger zerolog.Logger
}

// NewSettingsService builds the settings service.
func NewSettingsService(repo repository.SettingsRepository, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		logger: logger.With().Str("component", "settings_service").Logger(),
	}
}

func (s *settingsService) Global(ctx context.Context) (dto.GlobalSettingsResponse, error) {
	setting, err := s.repo.Global(ctx)
	if err != nil {
		return dto.GlobalSettingsResponse{}, err
	}
	return globalResponse(setting), nil
}

func (s *settingsService) SetForcedTask(ctx context.Context, payload dto.ForcedTaskRequest) (dto.GlobalSettingsResponse, error) {
	var value interface{}
	if payload.TaskID != "" {
		value = payload.TaskID
	}
	if err := s.repo.MergeGlobal(ctx, map[string]interface{}{models.GlobalSettingForcedTaskID: value}); err != nil {
		return dto.GlobalSettingsResponse{}, err
	}

	bumpVersion(ctx, s.repo, s.logger)
	s.logger.Info().Str("task_id", payload.TaskID).Msg("forced dashboard task updated")
	return s.Global(ctx)
}

func globalResponse(setting models.Setting) dto.GlobalSettingsResponse {
	response := dto.GlobalSettingsResponse{Payload: setting.Payload}
	if forced, ok := setting.Payload[models.GlobalSettingForcedTaskID].(string); ok {
		response.ForcedTaskID = forced
	}
	return response
}
