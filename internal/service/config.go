// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"spordle/internal/config"
	"spordle/internal/domain/matching"
	"spordle/internal/domain/round"
	"spordle/internal/model"
)

// ConfigService содержит бизнес-логику для работы с конфигурацией
type ConfigService struct {
	repo   model.ConfigRepository
	logger *zap.Logger
}

// NewConfigService создает новый сервис конфигурации
func NewConfigService(repo model.ConfigRepository, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		repo:   repo,
		logger: logger,
	}
}

// Set проверяет и устанавливает значение конфигурации
func (s *ConfigService) Set(ctx context.Context, key, value string) error {
	if err := validateConfigValue(key, value); err != nil {
		return err
	}

	if err := s.repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}

	s.logger.Info("Config updated", zap.String("key", key), zap.String("value", value))
	return nil
}

// Get возвращает значение конфигурации
func (s *ConfigService) Get(ctx context.Context, key string) (string, error) {
	cfg, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}

	if cfg == nil {
		return "", fmt.Errorf("config %s not found", key)
	}

	return cfg.Value, nil
}

// GetAll возвращает всю конфигурацию; секреты скрыты
func (s *ConfigService) GetAll(ctx context.Context) (map[string]string, error) {
	configs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all configs: %w", err)
	}

	result := make(map[string]string, len(configs))
	for _, c := range configs {
		if c.Key == "SPOTIFY_CLIENT_SECRET" && c.Value != "" {
			result[c.Key] = "[hidden]"
			continue
		}
		result[c.Key] = c.Value
	}
	return result, nil
}

// Reset сбрасывает конфигурацию к значениям по умолчанию
func (s *ConfigService) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset config: %w", err)
	}

	s.logger.Info("Config reset to default values")
	return nil
}

// GetInt возвращает значение конфигурации как int
func (s *ConfigService) GetInt(ctx context.Context, key string) (int, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse config %s as int: %w", key, err)
	}

	return intValue, nil
}

// GetBool возвращает значение конфигурации как bool
func (s *ConfigService) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}

	return strings.EqualFold(value, "true"), nil
}

// validateConfigValue проверяет значения игровых ключей до записи в базу
func validateConfigValue(key, value string) error {
	switch key {
	case model.ConfigJudgePolicy:
		return model.ValidateEnum(key, value, []string{matching.PolicyRatio, matching.PolicyLenient})
	case model.ConfigEligibility:
		return model.ValidateEnum(key, value, []string{round.EligibilityLatin, round.EligibilityAny})
	case model.ConfigTopWindow:
		return model.ValidateEnum(key, value, []string{string(round.ShortTerm), string(round.MediumTerm), string(round.LongTerm)})
	case model.ConfigAllowSubstring:
		return model.ValidateEnum(key, strings.ToLower(value), []string{"true", "false"})
	case model.ConfigLongThreshold, model.ConfigShortThreshold:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 100 {
			return model.ValidationError{Field: key, Message: "must be an integer within 0..100"}
		}
	}
	return nil
}

// GameSettings - настройки, которые применяются к каждому раунду и каждой проверке ответа
type GameSettings struct {
	Policy          matching.Policy   `json:"policy"`
	EligibilityName string            `json:"eligibility"`
	Eligibility     round.Eligibility `json:"-"`
	TopWindow       round.TimeWindow  `json:"top_window"`
}

// DefaultGameSettings возвращает настройки по умолчанию
func DefaultGameSettings() GameSettings {
	return GameSettings{
		Policy:          matching.RatioPolicy,
		EligibilityName: round.EligibilityLatin,
		Eligibility:     round.LatinTitle,
		TopWindow:       round.MediumTerm,
	}
}

// BuildGameSettings переводит строковую конфигурацию в игровые настройки
func BuildGameSettings(g config.GameConfig) (GameSettings, error) {
	settings := DefaultGameSettings()

	policy, err := matching.PolicyByName(g.JudgePolicy)
	if err != nil {
		return GameSettings{}, err
	}
	if g.LongThreshold > 0 {
		policy.LongThreshold = g.LongThreshold
	}
	if g.ShortThreshold > 0 {
		policy.ShortThreshold = g.ShortThreshold
	}
	if g.AllowSubstring != "" {
		allow, err := strconv.ParseBool(g.AllowSubstring)
		if err != nil {
			return GameSettings{}, fmt.Errorf("invalid GAME_ALLOW_SUBSTRING %q: %w", g.AllowSubstring, err)
		}
		policy.AllowSubstring = allow
	}
	if err := policy.Validate(); err != nil {
		return GameSettings{}, err
	}
	settings.Policy = policy

	if g.Eligibility != "" {
		eligible, err := round.EligibilityByName(g.Eligibility)
		if err != nil {
			return GameSettings{}, err
		}
		settings.Eligibility = eligible
		settings.EligibilityName = strings.ToLower(strings.TrimSpace(g.Eligibility))
	}

	switch w := round.TimeWindow(strings.TrimSpace(g.TopWindow)); w {
	case "":
	case round.ShortTerm, round.MediumTerm, round.LongTerm:
		settings.TopWindow = w
	default:
		return GameSettings{}, fmt.Errorf("unknown top window %q", g.TopWindow)
	}

	return settings, nil
}

// sameAs сравнивает настройки без учета функции фильтра
func (s GameSettings) sameAs(other GameSettings) bool {
	return s.Policy == other.Policy &&
		s.EligibilityName == other.EligibilityName &&
		s.TopWindow == other.TopWindow
}
