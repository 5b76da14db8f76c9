package service

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/delay"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/state"
	"github.com/and161185/syncads/internal/validate"
)

// MaxPromptChars bounds the AI system prompt.
const MaxPromptChars = 2000

// SettingsStore is the part of the Store used by SettingsService.
type SettingsStore interface {
	State() state.State
	SetAiSystemPrompt(text string)
	SetTwoFactorEnabled(on bool)
	UpdateNotificationSettings(p model.NotificationPatch)
	AddAiConnection(in model.AiConnectionInput) model.AiConnection
	UpdateAiConnection(id string, in model.AiConnectionInput) (model.AiConnection, error)
	DeleteAiConnection(id string) bool
	AddApiKey() (model.ApiKey, string, error)
	DeleteApiKey(id string) bool
}

// SettingsService backs the settings tabs: AI prompt and connections, API
// keys, security and notifications.
type SettingsService interface {
	SavePrompt(ctx context.Context, text string) error
	AddConnection(in model.AiConnectionInput) (model.AiConnection, error)
	UpdateConnection(id string, in model.AiConnectionInput) (model.AiConnection, error)
	DeleteConnection(id string) bool
	GenerateApiKey() (model.ApiKey, string, error)
	RevokeApiKey(id string) bool
	SetTwoFactor(on bool)
	SetNotification(field string, on bool) error
}

type SettingsServiceImpl struct {
	store  SettingsStore
	delays Delays
	log    *zap.Logger
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(store SettingsStore, d Delays, log *zap.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{store: store, delays: d, log: nopIfNil(log)}
}

// SavePrompt stores the system prompt after the edit delay.
func (s *SettingsServiceImpl) SavePrompt(ctx context.Context, text string) error {
	if n := utf8.RuneCountInString(text); n > MaxPromptChars {
		fe := validate.FieldErrors{}
		fe.Add("prompt", "prompt exceeds 2000 characters")
		return fe
	}
	if err := delay.Wait(ctx, s.delays.Edit); err != nil {
		return err
	}
	s.store.SetAiSystemPrompt(text)
	s.log.Info("system prompt saved", zap.Int("chars", utf8.RuneCountInString(text)))
	return nil
}

// AddConnection validates and stores an AI provider connection.
func (s *SettingsServiceImpl) AddConnection(in model.AiConnectionInput) (model.AiConnection, error) {
	in = trimConn(in)
	if err := validateConn(in, true).Err(); err != nil {
		return model.AiConnection{}, err
	}
	c := s.store.AddAiConnection(in)
	s.log.Info("ai connection added", zap.String("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// UpdateConnection edits connection id. An empty API key keeps the stored one.
func (s *SettingsServiceImpl) UpdateConnection(id string, in model.AiConnectionInput) (model.AiConnection, error) {
	in = trimConn(in)
	if err := validateConn(in, false).Err(); err != nil {
		return model.AiConnection{}, err
	}
	return s.store.UpdateAiConnection(id, in)
}

// DeleteConnection removes connection id.
func (s *SettingsServiceImpl) DeleteConnection(id string) bool {
	return s.store.DeleteAiConnection(id)
}

// GenerateApiKey returns the stored record and the plaintext shown once.
func (s *SettingsServiceImpl) GenerateApiKey() (model.ApiKey, string, error) {
	k, plain, err := s.store.AddApiKey()
	if err != nil {
		return model.ApiKey{}, "", err
	}
	s.log.Info("api key generated", zap.String("id", k.ID), zap.String("masked", k.Masked))
	return k, plain, nil
}

// RevokeApiKey deletes key id.
func (s *SettingsServiceImpl) RevokeApiKey(id string) bool {
	ok := s.store.DeleteApiKey(id)
	if ok {
		s.log.Info("api key revoked", zap.String("id", id))
	}
	return ok
}

// SetTwoFactor flips the two-factor flag.
func (s *SettingsServiceImpl) SetTwoFactor(on bool) {
	s.store.SetTwoFactorEnabled(on)
}

// NotificationFields lists the toggle names accepted by SetNotification.
var NotificationFields = []string{
	"emailSummary", "emailAlerts", "emailNews",
	"pushMentions", "pushIntegrations", "pushSuggestions",
}

// SetNotification sets one toggle by its JSON name.
func (s *SettingsServiceImpl) SetNotification(field string, on bool) error {
	var p model.NotificationPatch
	switch field {
	case "emailSummary":
		p.EmailSummary = &on
	case "emailAlerts":
		p.EmailAlerts = &on
	case "emailNews":
		p.EmailNews = &on
	case "pushMentions":
		p.PushMentions = &on
	case "pushIntegrations":
		p.PushIntegrations = &on
	case "pushSuggestions":
		p.PushSuggestions = &on
	default:
		fe := validate.FieldErrors{}
		fe.Add("field", "unknown notification "+field)
		return fe
	}
	s.store.UpdateNotificationSettings(p)
	return nil
}

func trimConn(in model.AiConnectionInput) model.AiConnectionInput {
	return model.AiConnectionInput{
		Name:    strings.TrimSpace(in.Name),
		APIKey:  strings.TrimSpace(in.APIKey),
		BaseURL: strings.TrimSpace(in.BaseURL),
	}
}

func validateConn(in model.AiConnectionInput, keyRequired bool) validate.FieldErrors {
	fe := validate.FieldErrors{}
	if in.Name == "" {
		fe.Add("name", "name is required")
	}
	if keyRequired && in.APIKey == "" {
		fe.Add("apiKey", "API key is required")
	}
	if in.BaseURL != "" {
		u, err := url.Parse(in.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			fe.Add("baseUrl", "base URL must be a valid URL")
		}
	}
	return fe
}
