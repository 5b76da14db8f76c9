// Package model defines domain entities held by the store and consumed by views.
package model

import (
	"time"
)

// CampaignStatus is the lifecycle state of a campaign. Values are the wire strings.
type CampaignStatus string

const (
	StatusActive    CampaignStatus = "Ativa"
	StatusPaused    CampaignStatus = "Pausada"
	StatusCompleted CampaignStatus = "Concluída"
)

// Valid reports whether s is a known status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Platform is the ad network a campaign runs on.
type Platform string

const (
	PlatformGoogleAds Platform = "Google Ads"
	PlatformMeta      Platform = "Meta"
	PlatformLinkedIn  Platform = "LinkedIn"
)

// Platforms lists the supported platforms in display order.
var Platforms = []Platform{PlatformGoogleAds, PlatformMeta, PlatformLinkedIn}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

// Audience is the targeting collected by the creation wizard.
type Audience struct {
	Country   string   `json:"country,omitempty"`
	AgeRange  string   `json:"ageRange,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// Campaign is a single marketing campaign. BudgetSpent <= BudgetTotal is not enforced.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      CampaignStatus `json:"status"`
	Platform    Platform       `json:"platform"`
	Objective   string         `json:"objective,omitempty"`
	DailyBudget float64        `json:"dailyBudget,omitempty"`
	BudgetSpent float64        `json:"budgetSpent"`
	BudgetTotal float64        `json:"budgetTotal"`
	Impressions int64          `json:"impressions"`
	Clicks      int64          `json:"clicks"`
	Conversions int64          `json:"conversions"`
	CTR         float64        `json:"ctr"`
	CPC         float64        `json:"cpc"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	Audience    Audience       `json:"audience"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// BudgetPercent returns spent/total in percent, 0 when total is not positive.
func (c Campaign) BudgetPercent() float64 {
	if c.BudgetTotal <= 0 {
		return 0
	}
	return c.BudgetSpent / c.BudgetTotal * 100
}

// Clone returns a copy that shares no slices or pointers with c.
func (c Campaign) Clone() Campaign {
	out := c
	out.Audience.Interests = append([]string(nil), c.Audience.Interests...)
	if c.StartDate != nil {
		t := *c.StartDate
		out.StartDate = &t
	}
	if c.EndDate != nil {
		t := *c.EndDate
		out.EndDate = &t
	}
	return out
}

// CampaignDraft is the input of the create action. Zero metrics stay zero.
type CampaignDraft struct {
	Name        string
	Status      CampaignStatus // defaults to StatusPaused
	Platform    Platform
	Objective   string
	DailyBudget float64
	BudgetTotal float64
	BudgetSpent float64
	StartDate   *time.Time
	EndDate     *time.Time
	Audience    Audience
}

// CampaignPatch is a shallow merge; nil fields are left untouched.
type CampaignPatch struct {
	Name        *string
	Status      *CampaignStatus
	Platform    *Platform
	Objective   *string
	DailyBudget *float64
	BudgetSpent *float64
	BudgetTotal *float64
	Impressions *int64
	Clicks      *int64
	Conversions *int64
	StartDate   *time.Time
	EndDate     *time.Time
}

// ApiKey is a stored API key record. The plaintext key is never kept.
type ApiKey struct {
	ID        string     `json:"id"`
	Masked    string     `json:"masked"`
	Hash      []byte     `json:"hash,omitempty"`
	Salt      []byte     `json:"salt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	LastUsed  *time.Time `json:"lastUsed,omitempty"` // nil = never used
}

// ChatRole is the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is an append-only entry of a conversation.
type ChatMessage struct {
	ID      string    `json:"id"`
	Role    ChatRole  `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt,omitempty"`
}

// ChatConversation is an ordered message thread.
type ChatConversation struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

// Clone returns a copy with its own message slice.
func (c ChatConversation) Clone() ChatConversation {
	out := c
	out.Messages = append([]ChatMessage(nil), c.Messages...)
	return out
}

// IntegrationID identifies an entry of the integration catalog.
type IntegrationID string

// Integration is a catalog entry the user may connect.
type Integration struct {
	ID          IntegrationID `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
}

// AiConnectionStatus reflects the last check of an AI provider connection.
type AiConnectionStatus string

const (
	ConnUntested AiConnectionStatus = "untested"
	ConnOK       AiConnectionStatus = "ok"
	ConnFailed   AiConnectionStatus = "failed"
)

// AiConnection is a stored AI provider record. It is displayed, never dialed.
type AiConnection struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	APIKeyMasked string             `json:"apiKeyMasked"`
	BaseURL      string             `json:"baseUrl,omitempty"`
	Status       AiConnectionStatus `json:"status"`
}

// AiConnectionInput is the create/update payload of an AI connection.
type AiConnectionInput struct {
	Name    string
	APIKey  string
	BaseURL string
}

// NotificationSettings holds the email/push toggles.
type NotificationSettings struct {
	EmailSummary     bool `json:"emailSummary"`
	EmailAlerts      bool `json:"emailAlerts"`
	EmailNews        bool `json:"emailNews"`
	PushMentions     bool `json:"pushMentions"`
	PushIntegrations bool `json:"pushIntegrations"`
	PushSuggestions  bool `json:"pushSuggestions"`
}

// NotificationPatch is a shallow merge over NotificationSettings.
type NotificationPatch struct {
	EmailSummary     *bool
	EmailAlerts      *bool
	EmailNews        *bool
	PushMentions     *bool
	PushIntegrations *bool
	PushSuggestions  *bool
}

// Plan is the subscription tier of a user.
type Plan string

const (
	PlanFree       Plan = "Free"
	PlanPro        Plan = "Pro"
	PlanEnterprise Plan = "Enterprise"
)

// User is the signed-in profile.
type User struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	Plan      Plan   `json:"plan"`
}

// UserInfo is the login payload; the plan is assigned by the store.
type UserInfo struct {
	Name      string
	Email     string
	AvatarURL string
}

// UserPatch is a shallow merge over User.
type UserPatch struct {
	Name      *string
	Email     *string
	AvatarURL *string
	Plan      *Plan
}
