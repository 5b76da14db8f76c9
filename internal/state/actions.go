package state

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/syncads/internal/crypto"
	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/seed"
)

// ApiKeyPrefix starts every generated API key.
const ApiKeyPrefix = "sk_live_"

func newID() string { return uuid.Must(uuid.NewV4()).String() }

func hex32() string { return strings.ReplaceAll(newID(), "-", "") }

// Login opens a session for info. New sessions get the Pro plan.
func (s *Store) Login(info model.UserInfo) {
	_ = s.update(func(st *State) error {
		st.IsAuthenticated = true
		st.User = &model.User{
			Name:      info.Name,
			Email:     info.Email,
			AvatarURL: info.AvatarURL,
			Plan:      model.PlanPro,
		}
		return nil
	})
}

// Logout clears the session and resets per-session collections to seed.
// The AI prompt and AI connections survive a logout.
func (s *Store) Logout() {
	_ = s.update(func(st *State) error {
		st.IsAuthenticated = false
		st.User = nil
		st.SearchTerm = ""
		st.Campaigns = seed.Campaigns()
		st.ApiKeys = seed.ApiKeys()
		st.ConnectedIntegrations = seed.ConnectedIntegrations()
		st.Conversations = seed.Conversations()
		st.ActiveConversationID = seed.ActiveConversationID()
		st.IsAssistantTyping = false
		st.IsTwoFactorEnabled = false
		st.NotificationSettings = seed.NotificationSettings()
		return nil
	})
}

// UpdateUser merges p into the current user. It does nothing when logged out.
func (s *Store) UpdateUser(p model.UserPatch) {
	_ = s.update(func(st *State) error {
		if st.User == nil {
			return errNoop
		}
		if p.Name != nil {
			st.User.Name = *p.Name
		}
		if p.Email != nil {
			st.User.Email = *p.Email
		}
		if p.AvatarURL != nil {
			st.User.AvatarURL = *p.AvatarURL
		}
		if p.Plan != nil {
			st.User.Plan = *p.Plan
		}
		return nil
	})
}

// SetSearchTerm replaces the global search term.
func (s *Store) SetSearchTerm(term string) {
	_ = s.update(func(st *State) error {
		if st.SearchTerm == term {
			return errNoop
		}
		st.SearchTerm = term
		return nil
	})
}

// ToggleIntegration adds or removes id from the connected set. Both
// directions are idempotent.
func (s *Store) ToggleIntegration(id model.IntegrationID, connect bool) {
	_ = s.update(func(st *State) error {
		if st.IsConnected(id) == connect {
			return errNoop
		}
		if connect {
			st.ConnectedIntegrations = append(st.ConnectedIntegrations, id)
			return nil
		}
		out := st.ConnectedIntegrations[:0]
		for _, v := range st.ConnectedIntegrations {
			if v != id {
				out = append(out, v)
			}
		}
		st.ConnectedIntegrations = out
		return nil
	})
}

// SetActiveConversationID moves the active pointer. id is not checked
// against the collection; readers resolve it with State.ActiveConversation.
func (s *Store) SetActiveConversationID(id string) {
	_ = s.update(func(st *State) error {
		if st.ActiveConversationID == id {
			return errNoop
		}
		st.ActiveConversationID = id
		return nil
	})
}

// AddMessage appends msg to conversation convID. Missing ID and SentAt are
// generated. It returns errs.ErrNotFound when the conversation is absent.
func (s *Store) AddMessage(convID string, msg model.ChatMessage) (model.ChatMessage, error) {
	if msg.ID == "" {
		msg.ID = "msg-" + newID()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = s.now()
	}
	err := s.update(func(st *State) error {
		for i := range st.Conversations {
			if st.Conversations[i].ID == convID {
				st.Conversations[i].Messages = append(st.Conversations[i].Messages, msg)
				return nil
			}
		}
		return fmt.Errorf("conversation %q: %w", convID, errs.ErrNotFound)
	})
	if err != nil {
		return model.ChatMessage{}, err
	}
	return msg, nil
}

// SetAssistantTyping toggles the typing indicator.
func (s *Store) SetAssistantTyping(on bool) {
	_ = s.update(func(st *State) error {
		if st.IsAssistantTyping == on {
			return errNoop
		}
		st.IsAssistantTyping = on
		return nil
	})
}

// NewConversation prepends an empty conversation and makes it active.
func (s *Store) NewConversation(title string) model.ChatConversation {
	if strings.TrimSpace(title) == "" {
		title = "Nova conversa"
	}
	c := model.ChatConversation{ID: "conv-" + newID(), Title: title, Messages: []model.ChatMessage{}}
	_ = s.update(func(st *State) error {
		st.Conversations = append([]model.ChatConversation{c}, st.Conversations...)
		st.ActiveConversationID = c.ID
		return nil
	})
	return c
}

// DeleteConversation removes conversation id and reports whether it existed.
// Deleting the active conversation selects the first remaining one, or
// clears the pointer when none is left.
func (s *Store) DeleteConversation(id string) bool {
	removed := false
	_ = s.update(func(st *State) error {
		out := make([]model.ChatConversation, 0, len(st.Conversations))
		for _, c := range st.Conversations {
			if c.ID == id {
				removed = true
				continue
			}
			out = append(out, c)
		}
		if !removed {
			return errNoop
		}
		st.Conversations = out
		if st.ActiveConversationID == id {
			st.ActiveConversationID = ""
			if len(out) > 0 {
				st.ActiveConversationID = out[0].ID
			}
		}
		return nil
	})
	return removed
}

// AddCampaign creates a campaign from d with a fresh unique id and prepends
// it. Status defaults to Paused; metrics start at zero.
func (s *Store) AddCampaign(d model.CampaignDraft) model.Campaign {
	var created model.Campaign
	_ = s.update(func(st *State) error {
		id := campaignID()
		for _, ok := st.Campaign(id); ok; _, ok = st.Campaign(id) {
			id = campaignID()
		}
		status := d.Status
		if !status.Valid() {
			status = model.StatusPaused
		}
		created = model.Campaign{
			ID:          id,
			Name:        d.Name,
			Status:      status,
			Platform:    d.Platform,
			Objective:   d.Objective,
			DailyBudget: d.DailyBudget,
			BudgetSpent: d.BudgetSpent,
			BudgetTotal: d.BudgetTotal,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
			Audience:    d.Audience,
			CreatedAt:   s.now(),
		}
		created = created.Clone()
		st.Campaigns = append([]model.Campaign{created}, st.Campaigns...)
		return nil
	})
	return created.Clone()
}

func campaignID() string { return "CAM-" + strings.ToUpper(newID()[:4]) }

// UpdateCampaign merges p into campaign id and recomputes CTR and CPC.
func (s *Store) UpdateCampaign(id string, p model.CampaignPatch) error {
	return s.update(func(st *State) error {
		c := findCampaign(st, id)
		if c == nil {
			return fmt.Errorf("campaign %q: %w", id, errs.ErrNotFound)
		}
		applyPatch(c, p)
		return nil
	})
}

// UpdateCampaignStatus sets the status of campaign id.
func (s *Store) UpdateCampaignStatus(id string, status model.CampaignStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", errs.ErrValidation, status)
	}
	return s.update(func(st *State) error {
		c := findCampaign(st, id)
		if c == nil {
			return fmt.Errorf("campaign %q: %w", id, errs.ErrNotFound)
		}
		c.Status = status
		return nil
	})
}

// DeleteCampaign removes campaign id and reports whether it existed.
func (s *Store) DeleteCampaign(id string) bool {
	removed := false
	_ = s.update(func(st *State) error {
		out := make([]model.Campaign, 0, len(st.Campaigns))
		for _, c := range st.Campaigns {
			if c.ID == id {
				removed = true
				continue
			}
			out = append(out, c)
		}
		if !removed {
			return errNoop
		}
		st.Campaigns = out
		return nil
	})
	return removed
}

func findCampaign(st *State, id string) *model.Campaign {
	for i := range st.Campaigns {
		if st.Campaigns[i].ID == id {
			return &st.Campaigns[i]
		}
	}
	return nil
}

func applyPatch(c *model.Campaign, p model.CampaignPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Platform != nil {
		c.Platform = *p.Platform
	}
	if p.Objective != nil {
		c.Objective = *p.Objective
	}
	if p.DailyBudget != nil {
		c.DailyBudget = *p.DailyBudget
	}
	if p.BudgetSpent != nil {
		c.BudgetSpent = *p.BudgetSpent
	}
	if p.BudgetTotal != nil {
		c.BudgetTotal = *p.BudgetTotal
	}
	if p.Impressions != nil {
		c.Impressions = *p.Impressions
	}
	if p.Clicks != nil {
		c.Clicks = *p.Clicks
	}
	if p.Conversions != nil {
		c.Conversions = *p.Conversions
	}
	if p.StartDate != nil {
		t := *p.StartDate
		c.StartDate = &t
	}
	if p.EndDate != nil {
		t := *p.EndDate
		c.EndDate = &t
	}
	if p.Impressions != nil || p.Clicks != nil || p.BudgetSpent != nil {
		c.CTR, c.CPC = 0, 0
		if c.Impressions > 0 {
			c.CTR = float64(c.Clicks) / float64(c.Impressions) * 100
		}
		if c.Clicks > 0 {
			c.CPC = c.BudgetSpent / float64(c.Clicks)
		}
	}
}

// AddApiKey generates a key, stores its masked form and fingerprint, and
// returns the plaintext. The plaintext cannot be read back afterwards.
func (s *Store) AddApiKey() (model.ApiKey, string, error) {
	plain := ApiKeyPrefix + hex32()
	salt, err := crypto.RandBytes(crypto.SaltLen)
	if err != nil {
		return model.ApiKey{}, "", fmt.Errorf("api key salt: %w", err)
	}
	rec := model.ApiKey{
		ID:        "key-" + newID(),
		Masked:    crypto.Mask(plain),
		Hash:      crypto.HashKey([]byte(plain), salt),
		Salt:      salt,
		CreatedAt: s.now(),
	}
	_ = s.update(func(st *State) error {
		st.ApiKeys = append([]model.ApiKey{cloneKey(rec)}, st.ApiKeys...)
		return nil
	})
	return cloneKey(rec), plain, nil
}

// DeleteApiKey revokes key id and reports whether it existed.
func (s *Store) DeleteApiKey(id string) bool {
	removed := false
	_ = s.update(func(st *State) error {
		out := make([]model.ApiKey, 0, len(st.ApiKeys))
		for _, k := range st.ApiKeys {
			if k.ID == id {
				removed = true
				continue
			}
			out = append(out, k)
		}
		if !removed {
			return errNoop
		}
		st.ApiKeys = out
		return nil
	})
	return removed
}

// TouchApiKey records a use of plain. It returns the matching key id or
// errs.ErrNotFound when no stored fingerprint matches.
func (s *Store) TouchApiKey(plain string) (string, error) {
	var id string
	err := s.update(func(st *State) error {
		for i := range st.ApiKeys {
			k := &st.ApiKeys[i]
			if crypto.VerifyKey([]byte(plain), k.Salt, k.Hash) {
				now := s.now()
				k.LastUsed = &now
				id = k.ID
				return nil
			}
		}
		return fmt.Errorf("api key: %w", errs.ErrNotFound)
	})
	return id, err
}

// SetAiSystemPrompt replaces the assistant prompt.
func (s *Store) SetAiSystemPrompt(text string) {
	_ = s.update(func(st *State) error {
		if st.AiSystemPrompt == text {
			return errNoop
		}
		st.AiSystemPrompt = text
		return nil
	})
}

// SetTwoFactorEnabled sets the two-factor flag.
func (s *Store) SetTwoFactorEnabled(on bool) {
	_ = s.update(func(st *State) error {
		if st.IsTwoFactorEnabled == on {
			return errNoop
		}
		st.IsTwoFactorEnabled = on
		return nil
	})
}

// UpdateNotificationSettings merges p into the notification toggles.
func (s *Store) UpdateNotificationSettings(p model.NotificationPatch) {
	_ = s.update(func(st *State) error {
		n := &st.NotificationSettings
		set := func(dst *bool, v *bool) {
			if v != nil {
				*dst = *v
			}
		}
		set(&n.EmailSummary, p.EmailSummary)
		set(&n.EmailAlerts, p.EmailAlerts)
		set(&n.EmailNews, p.EmailNews)
		set(&n.PushMentions, p.PushMentions)
		set(&n.PushIntegrations, p.PushIntegrations)
		set(&n.PushSuggestions, p.PushSuggestions)
		return nil
	})
}

// AddAiConnection stores a provider record with a masked key.
func (s *Store) AddAiConnection(in model.AiConnectionInput) model.AiConnection {
	c := model.AiConnection{
		ID:           "conn-" + newID(),
		Name:         in.Name,
		APIKeyMasked: crypto.Mask(in.APIKey),
		BaseURL:      in.BaseURL,
		Status:       model.ConnUntested,
	}
	_ = s.update(func(st *State) error {
		st.AiConnections = append(st.AiConnections, c)
		return nil
	})
	return c
}

// UpdateAiConnection replaces name and base URL of connection id. A non-empty
// APIKey replaces the stored mask; any change resets the status to untested.
func (s *Store) UpdateAiConnection(id string, in model.AiConnectionInput) (model.AiConnection, error) {
	var out model.AiConnection
	err := s.update(func(st *State) error {
		for i := range st.AiConnections {
			c := &st.AiConnections[i]
			if c.ID != id {
				continue
			}
			c.Name = in.Name
			c.BaseURL = in.BaseURL
			if in.APIKey != "" {
				c.APIKeyMasked = crypto.Mask(in.APIKey)
			}
			c.Status = model.ConnUntested
			out = *c
			return nil
		}
		return fmt.Errorf("ai connection %q: %w", id, errs.ErrNotFound)
	})
	return out, err
}

// DeleteAiConnection removes connection id and reports whether it existed.
func (s *Store) DeleteAiConnection(id string) bool {
	removed := false
	_ = s.update(func(st *State) error {
		out := make([]model.AiConnection, 0, len(st.AiConnections))
		for _, c := range st.AiConnections {
			if c.ID == id {
				removed = true
				continue
			}
			out = append(out, c)
		}
		if !removed {
			return errNoop
		}
		st.AiConnections = out
		return nil
	})
	return removed
}
