// Package seed holds the initial dataset used on first load and after logout.
// Every accessor returns a fresh copy, so callers may keep the result.
package seed

import (
	"time"

	"github.com/and161185/syncads/internal/model"
)

// DefaultSystemPrompt is the AI assistant prompt shipped with a new install.
const DefaultSystemPrompt = "Você é o SyncAds AI, um assistente de marketing digital especializado em otimização de campanhas. " +
	"Seja proativo, criativo e forneça insights baseados em dados. Suas respostas devem ser claras, concisas e " +
	"sempre focadas em ajudar o usuário a atingir seus objetivos de marketing."

var epoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// Campaigns returns the seed campaign collection, newest-first.
func Campaigns() []model.Campaign {
	rows := []struct {
		id, name    string
		status      model.CampaignStatus
		platform    model.Platform
		spent, tot  float64
		imp, clk, c int64
	}{
		{"CAM-001", "Lançamento Verão 2025", model.StatusActive, model.PlatformMeta, 1500, 2000, 120500, 2340, 112},
		{"CAM-002", "Promoção Black Friday", model.StatusCompleted, model.PlatformGoogleAds, 5000, 5000, 850200, 15600, 980},
		{"CAM-003", "Geração de Leads B2B", model.StatusActive, model.PlatformLinkedIn, 800, 3000, 45000, 980, 45},
		{"CAM-004", "Campanha de Remarketing", model.StatusPaused, model.PlatformGoogleAds, 300, 1000, 78000, 1200, 60},
		{"CAM-005", "Divulgação App Mobile", model.StatusActive, model.PlatformMeta, 2500, 4000, 350000, 8800, 420},
		{"CAM-006", "Webinar de Marketing Digital", model.StatusCompleted, model.PlatformLinkedIn, 1200, 1200, 30000, 1500, 250},
		{"CAM-007", "Teste A/B de Anúncios", model.StatusPaused, model.PlatformMeta, 150, 500, 25000, 400, 15},
		{"CAM-008", "Campanha Institucional 2025", model.StatusActive, model.PlatformGoogleAds, 3200, 10000, 450000, 7500, 300},
		{"CAM-009", "Vendas de Inverno", model.StatusActive, model.PlatformMeta, 500, 1500, 95000, 1800, 95},
		{"CAM-010", "Recrutamento de Talentos", model.StatusCompleted, model.PlatformLinkedIn, 2000, 2000, 80000, 400, 12},
	}
	out := make([]model.Campaign, 0, len(rows))
	for i, r := range rows {
		c := model.Campaign{
			ID:          r.id,
			Name:        r.name,
			Status:      r.status,
			Platform:    r.platform,
			BudgetSpent: r.spent,
			BudgetTotal: r.tot,
			Impressions: r.imp,
			Clicks:      r.clk,
			Conversions: r.c,
			CreatedAt:   epoch.AddDate(0, 0, -i),
		}
		if r.imp > 0 {
			c.CTR = float64(r.clk) / float64(r.imp) * 100
		}
		if r.clk > 0 {
			c.CPC = r.spent / float64(r.clk)
		}
		out = append(out, c)
	}
	return out
}

// ApiKeys returns the seed API keys. Only masks are known for them.
func ApiKeys() []model.ApiKey {
	used := epoch.AddDate(0, 0, -2)
	return []model.ApiKey{
		{ID: "key-1", Masked: "sk_live_a1b2c3d...", CreatedAt: epoch.AddDate(0, -1, 0), LastUsed: &used},
		{ID: "key-2", Masked: "sk_live_e5f6g7h...", CreatedAt: epoch.AddDate(0, -3, 0)},
	}
}

// Conversations returns the seed chat threads.
func Conversations() []model.ChatConversation {
	return []model.ChatConversation{
		{
			ID:    "conv-1",
			Title: "Otimização de Campanha de Verão",
			Messages: []model.ChatMessage{
				{ID: "msg-1", Role: model.RoleUser, Content: "Como posso melhorar o CTR da campanha de verão?", SentAt: epoch},
				{ID: "msg-2", Role: model.RoleAssistant, Content: "Teste novos criativos com chamadas mais diretas e segmente por interesses de viagem.", SentAt: epoch.Add(time.Minute)},
			},
		},
		{
			ID:    "conv-2",
			Title: "Ideias para Black Friday",
			Messages: []model.ChatMessage{
				{ID: "msg-3", Role: model.RoleUser, Content: "Sugira três ângulos para anúncios de Black Friday.", SentAt: epoch.AddDate(0, 0, -1)},
			},
		},
	}
}

// ActiveConversationID is the pointer set on a fresh store: the first seed thread.
func ActiveConversationID() string {
	conv := Conversations()
	if len(conv) == 0 {
		return ""
	}
	return conv[0].ID
}

// Integrations returns the catalog of connectable integrations.
func Integrations() []model.Integration {
	return []model.Integration{
		{ID: "google-analytics", Name: "Google Analytics", Category: "Analytics", Description: "Importe métricas de tráfego e conversão."},
		{ID: "google-ads", Name: "Google Ads", Category: "Anúncios", Description: "Sincronize campanhas de pesquisa e display."},
		{ID: "meta-ads", Name: "Meta Ads", Category: "Anúncios", Description: "Gerencie campanhas do Facebook e Instagram."},
		{ID: "linkedin-ads", Name: "LinkedIn Ads", Category: "Anúncios", Description: "Campanhas B2B e geração de leads."},
		{ID: "github", Name: "GitHub", Category: "Desenvolvimento", Description: "Automatize landing pages a partir de repositórios."},
		{ID: "slack", Name: "Slack", Category: "Comunicação", Description: "Receba alertas de campanha em canais."},
		{ID: "hubspot", Name: "HubSpot", Category: "CRM", Description: "Envie leads convertidos para o CRM."},
		{ID: "mailchimp", Name: "Mailchimp", Category: "E-mail", Description: "Sincronize audiências de e-mail."},
		{ID: "shopify", Name: "Shopify", Category: "E-commerce", Description: "Acompanhe vendas atribuídas às campanhas."},
	}
}

// ConnectedIntegrations returns the integrations connected on a fresh store.
func ConnectedIntegrations() []model.IntegrationID {
	return []model.IntegrationID{"google-analytics", "github"}
}

// NotificationSettings returns the default toggles.
func NotificationSettings() model.NotificationSettings {
	return model.NotificationSettings{
		EmailSummary:     true,
		EmailAlerts:      true,
		EmailNews:        false,
		PushMentions:     true,
		PushIntegrations: false,
		PushSuggestions:  true,
	}
}

// IsIntegration reports whether id exists in the catalog.
func IsIntegration(id model.IntegrationID) bool {
	for _, in := range Integrations() {
		if in.ID == id {
			return true
		}
	}
	return false
}
