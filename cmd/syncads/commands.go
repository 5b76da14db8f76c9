package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/service"
	"github.com/and161185/syncads/internal/view"
	"github.com/and161185/syncads/internal/wizard"
)

type handler func(ctx context.Context, a *app, args []string) error

var commands = map[string]handler{
	"login":        cmdLogin,
	"logout":       cmdLogout,
	"whoami":       cmdWhoami,
	"campaigns":    cmdCampaigns,
	"active":       cmdActive,
	"recent":       cmdRecent,
	"summary":      cmdSummary,
	"new":          cmdNew,
	"edit":         cmdEdit,
	"toggle":       cmdToggle,
	"rm":           cmdRm,
	"integrations": cmdIntegrations,
	"connect":      cmdConnect,
	"disconnect":   cmdDisconnect,
	"keys":         cmdKeys,
	"keys-new":     cmdKeysNew,
	"keys-rm":      cmdKeysRm,
	"chat":         cmdChat,
	"chat-new":     cmdChatNew,
	"chat-rm":      cmdChatRm,
	"say":          cmdSay,
	"prompt":       cmdPrompt,
	"ai":           cmdAi,
	"ai-add":       cmdAiAdd,
	"ai-edit":      cmdAiEdit,
	"ai-rm":        cmdAiRm,
	"2fa":          cmd2FA,
	"notify":       cmdNotify,
	"show":         cmdShow,
	"reset":        cmdReset,
}

// ------- helpers -------

func newFlags(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// need reports a missing required flag as a usage error.
func need(a *app, cond bool, msg string) error {
	if cond {
		return nil
	}
	fmt.Fprintln(a.stderr, msg)
	return errUsage
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

const dateLayout = "2006-01-02"

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return &t, nil
}

// ------- session -------

func cmdLogin(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "login")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.session.Login(*name, *email)
	if err != nil {
		return err
	}
	return a.emit(u)
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	a.session.Logout()
	fmt.Fprintln(a.stdout, "logged out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	u, ok := a.session.Current()
	if !ok {
		return errors.New("not logged in")
	}
	return a.emit(u)
}

// ------- campaigns -------

type campaignPage struct {
	Items       []model.Campaign `json:"items"`
	Total       int              `json:"total"`
	Sort        view.Sorter      `json:"sort"`
	CanLoadMore bool             `json:"canLoadMore"`
}

func cmdCampaigns(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "campaigns")
	status := fs.String("status", view.All, "Ativa|Pausada|Concluída|Todas")
	platform := fs.String("platform", view.All, "Google Ads|Meta|LinkedIn|Todas")
	q := fs.String("q", "", "name search (stored as the global search term)")
	sortKey := fs.String("sort", "", "sort column")
	reverse := fs.Bool("reverse", false, "flip the default direction of -sort")
	pages := fs.Int("pages", 1, "pages to load")
	if err := fs.Parse(args); err != nil {
		return err
	}

	setFlags := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if setFlags["q"] {
		a.store.SetSearchTerm(*q)
	}

	sorter := view.DefaultSorter()
	if *sortKey != "" {
		k, err := view.ParseSortKey(*sortKey)
		if err != nil {
			return err
		}
		sorter = view.Sorter{Key: k, Desc: k.DefaultDesc()}
	}
	if *reverse {
		sorter = sorter.Toggle(sorter.Key)
	}

	st := a.store.State()
	filtered := sorter.Apply(view.Filter{Status: *status, Platform: *platform, Search: st.SearchTerm}.Apply(st.Campaigns))

	p := view.NewPager(view.PageSize, a.cfg.Delays.LoadMore)
	for i := 1; i < *pages && p.CanLoadMore(len(filtered)); i++ {
		if err := p.LoadMore(ctx); err != nil {
			return err
		}
	}
	return a.emit(campaignPage{
		Items:       p.Page(filtered),
		Total:       len(filtered),
		Sort:        sorter,
		CanLoadMore: p.CanLoadMore(len(filtered)),
	})
}

func cmdActive(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "active")
	limit := fs.Int("limit", 5, "max rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.emit(view.ActiveCampaigns(a.store.State().Campaigns, view.DefaultSorter(), *limit))
}

func cmdRecent(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "recent")
	n := fs.Int("n", 5, "rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.emit(view.Recent(a.store.State().Campaigns, *n))
}

func cmdSummary(_ context.Context, a *app, _ []string) error {
	return a.emit(view.Summarize(a.store.State().Campaigns))
}

// cmdNew walks the creation wizard step by step so each step reports its own
// field errors.
func cmdNew(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "new")
	name := fs.String("name", "", "campaign name (3-50 chars)")
	objective := fs.String("objective", "", "conversions|traffic|brand-awareness")
	platform := fs.String("platform", "", "Google Ads|Meta|LinkedIn")
	daily := fs.String("daily", "", "daily budget")
	total := fs.String("total", "", "total budget")
	from := fs.String("from", "", "start date YYYY-MM-DD")
	to := fs.String("to", "", "end date YYYY-MM-DD")
	country := fs.String("country", wizard.DefaultCountry, "target country")
	age := fs.String("age", wizard.DefaultAgeRange, "target age range")
	var interests multiFlag
	fs.Var(&interests, "interest", "interest tag (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fromT, err := parseDate(*from)
	if err != nil {
		return err
	}
	toT, err := parseDate(*to)
	if err != nil {
		return err
	}

	w := wizard.New(a.store, wizard.Options{
		SaveDelay:  a.cfg.Delays.Save,
		ResetDelay: a.cfg.Delays.Reset,
		Logger:     a.log,
	})
	w.Open()
	defer w.Close()

	w.Edit(func(f *wizard.Form) {
		f.Name = *name
		f.Objective = *objective
		f.Platform = model.Platform(*platform)
		f.DailyBudget = *daily
		f.TotalBudget = *total
		f.DateFrom = fromT
		f.DateTo = toT
		f.Country = *country
		f.AgeRange = *age
	})
	for _, tag := range interests {
		w.Edit(func(f *wizard.Form) { f.InterestInput = tag })
		if err := w.CommitInterest(); err != nil && !errors.Is(err, errs.ErrAlreadyExists) {
			return err
		}
	}
	for w.Step() != wizard.StepReview {
		step := w.Step()
		if err := w.Next(); err != nil {
			return fmt.Errorf("step %s: %w", step, err)
		}
	}
	c, err := w.Submit(ctx)
	if err != nil {
		return err
	}
	return a.emit(c)
}

func cmdEdit(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "edit")
	id := fs.String("id", "", "campaign id")
	name := fs.String("name", "", "new name (keeps the current one when empty)")
	budget := fs.Float64("budget", 0, "total budget")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	cur, err := a.campaigns.Get(*id)
	if err != nil {
		return err
	}
	n := *name
	if n == "" {
		n = cur.Name
	}
	b := *budget
	if b == 0 {
		b = cur.BudgetTotal
	}
	c, err := a.campaigns.Edit(ctx, *id, n, b)
	if err != nil {
		return err
	}
	return a.emit(c)
}

func cmdToggle(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "toggle")
	id := fs.String("id", "", "campaign id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	c, err := a.campaigns.ToggleStatus(*id)
	if err != nil {
		return err
	}
	return a.emit(c)
}

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func cmdRm(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "rm")
	id := fs.String("id", "", "campaign id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	return a.emit(deleted{ID: *id, Deleted: a.campaigns.Delete(*id)})
}

// ------- integrations -------

func cmdIntegrations(_ context.Context, a *app, _ []string) error {
	return a.emit(a.integrations.Catalog())
}

func cmdConnect(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "connect")
	id := fs.String("id", "", "integration id")
	key := fs.String("key", "", "integration API key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	if err := a.integrations.Prompt(model.IntegrationID(*id)); err != nil {
		return err
	}
	got, err := a.integrations.Confirm(*key)
	if err != nil {
		a.integrations.Cancel()
		return err
	}
	fmt.Fprintf(a.stdout, "connected %s\n", got)
	return nil
}

func cmdDisconnect(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "disconnect")
	id := fs.String("id", "", "integration id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	if err := a.integrations.Disconnect(model.IntegrationID(*id)); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "disconnected %s\n", *id)
	return nil
}

// ------- api keys -------

type keyRow struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
	LastUsed  string    `json:"lastUsed"`
}

func cmdKeys(_ context.Context, a *app, _ []string) error {
	keys := a.store.State().ApiKeys
	rows := make([]keyRow, 0, len(keys))
	for _, k := range keys {
		last := "Nunca"
		if k.LastUsed != nil {
			last = k.LastUsed.Format(time.RFC3339)
		}
		rows = append(rows, keyRow{ID: k.ID, Key: k.Masked, CreatedAt: k.CreatedAt, LastUsed: last})
	}
	return a.emit(rows)
}

func cmdKeysNew(_ context.Context, a *app, _ []string) error {
	k, plain, err := a.settings.GenerateApiKey()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stderr, "store this key now, it will not be shown again")
	return a.emit(keyRow{ID: k.ID, Key: plain, CreatedAt: k.CreatedAt, LastUsed: "Nunca"})
}

func cmdKeysRm(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "keys-rm")
	id := fs.String("id", "", "key id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	return a.emit(deleted{ID: *id, Deleted: a.settings.RevokeApiKey(*id)})
}

// ------- chat -------

type convRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Messages int    `json:"messages"`
	Active   bool   `json:"active"`
}

func cmdChat(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "chat")
	id := fs.String("id", "", "conversation to open")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id != "" {
		c, err := a.chat.Open(*id)
		if err != nil {
			return err
		}
		return a.emit(c)
	}
	st := a.store.State()
	rows := make([]convRow, 0, len(st.Conversations))
	for _, c := range st.Conversations {
		rows = append(rows, convRow{ID: c.ID, Title: c.Title, Messages: len(c.Messages), Active: c.ID == st.ActiveConversationID})
	}
	return a.emit(rows)
}

func cmdChatNew(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "chat-new")
	title := fs.String("title", "", "conversation title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.emit(a.chat.New(*title))
}

func cmdChatRm(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "chat-rm")
	id := fs.String("id", "", "conversation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	return a.emit(deleted{ID: *id, Deleted: a.chat.Delete(*id)})
}

func cmdSay(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "say")
	id := fs.String("id", "", "conversation id (active when empty)")
	text := fs.String("text", "", "message")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := a.chat.Send(ctx, *id, *text)
	if err != nil {
		return err
	}
	return a.emit(msg)
}

// ------- settings -------

func cmdPrompt(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "prompt")
	set := fs.String("set", "", "new system prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlag := false
	fs.Visit(func(f *flag.Flag) { setFlag = setFlag || f.Name == "set" })
	if setFlag {
		if err := a.settings.SavePrompt(ctx, *set); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.stdout, a.store.State().AiSystemPrompt)
	return nil
}

func cmdAi(_ context.Context, a *app, _ []string) error {
	return a.emit(a.store.State().AiConnections)
}

func connFlags(a *app, name string) (*flag.FlagSet, *string, *model.AiConnectionInput) {
	fs := newFlags(a, name)
	in := &model.AiConnectionInput{}
	id := fs.String("id", "", "connection id")
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.APIKey, "key", "", "provider API key")
	fs.StringVar(&in.BaseURL, "url", "", "base URL")
	return fs, id, in
}

func cmdAiAdd(_ context.Context, a *app, args []string) error {
	fs, _, in := connFlags(a, "ai-add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.settings.AddConnection(*in)
	if err != nil {
		return err
	}
	return a.emit(c)
}

func cmdAiEdit(_ context.Context, a *app, args []string) error {
	fs, id, in := connFlags(a, "ai-edit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	c, err := a.settings.UpdateConnection(*id, *in)
	if err != nil {
		return err
	}
	return a.emit(c)
}

func cmdAiRm(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "ai-rm")
	id := fs.String("id", "", "connection id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *id != "", "need -id"); err != nil {
		return err
	}
	return a.emit(deleted{ID: *id, Deleted: a.settings.DeleteConnection(*id)})
}

func cmd2FA(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "2fa")
	on := fs.Bool("on", false, "enable")
	off := fs.Bool("off", false, "disable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := need(a, *on != *off, "need exactly one of -on or -off"); err != nil {
		return err
	}
	a.settings.SetTwoFactor(*on)
	fmt.Fprintf(a.stdout, "two-factor: %t\n", *on)
	return nil
}

func cmdNotify(_ context.Context, a *app, args []string) error {
	fs := newFlags(a, "notify")
	field := fs.String("field", "", strings.Join(service.NotificationFields, "|"))
	value := fs.String("value", "", "true|false")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *field != "" {
		on, err := strconv.ParseBool(*value)
		if err != nil {
			return fmt.Errorf("-value: %w", err)
		}
		if err := a.settings.SetNotification(*field, on); err != nil {
			return err
		}
	}
	return a.emit(a.store.State().NotificationSettings)
}

func cmdShow(_ context.Context, a *app, _ []string) error {
	return a.emit(a.store.State())
}

// cmdReset removes the stored snapshot so the next run starts from seed data.
func cmdReset(ctx context.Context, a *app, _ []string) error {
	if a.slot == nil {
		return fmt.Errorf("reset: %w", errs.ErrStorage)
	}
	if err := a.slot.Delete(ctx, a.cfg.Storage.Key); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "state reset")
	return nil
}
