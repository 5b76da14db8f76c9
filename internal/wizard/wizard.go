// Package wizard drives the four-step campaign creation form.
//
// The wizard is a finite-state machine over Step. Next validates only the
// current step's fields, Back never validates, and Submit is reachable from
// the review step only. Nothing reaches the store before Submit commits.
package wizard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/delay"
	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/validate"
)

// Step is a wizard state.
type Step int

const (
	StepDetails Step = iota + 1
	StepBudget
	StepAudience
	StepReview
)

var stepNames = map[Step]string{
	StepDetails:  "Detalhes",
	StepBudget:   "Orçamento",
	StepAudience: "Público",
	StepReview:   "Revisão",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "Step(" + strconv.Itoa(int(s)) + ")"
}

// Choice lists.
var (
	Objectives = []string{"conversions", "traffic", "brand-awareness"}
	Countries  = []string{"Brasil", "Portugal", "EUA"}
	AgeRanges  = []string{"18-24", "25-34", "35-44", "45+", "18-65+"}
)

const (
	DefaultCountry  = "Brasil"
	DefaultAgeRange = "18-65+"

	nameMin = 3
	nameMax = 50
)

// Form holds raw input. Budgets stay text until validated.
type Form struct {
	Name          string
	Objective     string
	Platform      model.Platform
	DailyBudget   string
	TotalBudget   string
	DateFrom      *time.Time
	DateTo        *time.Time
	Country       string
	AgeRange      string
	Interests     []string
	InterestInput string
}

func emptyForm() Form {
	return Form{Country: DefaultCountry, AgeRange: DefaultAgeRange, Interests: []string{}}
}

func (f Form) clone() Form {
	out := f
	out.Interests = append([]string{}, f.Interests...)
	return out
}

// Committer receives the finished draft.
type Committer interface {
	AddCampaign(d model.CampaignDraft) model.Campaign
}

// Options tunes the simulated latency of Submit.
type Options struct {
	SaveDelay  time.Duration
	ResetDelay time.Duration
	Logger     *zap.Logger
}

// Wizard is safe for concurrent use.
type Wizard struct {
	mu         sync.Mutex
	open       bool
	step       Step
	form       Form
	errors     validate.FieldErrors
	submitting bool
	gen        uint64

	store      Committer
	saveDelay  time.Duration
	resetDelay time.Duration
	log        *zap.Logger
}

// New returns a closed wizard on step 1.
func New(store Committer, opts Options) *Wizard {
	w := &Wizard{
		store:      store,
		saveDelay:  opts.SaveDelay,
		resetDelay: opts.ResetDelay,
		log:        opts.Logger,
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	w.resetLocked()
	return w
}

func (w *Wizard) resetLocked() {
	w.step = StepDetails
	w.form = emptyForm()
	w.errors = validate.FieldErrors{}
	w.submitting = false
	w.gen++
}

// Open shows the wizard. Opening an already open wizard keeps its input.
func (w *Wizard) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
}

// Close hides the wizard and discards everything entered, including a
// pending submit.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	w.resetLocked()
}

// IsOpen reports whether the wizard is shown.
func (w *Wizard) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form returns a copy of the input.
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.clone()
}

// Errors returns the messages of the last failed validation.
func (w *Wizard) Errors() validate.FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(validate.FieldErrors, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// Submitting reports whether a save is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Edit changes the form through fn. Edits are ignored while submitting.
func (w *Wizard) Edit(fn func(f *Form)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return
	}
	f := w.form.clone()
	fn(&f)
	if f.Interests == nil {
		f.Interests = []string{}
	}
	w.form = f
}

// CommitInterest turns the trimmed interest input into a tag and clears the
// input. Empty input is ignored; a tag already present is rejected with
// errs.ErrAlreadyExists and the input is kept.
func (w *Wizard) CommitInterest() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	tag := strings.TrimSpace(w.form.InterestInput)
	if tag == "" {
		return nil
	}
	for _, v := range w.form.Interests {
		if strings.EqualFold(v, tag) {
			return fmt.Errorf("interest %q: %w", tag, errs.ErrAlreadyExists)
		}
	}
	w.form.Interests = append(w.form.Interests, tag)
	w.form.InterestInput = ""
	return nil
}

// RemoveInterest drops the tag at index i. Out-of-range indexes are ignored.
func (w *Wizard) RemoveInterest(i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.form.Interests) {
		return
	}
	w.form.Interests = append(w.form.Interests[:i:i], w.form.Interests[i+1:]...)
}

// Next validates the current step and advances on success. On failure the
// field errors are recorded, returned, and the step does not change.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return fmt.Errorf("next while submitting: %w", errs.ErrInvalidTransition)
	}
	fe := ValidateStep(w.step, w.form)
	w.errors = fe
	if err := fe.Err(); err != nil {
		return err
	}
	if w.step < StepReview {
		w.step++
	}
	return nil
}

// Back moves one step back without validating.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return
	}
	if w.step > StepDetails {
		w.step--
	}
	w.errors = validate.FieldErrors{}
}

// Submit commits the form from the review step. It re-validates every step,
// waits the save delay, adds the campaign to the store, closes the wizard and
// resets the form after the reset delay. Cancelling ctx before the commit
// aborts it; so does Close.
func (w *Wizard) Submit(ctx context.Context) (model.Campaign, error) {
	w.mu.Lock()
	if w.step != StepReview {
		w.mu.Unlock()
		return model.Campaign{}, fmt.Errorf("submit from step %s: %w", w.step, errs.ErrInvalidTransition)
	}
	if w.submitting {
		w.mu.Unlock()
		return model.Campaign{}, fmt.Errorf("submit already in flight: %w", errs.ErrInvalidTransition)
	}
	for s := StepDetails; s <= StepReview; s++ {
		if fe := ValidateStep(s, w.form); len(fe) > 0 {
			w.step = s
			w.errors = fe
			w.mu.Unlock()
			return model.Campaign{}, fe
		}
	}
	draft := toDraft(w.form)
	w.submitting = true
	gen := w.gen
	w.mu.Unlock()

	if err := delay.Wait(ctx, w.saveDelay); err != nil {
		w.mu.Lock()
		if w.gen == gen {
			w.submitting = false
		}
		w.mu.Unlock()
		return model.Campaign{}, err
	}

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return model.Campaign{}, fmt.Errorf("wizard closed during submit: %w", errs.ErrInvalidTransition)
	}
	c := w.store.AddCampaign(draft)
	w.open = false
	w.mu.Unlock()

	w.log.Info("campaign created", zap.String("id", c.ID), zap.String("platform", string(c.Platform)))

	// The commit is done; a cancelled ctx only shortens the reset delay.
	_ = delay.Wait(ctx, w.resetDelay)
	w.mu.Lock()
	if w.gen == gen {
		w.resetLocked()
	}
	w.mu.Unlock()
	return c, nil
}

// ValidateStep checks only the fields owned by step.
func ValidateStep(step Step, f Form) validate.FieldErrors {
	fe := validate.FieldErrors{}
	switch step {
	case StepDetails:
		n := utf8.RuneCountInString(strings.TrimSpace(f.Name))
		switch {
		case n == 0:
			fe.Add("name", "name is required")
		case n < nameMin:
			fe.Add("name", fmt.Sprintf("name must have at least %d characters", nameMin))
		case n > nameMax:
			fe.Add("name", fmt.Sprintf("name must have at most %d characters", nameMax))
		}
		if f.Platform == "" {
			fe.Add("platform", "platform is required")
		} else if !f.Platform.Valid() {
			fe.Add("platform", "unknown platform")
		}
		if f.Objective != "" && !contains(Objectives, f.Objective) {
			fe.Add("objective", "unknown objective")
		}
	case StepBudget:
		if _, msg := parseBudget(f.DailyBudget); msg != "" {
			fe.Add("dailyBudget", "daily budget "+msg)
		}
		if _, msg := parseBudget(f.TotalBudget); msg != "" {
			fe.Add("totalBudget", "total budget "+msg)
		}
		if f.DateFrom == nil {
			fe.Add("dateFrom", "start date is required")
		}
		switch {
		case f.DateTo == nil:
			fe.Add("dateTo", "end date is required")
		case f.DateFrom != nil && f.DateTo.Before(*f.DateFrom):
			fe.Add("dateTo", "end date must not precede start date")
		}
	case StepAudience:
		if !contains(Countries, f.Country) {
			fe.Add("country", "unknown country")
		}
		if !contains(AgeRanges, f.AgeRange) {
			fe.Add("ageRange", "unknown age range")
		}
	}
	return fe
}

func parseBudget(s string) (float64, string) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, "is required"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "must be a number"
	}
	if v <= 0 {
		return 0, "must be positive"
	}
	return v, ""
}

func toDraft(f Form) model.CampaignDraft {
	daily, _ := parseBudget(f.DailyBudget)
	total, _ := parseBudget(f.TotalBudget)
	d := model.CampaignDraft{
		Name:        strings.TrimSpace(f.Name),
		Status:      model.StatusPaused,
		Platform:    f.Platform,
		Objective:   f.Objective,
		DailyBudget: daily,
		BudgetTotal: total,
		Audience: model.Audience{
			Country:   f.Country,
			AgeRange:  f.AgeRange,
			Interests: append([]string{}, f.Interests...),
		},
	}
	if f.DateFrom != nil {
		t := *f.DateFrom
		d.StartDate = &t
	}
	if f.DateTo != nil {
		t := *f.DateTo
		d.EndDate = &t
	}
	return d
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
