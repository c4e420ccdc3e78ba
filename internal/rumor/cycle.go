package rumor

import (
	"context"
	"errors"
	"sync"

	"github.com/techvote/techvote/internal/models"
)

var (
	// ErrBusy is returned when a check is started while another is in flight.
	ErrBusy = errors.New("a rumor check is already in progress")
	// ErrNothingToCheck is returned for blank text without media.
	ErrNothingToCheck = errors.New("enter text or attach media to check")
)

// Assessor runs a single check. *Checker implements it.
type Assessor interface {
	Check(ctx context.Context, req models.RumorCheckRequest) Outcome
}

// Cycle is the per-session request/response cycle of the rumor checker. At
// most one check is in flight; the result slot is cleared when a check starts
// and replaced when it finishes.
type Cycle struct {
	assessor Assessor

	mu       sync.Mutex
	loading  bool
	category string
	result   *models.RumorCheckResult
	last     *Outcome
}

// NewCycle creates an idle cycle with the default category selected.
func NewCycle(a Assessor) *Cycle {
	return &Cycle{assessor: a, category: DefaultCategory}
}

// Loading reports whether a check is in flight.
func (c *Cycle) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Category returns the currently selected category.
func (c *Cycle) Category() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// SetCategory selects a category. Free labels pass through; blank selects the default.
func (c *Cycle) SetCategory(category string) {
	if category == "" {
		category = DefaultCategory
	}
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()
}

// Result returns a copy of the latest result, or nil while loading or before
// the first check.
func (c *Cycle) Result() *models.RumorCheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	r := c.result.Clone()
	return &r
}

// Last returns the outcome of the latest finished check.
func (c *Cycle) Last() *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	out := *c.last
	out.Result = out.Result.Clone()
	return &out
}

// Check runs one check. Category defaults to the selected category. A check
// started while another is loading is rejected with ErrBusy, not queued.
func (c *Cycle) Check(ctx context.Context, req models.RumorCheckRequest) (Outcome, error) {
	// Markup-only pastes count as empty.
	req.Text = NormalizeText(req.Text)
	if !CanSubmit(req.Text, req.Media) {
		return Outcome{}, ErrNothingToCheck
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	c.loading = true
	c.result = nil
	if req.Category == "" {
		req.Category = c.category
	} else {
		c.category = req.Category
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	out := c.assessor.Check(ctx, req)

	c.mu.Lock()
	result := out.Result.Clone()
	c.result = &result
	c.last = &Outcome{Result: out.Result.Clone(), Source: out.Source, Duration: out.Duration}
	c.mu.Unlock()

	return out, nil
}
