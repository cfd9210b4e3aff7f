package onboarding

import (
	"fmt"
	"sync"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
)

// StepStatus is the per-step view the UI renders navigation from.
type StepStatus struct {
	Index     int      `json:"index"`
	Key       string   `json:"key"`
	Title     string   `json:"title"`
	Valid     bool     `json:"valid"`
	Missing   []string `json:"missing,omitempty"`
	Reachable bool     `json:"reachable"`
	Current   bool     `json:"current"`
}

// Snapshot is a consistent copy of the session taken under the controller lock.
type Snapshot struct {
	State       domain.WizardState        `json:"state"`
	Terminal    bool                      `json:"terminal"`
	CanAdvance  bool                      `json:"canAdvance"`
	Application *domain.VendorApplication `json:"application"`
	Steps       []StepStatus              `json:"steps"`
}

// Controller owns the vendor application for the lifetime of an
// onboarding session and enforces step ordering. Every method is safe for
// concurrent use; all mutations are serialised on one mutex.
type Controller struct {
	mu    sync.Mutex
	steps Steps
	app   *domain.VendorApplication
	state domain.WizardState
}

// NewController takes ownership of app. A zero or out-of-range state is
// normalised to the first step.
func NewController(steps Steps, app *domain.VendorApplication, state domain.WizardState) *Controller {
	if app == nil {
		app = &domain.VendorApplication{}
	}
	n := steps.Len()
	if state.HighestReached < 1 || state.HighestReached > n {
		state.HighestReached = 1
	}
	if state.CurrentStep < 1 || state.CurrentStep > state.HighestReached {
		state.CurrentStep = state.HighestReached
	}
	return &Controller{steps: steps, app: app, state: state}
}

// Next advances one step when the current step is satisfied. It returns
// false, changing nothing, when the step is incomplete or already terminal.
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.CurrentStep >= c.steps.Len() {
		return false
	}
	st, _ := c.steps.At(c.state.CurrentStep)
	if !st.Valid(c.app) {
		return false
	}
	c.state.CurrentStep++
	if c.state.CurrentStep > c.state.HighestReached {
		c.state.HighestReached = c.state.CurrentStep
	}
	return true
}

// Prev moves back one step. Going backwards never needs validation.
func (c *Controller) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.CurrentStep <= 1 {
		return false
	}
	c.state.CurrentStep--
	return true
}

// JumpTo moves to any step already reached. It never raises HighestReached.
func (c *Controller) JumpTo(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 1 || index > c.state.HighestReached {
		return false
	}
	c.state.CurrentStep = index
	return true
}

// Update applies fn to a copy of the vendor-entered fields and commits the
// copy only if fn succeeds.
func (c *Controller) Update(fn func(f *domain.ApplicationFields) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.app.Clone()
	if err := fn(&next.ApplicationFields); err != nil {
		return err
	}
	c.app = next
	return nil
}

// AttachDocument stores an uploaded file reference on the application.
func (c *Controller) AttachDocument(slot SlotKey, ref domain.FileRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := slot.ref(&c.app.Documents)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	*p = &ref
	return nil
}

// DetachDocument drops the slot's file reference from the application.
func (c *Controller) DetachDocument(slot SlotKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p := slot.ref(&c.app.Documents); p != nil {
		*p = nil
	}
}

func (c *Controller) State() domain.WizardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Application returns a copy of the current record.
func (c *Controller) Application() *domain.VendorApplication {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.app.Clone()
}

func (c *Controller) Steps() Steps { return c.steps }

// Missing reports what blocks the current step.
func (c *Controller) Missing() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, _ := c.steps.At(c.state.CurrentStep)
	return st.Missing(c.app)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	statuses := make([]StepStatus, 0, c.steps.Len())
	for _, st := range c.steps {
		missing := st.Missing(c.app)
		statuses = append(statuses, StepStatus{
			Index:     st.Index,
			Key:       st.Key,
			Title:     st.Title,
			Valid:     len(missing) == 0,
			Missing:   missing,
			Reachable: st.Index <= c.state.HighestReached,
			Current:   st.Index == c.state.CurrentStep,
		})
	}
	terminal := c.state.CurrentStep == c.steps.Len()
	return Snapshot{
		State:       c.state,
		Terminal:    terminal,
		CanAdvance:  !terminal && statuses[c.state.CurrentStep-1].Valid,
		Application: c.app.Clone(),
		Steps:       statuses,
	}
}
