package onboarding

import (
	"errors"
	"sync"
	"testing"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(app *domain.VendorApplication) *Controller {
	return NewController(DefaultSteps(), app, domain.WizardState{})
}

func TestControllerStartsAtFirstStep(t *testing.T) {
	c := newTestController(nil)
	assert.Equal(t, domain.WizardState{CurrentStep: 1, HighestReached: 1}, c.State())
}

func TestNewControllerNormalisesState(t *testing.T) {
	c := NewController(DefaultSteps(), nil, domain.WizardState{CurrentStep: 5, HighestReached: 3})
	assert.Equal(t, domain.WizardState{CurrentStep: 3, HighestReached: 3}, c.State())

	c = NewController(DefaultSteps(), nil, domain.WizardState{CurrentStep: 2, HighestReached: 99})
	assert.Equal(t, domain.WizardState{CurrentStep: 1, HighestReached: 1}, c.State())
}

func TestNextFromBasicInfoBlockedUntilFieldsPresent(t *testing.T) {
	c := newTestController(nil)
	require.True(t, c.Next(), "welcome step is always satisfied")
	require.Equal(t, StepBasicInfo, c.State().CurrentStep)

	set := []func(f *domain.ApplicationFields){
		func(f *domain.ApplicationFields) { f.FullName = "Amina Rahman" },
		func(f *domain.ApplicationFields) { f.Email = "amina@example.com" },
		func(f *domain.ApplicationFields) { f.Phone = "+8801700000000" },
		func(f *domain.ApplicationFields) { f.NIDNumber = "1990123456789" },
		func(f *domain.ApplicationFields) { f.BusinessName = "Rahman Crafts" },
		func(f *domain.ApplicationFields) { f.BusinessType = "sole-proprietor" },
	}
	for _, fn := range set {
		require.NoError(t, c.Update(func(f *domain.ApplicationFields) error { fn(f); return nil }))
		assert.False(t, c.Next())
		assert.Equal(t, StepBasicInfo, c.State().CurrentStep)
	}
	assert.Equal(t, []string{"businessCategory"}, c.Missing())

	require.NoError(t, c.Update(func(f *domain.ApplicationFields) error {
		f.BusinessCategory = "handicrafts"
		return nil
	}))
	assert.True(t, c.Next())
	assert.Equal(t, domain.WizardState{CurrentStep: 3, HighestReached: 3}, c.State())
}

func TestNextSucceedsIffCurrentStepValid(t *testing.T) {
	full := completeApplication()
	for k := 1; k < StepReview; k++ {
		st, _ := DefaultSteps().At(k)

		empty := NewController(DefaultSteps(), &domain.VendorApplication{}, domain.WizardState{CurrentStep: k, HighestReached: k})
		assert.Equal(t, st.Valid(&domain.VendorApplication{}), empty.Next(), "step %d with empty application", k)

		filled := NewController(DefaultSteps(), full.Clone(), domain.WizardState{CurrentStep: k, HighestReached: k})
		assert.True(t, filled.Next(), "step %d with complete application", k)
		assert.Equal(t, k+1, filled.State().CurrentStep)
	}
}

func TestNextIsNoOpAtTerminalStep(t *testing.T) {
	c := NewController(DefaultSteps(), completeApplication(), domain.WizardState{CurrentStep: StepReview, HighestReached: StepReview})
	assert.False(t, c.Next())
	assert.Equal(t, StepReview, c.State().CurrentStep)
	assert.True(t, c.Snapshot().Terminal)
}

func TestPrev(t *testing.T) {
	c := newTestController(nil)
	assert.False(t, c.Prev())
	assert.Equal(t, 1, c.State().CurrentStep)

	require.True(t, c.Next())
	assert.True(t, c.Prev())
	assert.Equal(t, domain.WizardState{CurrentStep: 1, HighestReached: 2}, c.State())
}

func TestJumpToOnlyReachedSteps(t *testing.T) {
	c := NewController(DefaultSteps(), completeApplication(), domain.WizardState{})
	for i := 0; i < 3; i++ {
		require.True(t, c.Next())
	}
	require.Equal(t, domain.WizardState{CurrentStep: 4, HighestReached: 4}, c.State())

	assert.True(t, c.JumpTo(2))
	assert.Equal(t, domain.WizardState{CurrentStep: 2, HighestReached: 4}, c.State())

	assert.True(t, c.JumpTo(4))
	assert.Equal(t, 4, c.State().CurrentStep)

	for _, idx := range []int{0, -1, 5, StepReview, 100} {
		assert.False(t, c.JumpTo(idx), "jump to %d", idx)
		assert.Equal(t, domain.WizardState{CurrentStep: 4, HighestReached: 4}, c.State())
	}
}

func TestPrevThenNextReturnsToSameStep(t *testing.T) {
	c := NewController(DefaultSteps(), completeApplication(), domain.WizardState{})
	for i := 0; i < 4; i++ {
		require.True(t, c.Next())
	}
	before := c.State().CurrentStep
	canAdvance := c.Snapshot().CanAdvance

	require.True(t, c.Prev())
	require.True(t, c.Next())

	assert.Equal(t, before, c.State().CurrentStep)
	assert.Equal(t, canAdvance, c.Snapshot().CanAdvance)
}

func TestUpdateDiscardsFailedMutation(t *testing.T) {
	c := newTestController(nil)
	boom := errors.New("bad input")

	err := c.Update(func(f *domain.ApplicationFields) error {
		f.FullName = "half written"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.Application().FullName)
}

func TestApplicationReturnsCopy(t *testing.T) {
	c := NewController(DefaultSteps(), completeApplication(), domain.WizardState{})
	app := c.Application()
	app.FullName = "changed"
	app.ProductCategories[0] = "changed"
	app.Documents.NIDFront.URL = "changed"

	fresh := c.Application()
	assert.Equal(t, "Amina Rahman", fresh.FullName)
	assert.Equal(t, "baskets", fresh.ProductCategories[0])
	assert.NotEqual(t, "changed", fresh.Documents.NIDFront.URL)
}

func TestAttachAndDetachDocument(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.AttachDocument(SlotNIDFront, *fileRef("front")))
	assert.NotNil(t, c.Application().Documents.NIDFront)

	c.DetachDocument(SlotNIDFront)
	assert.Nil(t, c.Application().Documents.NIDFront)

	assert.ErrorIs(t, c.AttachDocument("passport", *fileRef("x")), ErrUnknownSlot)
}

func TestSnapshotStepStatuses(t *testing.T) {
	c := newTestController(nil)
	require.True(t, c.Next())

	snap := c.Snapshot()
	require.Len(t, snap.Steps, StepReview)
	assert.False(t, snap.CanAdvance)
	assert.False(t, snap.Terminal)

	assert.True(t, snap.Steps[0].Valid)
	assert.True(t, snap.Steps[0].Reachable)
	assert.True(t, snap.Steps[1].Current)
	assert.True(t, snap.Steps[1].Reachable)
	assert.NotEmpty(t, snap.Steps[1].Missing)
	assert.False(t, snap.Steps[2].Reachable)
}

func TestControllerConcurrentUse(t *testing.T) {
	c := NewController(DefaultSteps(), completeApplication(), domain.WizardState{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				c.Next()
			case 1:
				c.Prev()
			case 2:
				c.JumpTo(i % 5)
			default:
				_ = c.Update(func(f *domain.ApplicationFields) error {
					f.BranchName = "Gulshan"
					return nil
				})
			}
		}(i)
	}
	wg.Wait()

	st := c.State()
	assert.GreaterOrEqual(t, st.CurrentStep, 1)
	assert.LessOrEqual(t, st.CurrentStep, st.HighestReached)
}
