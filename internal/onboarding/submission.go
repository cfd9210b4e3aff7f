package onboarding

import (
	"time"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
)

// Assembler turns a fully valid application into a submission payload.
type Assembler struct {
	Steps Steps
	Now   func() time.Time
}

func NewAssembler(steps Steps) *Assembler {
	return &Assembler{Steps: steps, Now: time.Now}
}

// Assemble refuses with *IncompleteError unless every step holds. It
// does not modify app.
func (a *Assembler) Assemble(app *domain.VendorApplication) (*domain.SubmissionPayload, error) {
	var failing []StepStatus
	for _, st := range a.Steps {
		if missing := st.Missing(app); len(missing) > 0 {
			failing = append(failing, StepStatus{
				Index:   st.Index,
				Key:     st.Key,
				Title:   st.Title,
				Missing: missing,
			})
		}
	}
	if len(failing) > 0 {
		return nil, &IncompleteError{Steps: failing}
	}

	snapshot := app.Clone()
	return &domain.SubmissionPayload{
		ApplicationFields: snapshot.ApplicationFields,
		Documents:         snapshot.Documents,
		AssembledAt:       a.Now().UTC(),
	}, nil
}
