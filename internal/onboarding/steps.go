package onboarding

import (
	"errors"
	"reflect"
	"strings"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

const (
	StepWelcome = iota + 1
	StepBasicInfo
	StepBusinessVerification
	StepDocuments
	StepStoreSetup
	StepAgreements
	StepReview
)

var stepValidator = newStepValidator()

func newStepValidator() *validator.Validate {
	v := validator.New()
	// Report json names so the UI can highlight its own inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Predicate reports the fields still missing for a step. An empty result
// means the step is satisfied. Predicates must not mutate the application.
type Predicate func(app *domain.VendorApplication) []string

// Step is one page of the onboarding wizard.
type Step struct {
	Index       int    `json:"index"`
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Missing     Predicate
}

func (s Step) Valid(app *domain.VendorApplication) bool {
	return len(s.Missing(app)) == 0
}

// Steps is ordered; Steps[i].Index == i+1.
type Steps []Step

func (s Steps) Len() int { return len(s) }

// At returns the step with the given 1-based index.
func (s Steps) At(index int) (Step, bool) {
	if index < 1 || index > len(s) {
		return Step{}, false
	}
	return s[index-1], true
}

// NewSteps numbers the given steps in order and appends a terminal review
// step that holds only when every earlier step does.
func NewSteps(steps ...Step) Steps {
	out := make(Steps, 0, len(steps)+1)
	for i, st := range steps {
		st.Index = i + 1
		out = append(out, st)
	}
	before := append(Steps(nil), out...)
	out = append(out, Step{
		Index:       len(out) + 1,
		Key:         "review",
		Title:       "Review & Submit",
		Description: "Check everything before submitting your application",
		Missing: func(app *domain.VendorApplication) []string {
			var missing []string
			for _, st := range before {
				missing = append(missing, st.Missing(app)...)
			}
			return missing
		},
	})
	return out
}

// DefaultSteps is the vendor onboarding flow.
func DefaultSteps() Steps {
	return NewSteps(
		Step{
			Key:         "welcome",
			Title:       "Get Started",
			Description: "What you need to become a vendor",
			Missing:     func(*domain.VendorApplication) []string { return nil },
		},
		Step{
			Key:         "basic-info",
			Title:       "Basic Information",
			Description: "Tell us about yourself and your business",
			Missing: requireFields(
				fields("Identity", "FullName", "Email", "Phone", "NIDNumber"),
				fields("BusinessInfo", "BusinessName", "BusinessType", "BusinessCategory"),
			),
		},
		Step{
			Key:         "business-verification",
			Title:       "Business Verification",
			Description: "Registration, tax and payout details",
			Missing: requireFields(
				// Trade license fields are required_if=HasTradeLicense, so
				// they drop out entirely when the vendor holds no license.
				fields("Verification", "TradeLicenseNumber", "IssuingAuthority", "IssueDate", "ExpiryDate", "TINNumber"),
				fields("Banking", "BankName", "AccountNumber", "AccountHolderName"),
			),
		},
		Step{
			Key:         "documents",
			Title:       "Documents",
			Description: "Upload your identity and business documents",
			Missing: allOf(
				requireDocuments(SlotNIDFront, SlotNIDBack),
				when(holdsTradeLicense, requireDocuments(SlotTradeLicense)),
			),
		},
		Step{
			Key:         "store-setup",
			Title:       "Store Setup",
			Description: "How your store appears to customers",
			Missing: requireFields(
				fields("StoreProfile", "StoreName", "StoreDescription", "StoreCategory", "ProductCategories"),
			),
		},
		Step{
			Key:         "agreements",
			Title:       "Agreements",
			Description: "Accept the marketplace policies",
			Missing: requireFields(
				fields("Agreements", "AcceptTerms", "AcceptPrivacy", "AcceptCommission", "AcceptQuality"),
			),
		},
	)
}

func fields(group string, names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "ApplicationFields." + group + "." + n
	}
	return out
}

func requireFields(groups ...[]string) Predicate {
	var namespaces []string
	for _, g := range groups {
		namespaces = append(namespaces, g...)
	}
	return func(app *domain.VendorApplication) []string {
		return missingFrom(stepValidator.StructPartial(app, namespaces...))
	}
}

func missingFrom(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}

func requireDocuments(slots ...SlotKey) Predicate {
	return func(app *domain.VendorApplication) []string {
		var missing []string
		for _, k := range slots {
			if Document(&app.Documents, k) == nil {
				missing = append(missing, string(k))
			}
		}
		return missing
	}
}

func allOf(preds ...Predicate) Predicate {
	return func(app *domain.VendorApplication) []string {
		var missing []string
		for _, p := range preds {
			missing = append(missing, p(app)...)
		}
		return missing
	}
}

func when(cond func(*domain.VendorApplication) bool, p Predicate) Predicate {
	return func(app *domain.VendorApplication) []string {
		if !cond(app) {
			return nil
		}
		return p(app)
	}
}

// holdsTradeLicense is false both for "no license" and "applied for".
func holdsTradeLicense(app *domain.VendorApplication) bool {
	return app.HasTradeLicense
}
