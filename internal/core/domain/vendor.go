package domain

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrActiveApplication = errors.New("an active application already exists")
)

// Identity holds the applicant's personal details.
type Identity struct {
	FullName  string `json:"fullName" bson:"fullName" validate:"required"`
	Email     string `json:"email" bson:"email" validate:"required"`
	Phone     string `json:"phone" bson:"phone" validate:"required"`
	NIDNumber string `json:"nidNumber" bson:"nidNumber" validate:"required"`
}

type BusinessInfo struct {
	BusinessName     string `json:"businessName" bson:"businessName" validate:"required"`
	BusinessType     string `json:"businessType" bson:"businessType" validate:"required"` // e.g., "sole-proprietor", "partnership"
	BusinessCategory string `json:"businessCategory" bson:"businessCategory" validate:"required"`
}

// Verification covers business registration. The trade license block is
// only required when the vendor declares they hold one.
type Verification struct {
	HasTradeLicense     bool   `json:"hasTradeLicense" bson:"hasTradeLicense"`
	TradeLicenseApplied bool   `json:"tradeLicenseApplied" bson:"tradeLicenseApplied"`
	TradeLicenseNumber  string `json:"tradeLicenseNumber" bson:"tradeLicenseNumber" validate:"required_if=HasTradeLicense true"`
	IssuingAuthority    string `json:"issuingAuthority" bson:"issuingAuthority" validate:"required_if=HasTradeLicense true"`
	IssueDate           string `json:"issueDate" bson:"issueDate" validate:"required_if=HasTradeLicense true"`
	ExpiryDate          string `json:"expiryDate" bson:"expiryDate" validate:"required_if=HasTradeLicense true"`
	TINNumber           string `json:"tinNumber" bson:"tinNumber" validate:"required"`
}

type Banking struct {
	BankName          string `json:"bankName" bson:"bankName" validate:"required"`
	AccountNumber     string `json:"accountNumber" bson:"accountNumber" validate:"required"`
	AccountHolderName string `json:"accountHolderName" bson:"accountHolderName" validate:"required"`
	BranchName        string `json:"branchName,omitempty" bson:"branchName,omitempty"`
}

type StoreProfile struct {
	StoreName         string   `json:"storeName" bson:"storeName" validate:"required"`
	StoreDescription  string   `json:"storeDescription" bson:"storeDescription" validate:"required"`
	StoreCategory     string   `json:"storeCategory" bson:"storeCategory" validate:"required"`
	ProductCategories []string `json:"productCategories" bson:"productCategories" validate:"required,min=1,dive,required"`
}

// Agreements are the four acceptance flags. `required` on a bool means it must be true.
type Agreements struct {
	AcceptTerms      bool `json:"acceptTerms" bson:"acceptTerms" validate:"required"`
	AcceptPrivacy    bool `json:"acceptPrivacy" bson:"acceptPrivacy" validate:"required"`
	AcceptCommission bool `json:"acceptCommission" bson:"acceptCommission" validate:"required"`
	AcceptQuality    bool `json:"acceptQuality" bson:"acceptQuality" validate:"required"`
}

// ApplicationFields is everything the vendor types in. Document
// references live in Documents and only change through uploads.
type ApplicationFields struct {
	Identity     `bson:",inline"`
	BusinessInfo `bson:",inline"`
	Verification `bson:",inline"`
	Banking      `bson:",inline"`
	StoreProfile `bson:",inline"`
	Agreements   `bson:",inline"`
}

// FileRef points at a document held by the document-storage collaborator.
type FileRef struct {
	PublicID    string    `json:"publicId" bson:"publicId"`
	URL         string    `json:"url" bson:"url"`
	FileName    string    `json:"fileName" bson:"fileName"`
	Size        int64     `json:"size" bson:"size"`
	ContentType string    `json:"contentType" bson:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

type Documents struct {
	NIDFront       *FileRef `json:"nidFront,omitempty" bson:"nidFront,omitempty"`
	NIDBack        *FileRef `json:"nidBack,omitempty" bson:"nidBack,omitempty"`
	TradeLicense   *FileRef `json:"tradeLicense,omitempty" bson:"tradeLicense,omitempty"`
	TINCertificate *FileRef `json:"tinCertificate,omitempty" bson:"tinCertificate,omitempty"`
	StoreLogo      *FileRef `json:"storeLogo,omitempty" bson:"storeLogo,omitempty"`
	StoreBanner    *FileRef `json:"storeBanner,omitempty" bson:"storeBanner,omitempty"`
}

// VendorApplication is the full record collected across every step of
// the onboarding wizard.
type VendorApplication struct {
	ApplicationFields `bson:",inline"`
	Documents         Documents `json:"documents" bson:"documents"`
}

// Clone returns a deep copy so callers can mutate without touching the owner's record.
func (a *VendorApplication) Clone() *VendorApplication {
	out := *a
	if a.ProductCategories != nil {
		out.ProductCategories = append([]string(nil), a.ProductCategories...)
	}
	out.Documents = Documents{
		NIDFront:       cloneRef(a.Documents.NIDFront),
		NIDBack:        cloneRef(a.Documents.NIDBack),
		TradeLicense:   cloneRef(a.Documents.TradeLicense),
		TINCertificate: cloneRef(a.Documents.TINCertificate),
		StoreLogo:      cloneRef(a.Documents.StoreLogo),
		StoreBanner:    cloneRef(a.Documents.StoreBanner),
	}
	return &out
}

func cloneRef(r *FileRef) *FileRef {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// WizardState is 1-based. CurrentStep never exceeds HighestReached.
type WizardState struct {
	CurrentStep    int `json:"currentStep" bson:"currentStep"`
	HighestReached int `json:"highestReached" bson:"highestReached"`
}

// OnboardingDraft is the persisted form of a live onboarding session.
type OnboardingDraft struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"userId" bson:"userID"`
	Application VendorApplication  `json:"application" bson:"application"`
	State       WizardState        `json:"state" bson:"state"`
	StartedAt   time.Time          `json:"startedAt" bson:"startedAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
	Version     int                `json:"version" bson:"version"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// SubmissionPayload is what gets handed to vendor registration. It
// carries every collected field plus the four acceptance flags.
type SubmissionPayload struct {
	ApplicationFields `bson:",inline"`
	Documents         Documents `json:"documents" bson:"documents"`
	AssembledAt       time.Time `json:"assembledAt" bson:"assembledAt"`
}

// SubmittedApplication is a stored, fully validated application with
// the automated review outcome.
type SubmittedApplication struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"userID"`
	Payload         SubmissionPayload  `json:"payload" bson:"payload"`
	Status          ApplicationStatus  `json:"status" bson:"status"`
	RiskScore       int                `json:"riskScore" bson:"riskScore"`
	RiskFlags       []string           `json:"riskFlags" bson:"riskFlags"`
	Decision        string             `json:"decision" bson:"decision"`
	RejectionReason string             `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	AppliedAt       time.Time          `json:"appliedAt" bson:"appliedAt"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// VendorRepository defines the interface for data access.
// The Service layer depends on this interface, not the concrete implementation.
type VendorRepository interface {
	// GetDraft returns ErrNotFound when the user has no session yet.
	GetDraft(ctx context.Context, userID string) (*OnboardingDraft, error)

	// SaveDraft upserts the draft and bumps its version.
	SaveDraft(ctx context.Context, draft *OnboardingDraft) error

	// FindActiveApplication returns ErrNotFound when nothing is pending or approved.
	FindActiveApplication(ctx context.Context, userID string) (*SubmittedApplication, error)

	CreateApplication(ctx context.Context, app *SubmittedApplication) error
}
