package onboarding

import (
	"time"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
)

func fileRef(name string) *domain.FileRef {
	return &domain.FileRef{
		PublicID:    "seller-verification/" + name,
		URL:         "https://res.cloudinary.com/demo/" + name,
		FileName:    name + ".jpg",
		Size:        200 * 1024,
		ContentType: "image/jpeg",
		UploadedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func fillBasicInfo(f *domain.ApplicationFields) {
	f.FullName = "Amina Rahman"
	f.Email = "amina@example.com"
	f.Phone = "+8801700000000"
	f.NIDNumber = "1990123456789"
	f.BusinessName = "Rahman Crafts"
	f.BusinessType = "sole-proprietor"
	f.BusinessCategory = "handicrafts"
}

func fillVerification(f *domain.ApplicationFields) {
	f.TINNumber = "123456789012"
	f.BankName = "City Bank"
	f.AccountNumber = "0012345678"
	f.AccountHolderName = "Amina Rahman"
}

func fillStore(f *domain.ApplicationFields) {
	f.StoreName = "Rahman Crafts"
	f.StoreDescription = "Handmade jute and clay goods"
	f.StoreCategory = "home-decor"
	f.ProductCategories = []string{"baskets", "pottery"}
}

func acceptAll(f *domain.ApplicationFields) {
	f.AcceptTerms = true
	f.AcceptPrivacy = true
	f.AcceptCommission = true
	f.AcceptQuality = true
}

// completeApplication satisfies every step without a trade license.
func completeApplication() *domain.VendorApplication {
	app := &domain.VendorApplication{}
	fillBasicInfo(&app.ApplicationFields)
	fillVerification(&app.ApplicationFields)
	fillStore(&app.ApplicationFields)
	acceptAll(&app.ApplicationFields)
	app.Documents.NIDFront = fileRef("nid-front")
	app.Documents.NIDBack = fileRef("nid-back")
	return app
}
