package onboarding

import (
	"github.com/developia-II/vendora-onboarding/internal/core/domain"
)

// SlotKey names one document-upload target.
type SlotKey string

const (
	SlotNIDFront       SlotKey = "nidFront"
	SlotNIDBack        SlotKey = "nidBack"
	SlotTradeLicense   SlotKey = "tradeLicense"
	SlotTINCertificate SlotKey = "tinCertificate"
	SlotStoreLogo      SlotKey = "storeLogo"
	SlotStoreBanner    SlotKey = "storeBanner"
)

const (
	MaxDocumentSize = 5 << 20 // 5MB
	MaxLogoSize     = 2 << 20
	MaxBannerSize   = 5 << 20
)

// AllSlots lists the slots in the order the wizard shows them.
var AllSlots = []SlotKey{
	SlotNIDFront,
	SlotNIDBack,
	SlotTradeLicense,
	SlotTINCertificate,
	SlotStoreLogo,
	SlotStoreBanner,
}

// DefaultLimits returns the per-slot size limit in bytes.
func DefaultLimits() map[SlotKey]int64 {
	return map[SlotKey]int64{
		SlotNIDFront:       MaxDocumentSize,
		SlotNIDBack:        MaxDocumentSize,
		SlotTradeLicense:   MaxDocumentSize,
		SlotTINCertificate: MaxDocumentSize,
		SlotStoreLogo:      MaxLogoSize,
		SlotStoreBanner:    MaxBannerSize,
	}
}

// ParseSlot returns false for keys the wizard does not know.
func ParseSlot(s string) (SlotKey, bool) {
	for _, k := range AllSlots {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ref returns the application field that holds the slot's file reference.
func (k SlotKey) ref(d *domain.Documents) **domain.FileRef {
	switch k {
	case SlotNIDFront:
		return &d.NIDFront
	case SlotNIDBack:
		return &d.NIDBack
	case SlotTradeLicense:
		return &d.TradeLicense
	case SlotTINCertificate:
		return &d.TINCertificate
	case SlotStoreLogo:
		return &d.StoreLogo
	case SlotStoreBanner:
		return &d.StoreBanner
	}
	return nil
}

// Document returns the file reference stored for the slot, or nil.
func Document(d *domain.Documents, k SlotKey) *domain.FileRef {
	p := k.ref(d)
	if p == nil {
		return nil
	}
	return *p
}
