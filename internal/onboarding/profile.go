package onboarding

import (
	"github.com/marketlink/marketlink/internal/db/models"
)

// Submission is the onboarding form of one user type.
type Submission interface {
	// UserType is the type the form belongs to.
	UserType() models.UserType
	// apply copies the form into u and returns the written field names.
	apply(u *models.User) []string
}

// BuyerProfile is the buyer onboarding form.
type BuyerProfile struct {
	Company      string `json:"company"      validate:"required,max=255"`
	CompanySize  string `json:"companySize"  validate:"required,max=50"`
	FoundingDate string `json:"foundingDate" validate:"omitempty,datetime=2006-01-02"`
	Location     string `json:"location"     validate:"required,max=255"`
	Requirements string `json:"requirements" validate:"required"`
	Budget       string `json:"budget"       validate:"omitempty,max=100"`
}

// UserType implements Submission.
func (BuyerProfile) UserType() models.UserType { return models.UserTypeBuyer }

func (p BuyerProfile) apply(u *models.User) []string {
	u.Profile.Company = p.Company
	u.Profile.CompanySize = p.CompanySize
	u.Profile.FoundingDate = p.FoundingDate
	u.Profile.Location = p.Location
	u.Profile.Requirements = p.Requirements
	u.Profile.Budget = p.Budget

	return []string{"Company", "CompanySize", "FoundingDate", "Location", "Requirements", "Budget"}
}

// VendorProfile is the vendor onboarding form.
type VendorProfile struct {
	Company      string   `json:"company"      validate:"required,max=255"`
	CompanySize  string   `json:"companySize"  validate:"required,max=50"`
	FoundingDate string   `json:"foundingDate" validate:"omitempty,datetime=2006-01-02"`
	Location     string   `json:"location"     validate:"required,max=255"`
	Products     []string `json:"products"     validate:"required_without=Services,dive,required"`
	Services     []string `json:"services"     validate:"required_without=Products,dive,required"`
}

// UserType implements Submission.
func (VendorProfile) UserType() models.UserType { return models.UserTypeVendor }

func (p VendorProfile) apply(u *models.User) []string {
	u.Profile.Company = p.Company
	u.Profile.CompanySize = p.CompanySize
	u.Profile.FoundingDate = p.FoundingDate
	u.Profile.Location = p.Location
	u.Profile.Products = p.Products
	u.Profile.Services = p.Services

	return []string{"Company", "CompanySize", "FoundingDate", "Location", "Products", "Services"}
}

// IntroducerProfile is the introducer onboarding form.
type IntroducerProfile struct {
	Expertise       []string `json:"expertise"       validate:"required,min=1,dive,required"`
	Industries      []string `json:"industries"      validate:"required,min=1,dive,required"`
	LinkedinProfile string   `json:"linkedinProfile" validate:"omitempty,url"`
	Description     string   `json:"description"     validate:"omitempty,max=2000"`
}

// UserType implements Submission.
func (IntroducerProfile) UserType() models.UserType { return models.UserTypeIntroducer }

func (p IntroducerProfile) apply(u *models.User) []string {
	u.Profile.Expertise = p.Expertise
	u.Profile.Industries = p.Industries
	u.Profile.LinkedinProfile = p.LinkedinProfile
	u.Profile.Description = p.Description

	return []string{"Expertise", "Industries", "LinkedinProfile", "Description"}
}

// NewSubmission returns an empty form for t, ready to be decoded into.
func NewSubmission(t models.UserType) (Submission, bool) {
	switch t {
	case models.UserTypeBuyer:
		return &BuyerProfile{}, true
	case models.UserTypeVendor:
		return &VendorProfile{}, true
	case models.UserTypeIntroducer:
		return &IntroducerProfile{}, true
	default:
		return nil, false
	}
}
