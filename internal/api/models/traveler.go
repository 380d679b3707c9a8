package models

// TravelerCreateRequest registers a traveler profile.
type TravelerCreateRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=80"`
	HomeCountry string `json:"homeCountry" validate:"omitempty,len=2,alpha"`
}
