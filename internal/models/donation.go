package models

import "time"

type DonationCategory string

const (
	CategoryFood        DonationCategory = "food"
	CategoryClothing    DonationCategory = "clothing"
	CategoryElectronics DonationCategory = "electronics"
	CategoryFurniture   DonationCategory = "furniture"
	CategoryBooks       DonationCategory = "books"
	CategoryOther       DonationCategory = "other"
)

var Categories = []DonationCategory{
	CategoryFood,
	CategoryClothing,
	CategoryElectronics,
	CategoryFurniture,
	CategoryBooks,
	CategoryOther,
}

func (c DonationCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type DonationStatus string

const (
	DonationStatusActive    DonationStatus = "active"
	DonationStatusCompleted DonationStatus = "completed"
)

func (s DonationStatus) Valid() bool {
	return s == DonationStatusActive || s == DonationStatusCompleted
}

type Donation struct {
	ID          string
	UserID      string
	Name        string
	Category    DonationCategory
	Quantity    int
	Description string
	Location    string
	Image       *string
	Status      DonationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Donor is derived from the owning user row at read time and is
	// never persisted with the donation.
	Donor *DonorProfile
}

type DonorProfile struct {
	ID    string
	Name  string
	Email string
	Phone *string
}
