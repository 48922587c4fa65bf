package entity

import (
	"time"
)

// MaxFavouritePlaces bounds the favourites collection per user.
const MaxFavouritePlaces = 5

// User is the aggregate root for the account domain.
// ID is the subject identifier issued by the identity provider at sign-up
// and doubles as the record's primary key. Version backs the optimistic
// concurrency check in the record store.
type User struct {
	ID               string    `json:"id"`
	UserName         string    `json:"userName"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	MobileNumber     string    `json:"mobileNumber,omitempty"`
	IsVerified       bool      `json:"isVerified"`
	ProfilePicture   string    `json:"profilePicture,omitempty"`
	FavouritePlaces  []string  `json:"favouritePlaces"`
	IsNotificationOn bool      `json:"isNotificationOn"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
	Version          int64     `json:"-"`
}

// HasFavourite reports whether city is already in the favourites list
// (case-sensitive, exact match against the stored representation).
func (u *User) HasFavourite(city string) bool {
	for _, c := range u.FavouritePlaces {
		if c == city {
			return true
		}
	}
	return false
}
