package models

import "time"

type User struct {
	UserID       string    `json:"userid" bson:"userid"`
	FirstName    string    `json:"firstName" bson:"firstName"`
	LastName     string    `json:"lastName" bson:"lastName"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role         string    `json:"role" bson:"role"` // "user" or "admin"
	IsActive     bool      `json:"isActive" bson:"isActive"`
	Address      Address   `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
	LastLogin    time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// PublicUser is the shape returned to clients after login/registration.
type PublicUser struct {
	UserID    string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}
