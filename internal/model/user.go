package model

import "time"

// RegisteredUser is an entry of the registeredUsers collection.
// Passwords are stored and compared verbatim.
type RegisteredUser struct {
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u RegisteredUser) Profile(loginTime time.Time) UserProfile {
	return UserProfile{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		LoginTime: loginTime,
	}
}

// SignUpForm is the raw registration input.
type SignUpForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// UserProfile is the guest session snapshot stored under userData.
type UserProfile struct {
	UserID    int64     `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	LoginTime time.Time `json:"loginTime"`
}

// Owner resolves the booking owner: user id when known, else email.
func (p UserProfile) Owner() OwnerID {
	if p.UserID != 0 {
		return OwnerFromUserID(p.UserID)
	}
	return OwnerID(p.Email)
}

// AdminProfile is the admin session snapshot stored under adminUser.
type AdminProfile struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"loginTime"`
}
