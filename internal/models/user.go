package models

// User is a member of the social graph. FriendIDs is kept symmetric:
// whenever b appears in a.FriendIDs, a appears in b.FriendIDs.
type User struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // never serialize
	Name         string  `json:"name"`
	Age          *int    `json:"age,omitempty"`
	FriendIDs    []int64 `json:"friendIds"`
}

// SignUpRequest is the JSON body for POST /api/auth/signup.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token is the login response payload.
type Token struct {
	Token string `json:"token"`
}

// UpdateMyInfoRequest carries the optional profile fields for PUT /api/me.
// Absent fields are left untouched.
type UpdateMyInfoRequest struct {
	Name *string `json:"name,omitempty"`
	Age  *int    `json:"age,omitempty"`
}

// AddFriendRequest is the JSON body for POST /api/me/friends.
type AddFriendRequest struct {
	UserID int64 `json:"userId" validate:"required"`
}
