package model

// Field order below is the order validation messages are reported in.

type LoginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=4,notemail"`
	Password string `json:"password" validate:"required,min=6"`
}
