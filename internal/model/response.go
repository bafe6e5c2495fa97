package model

type UserResponse struct {
	User PublicUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope produced by the terminal error formatter.
type ErrorResponse struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Status  int      `json:"status"`
	Stack   *string  `json:"stack,omitempty"`
}
