package schemas

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// AuthResponse is returned by both register and login. The token carries the
// user_id claim checked by the portfolio and trade routes.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
