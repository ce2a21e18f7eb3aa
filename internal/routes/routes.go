package routes

const (
	// Health
	Health = "/health"
	Test   = "/test"

	// Auth
	AuthBase   = "/api/v1/auth"
	AuthSignup = "/api/v1/auth/signup"
	AuthLogin  = "/api/v1/auth/login"
	AuthLogout = "/api/v1/auth/logout"

	// User
	UserBase = "/api/v1/user"
	UserAll  = "/api/v1/user/all"
	UserMe   = "/api/v1/user/me"
	UserByID = "/api/v1/user/{id}"
)
