package handler

// User-facing messages are fixed pairs with their status codes. Nothing
// from the storage or hashing layers leaks through these.
const (
	errInternalServer     = "Internal server error"
	errInvalidInput       = "Email and password are required"
	errAlreadyExists      = "Account already exists"
	errInvalidCredentials = "Invalid credentials"
)
