package dto

// CredentialsPayload is the request body for registration and login.
type CredentialsPayload struct {
	LoginID     string `json:"loginId"`
	PlainSecret string `json:"plainSecret"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterResponse acknowledges a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
}
