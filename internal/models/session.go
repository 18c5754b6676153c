package models

// TokenPair holds the bearer credentials returned by the credential
// exchange endpoint. The refresh token is only ever sent back on logout;
// no silent renewal happens in this design.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session is the in-memory record of the current authentication state.
// It is owned exclusively by the session manager and mutated only from
// its operations.
type Session struct {
	AccessToken  string       `json:"accessToken,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         *UserProfile `json:"user,omitempty"`
	IsLoading    bool         `json:"isLoading"`
	LastError    string       `json:"lastError,omitempty"`
}

// IsAuthenticated is true iff both the profile and the access token are
// present. A token without a profile is a half-open state, not an
// authenticated one.
func (s *Session) IsAuthenticated() bool {
	return s.User != nil && s.AccessToken != ""
}

// Clear resets every field to the unauthenticated state.
func (s *Session) Clear() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.User = nil
	s.LastError = ""
}
