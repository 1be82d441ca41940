package domain

// AuthorizationStatus is the client's knowledge about the session.
type AuthorizationStatus string

const (
	AuthUnknown AuthorizationStatus = "UNKNOWN"
	AuthAuth    AuthorizationStatus = "AUTH"
	AuthNoAuth  AuthorizationStatus = "NO_AUTH"
)

// UserProfile is what the client keeps in memory about the signed-in user.
type UserProfile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// AuthInfo is the login and session-check response.
type AuthInfo struct {
	UserProfile
	Token string `json:"token"`
}

func (a AuthInfo) Profile() UserProfile {
	return a.UserProfile
}
