package contextkeys

type contextKey string

const (
	AuthSessionKey contextKey = "auth_session"
	AuthUserKey    contextKey = "auth_user"
)

// AuthCookie carries the presenter's session token
const AuthCookie = "auth_session_token"
