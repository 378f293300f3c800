package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/CLDWare/methods-lab/internal/contextkeys"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"github.com/MonkyMars/gecho"
	"gorm.io/gorm"
)

// AuthenticationMiddleware guards presenter routes with the Google login
// session.
type AuthenticationMiddleware struct {
	DB *gorm.DB
	// Enabled is false when presenter login is not configured. Presenter
	// routes are then open.
	Enabled bool
	Now     func() time.Time
}

// Required checks the presenter session cookie and stores the session and its
// user on the request context under contextkeys.AuthSessionKey and
// contextkeys.AuthUserKey.
func (mw AuthenticationMiddleware) Required(next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !mw.Enabled {
			next(w, r)
			return
		}

		cookie, err := r.Cookie(contextkeys.AuthCookie)
		if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
			gecho.Unauthorized(w).WithMessage("presenter login required").Send()
			return
		} else if err != nil {
			gecho.BadRequest(w).WithMessage("malformed session cookie").Send()
			return
		}

		ctx := r.Context()
		var session models.AuthSession
		err = mw.DB.WithContext(ctx).Preload("User").Where("session_token = ?", cookie.Value).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			gecho.Unauthorized(w).WithMessage("Invalid session").Send()
			return
		} else if err != nil {
			logger.Err("loading presenter session:", err)
			gecho.InternalServerError(w).Send()
			return
		}

		now := time.Now
		if mw.Now != nil {
			now = mw.Now
		}
		if now().After(session.ExpiresAt) {
			gecho.Unauthorized(w).WithMessage("Session expired").Send()
			return
		}
		if session.User.ID == 0 {
			gecho.Unauthorized(w).WithMessage("Invalid session").Send()
			return
		}

		ctx = context.WithValue(ctx, contextkeys.AuthSessionKey, session)
		ctx = context.WithValue(ctx, contextkeys.AuthUserKey, session.User)
		next(w, r.WithContext(ctx))
	}
}
