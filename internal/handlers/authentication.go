package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/contextkeys"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"github.com/MonkyMars/gecho"
	"gorm.io/gorm"

	"google.golang.org/api/idtoken"
)

const AuthCookieName = contextkeys.AuthCookie

// AuthenticationHandler handles the presenter's Google login
type AuthenticationHandler struct {
	config *config.Config
	db     *gorm.DB
	// tokenURL is swapped in tests
	tokenURL string
}

// NewAuthenticationHandler creates a new authentication handler
func NewAuthenticationHandler(cfg *config.Config, db *gorm.DB) *AuthenticationHandler {
	return &AuthenticationHandler{
		config:   cfg,
		db:       db,
		tokenURL: "https://oauth2.googleapis.com/token",
	}
}

// https://developers.google.com/identity/protocols/oauth2/native-app#exchange-authorization-code
type GoogleOAuthTokenResponseBody struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	IdToken      string `json:"id_token"` // only returned when an identity scope was requested
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

type GoogleIdTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	Name          string `json:"name"`
	GoogleSubject string `json:"sub"`
}

func (h *AuthenticationHandler) redirectURI() (string, error) {
	return url.JoinPath(h.config.Server.PublicURL, "/oauth2callback")
}

// GetLogin
//
// @Summary		Presenter login
// @Description	Redirects to the Google consent screen
// @Tags			auth
// @Success		302
// @Router			/login [get]
func (h *AuthenticationHandler) GetLogin(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send() // Automatically sends 405 Method Not Allowed
		return
	}

	redirectURI, err := h.redirectURI()
	if err != nil {
		errMsg := fmt.Sprintf("Could not create login redirect uri: %s", err.Error())
		logger.Err(errMsg)
		gecho.InternalServerError(w).WithMessage(errMsg).Send()
		return
	}

	params := url.Values{}
	params.Set("client_id", h.config.OAuth.ClientId)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")

	http.Redirect(w, r, "https://accounts.google.com/o/oauth2/v2/auth?"+params.Encode(), http.StatusFound)
}

// GetOAuthCallback
//
// @Summary		Google OAuth callback
// @Description	Exchanges the code, creates the presenter if needed and sets the session cookie
// @Tags			auth
// @Param			code	query		string	true	"Authorization code"
// @Success		302
// @Failure		400	{object}	apiResponses.BadRequestError
// @Failure		500	{object}	apiResponses.InternalServerError
// @Router			/oauth2callback [get]
func (h *AuthenticationHandler) GetOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodGet); err != nil {
		err.Send() // Automatically sends 405 Method Not Allowed
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		gecho.BadRequest(w).WithMessage("Missing query parameter 'code'").Send()
		return
	}
	redirectURI, err := h.redirectURI()
	if err != nil {
		logger.Err(fmt.Sprintf("Could not create login redirect uri: %s", err.Error()))
		gecho.InternalServerError(w).Send()
		return
	}

	data := url.Values{}
	data.Set("code", code)
	data.Set("client_id", h.config.OAuth.ClientId)
	data.Set("client_secret", h.config.OAuth.ClientSecret)
	data.Set("redirect_uri", redirectURI)
	data.Set("grant_type", "authorization_code")

	ctx := r.Context()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		logger.Err(err.Error())
		gecho.InternalServerError(w).Send()
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Err(fmt.Sprintf("Could not retrieve token using OAuth callback code: %s", err.Error()))
		gecho.InternalServerError(w).Send() // no message, the error may carry auth data
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Err(fmt.Sprintf("A %d error occured while posting to %s", resp.StatusCode, h.tokenURL))
		gecho.InternalServerError(w).Send()
		return
	}

	body := GoogleOAuthTokenResponseBody{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Err(err.Error())
		gecho.InternalServerError(w).Send()
		return
	}

	payload, err := idtoken.Validate(ctx, body.IdToken, h.config.OAuth.ClientId)
	if err != nil {
		logger.Err(err.Error())
		gecho.Unauthorized(w).WithMessage("Invalid id token").Send()
		return
	}

	jsonClaims, err := json.Marshal(payload.Claims)
	if err != nil {
		logger.Err(err)
		gecho.InternalServerError(w).Send()
		return
	}
	var claims GoogleIdTokenClaims
	if err := json.Unmarshal(jsonClaims, &claims); err != nil {
		logger.Err(err)
		gecho.InternalServerError(w).Send()
		return
	}

	user, err := h.findOrCreateUser(r, payload.Subject, claims)
	if err != nil {
		logger.Err(fmt.Errorf("An error occured retrieving/creating the user: %w", err))
		gecho.InternalServerError(w).Send()
		return
	}

	session, err := h.startAuthSession(r, user)
	if err != nil {
		logger.Err(err.Error())
		gecho.InternalServerError(w).WithMessage("Could not create authenticated session").Send()
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    session.SessionToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/presenter", http.StatusFound)
}

func (h *AuthenticationHandler) findOrCreateUser(r *http.Request, subject string, claims GoogleIdTokenClaims) (models.User, error) {
	ctx := r.Context()
	user, err := gorm.G[models.User](h.db).Where("google_subject = ?", subject).First(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, err
	}
	user = models.User{
		GoogleSubject: subject,
		Email:         claims.Email,
		Name:          claims.Name,
		DisplayName:   claims.GivenName,
	}
	err = gorm.G[models.User](h.db).Create(ctx, &user)
	return user, err
}

func (h *AuthenticationHandler) startAuthSession(r *http.Request, user models.User) (models.AuthSession, error) {
	token, err := generateSecureToken(64)
	if err != nil {
		return models.AuthSession{}, err
	}
	session := models.AuthSession{
		SessionToken: token,
		UserID:       user.ID,
		ExpiresAt:    time.Now().Add(h.config.OAuth.SessionDuration),
	}
	err = gorm.G[models.AuthSession](h.db).Create(r.Context(), &session)
	return session, err
}

// PostLogout
//
// @Summary		Presenter logout
// @Description	Removes the authenticated session and its cookie
// @Tags			auth
// @Produce		json
// @Success		200	{object}	apiResponses.BaseResponse
// @Router			/logout [post]
func (h *AuthenticationHandler) PostLogout(w http.ResponseWriter, r *http.Request) {
	if err := gecho.Handlers.HandleMethod(w, r, http.MethodPost); err != nil {
		err.Send()
		return
	}

	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		if _, err := gorm.G[models.AuthSession](h.db).Where("session_token = ?", cookie.Value).Delete(r.Context()); err != nil {
			logger.Err(err.Error())
			gecho.InternalServerError(w).Send()
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: AuthCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	gecho.Success(w).WithMessage("Logged out").Send()
}
