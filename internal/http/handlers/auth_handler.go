// Account and session HTTP handlers.
//
// This file exposes REST endpoints for the account lifecycle:
//   - POST /users    (sign up)
//   - POST /log_in   (authenticate, sets the session cookie)
//   - GET  /log_out  (revoke the presented session)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into the shared response envelopes.
// The session credential travels as an HttpOnly cookie holding the opaque
// token; nothing about the user is recoverable from the token itself.
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-messaging-backend/internal/domain"
	"github.com/tbourn/go-messaging-backend/internal/services"
)

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "session_id"

// sessionCookieMaxAge: 0 makes it a browser-session cookie, matching the
// server-side lifetime policy (none unless SESSION_TTL is set).
const sessionCookieMaxAge = 0

//
// Service contracts (context-aware)
//

// AccountService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AccountService interface {
	// Register creates an account from a username/password pair.
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Authenticate verifies credentials and returns the matching user.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// SessionService defines the session operations consumed by HTTP handlers.
type SessionService interface {
	// Create issues a fresh opaque token bound to userID.
	Create(ctx context.Context, userID int64) (string, error)
	// Resolve maps a token to its owner; ok is false for absent/expired tokens.
	Resolve(ctx context.Context, token string) (userID int64, ok bool, err error)
	// Revoke deletes a session by token.
	Revoke(ctx context.Context, token string) error
}

//
// DTOs
//

// CredentialsRequest is the JSON payload for both sign-up and log-in.
type CredentialsRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret1"`
}

//
// Handlers
//

// SignUp godoc
// @ID          signUp
// @Summary     Register a new account
// @Description Creates a user from a username/password pair. The password is
// @Description stored only as a salted hash.
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Blank field or duplicate username"
// @Router      /users [post]
func (h *Handlers) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := bindStrictJSON(c, &req); err != nil {
		badRequest(c)
		return
	}

	_, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		ok(c, "Account successfully registered")
	case errors.Is(err, services.ErrEmptyCredentials), errors.Is(err, services.ErrUsernameTaken):
		badRequest(c)
	default:
		internalError(c, err)
	}
}

// LogIn godoc
// @ID          logIn
// @Summary     Log in and obtain a session
// @Description Verifies credentials and sets the session_id cookie on success.
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unknown user or wrong password"
// @Router      /log_in [post]
func (h *Handlers) LogIn(c *gin.Context) {
	var req CredentialsRequest
	if err := bindStrictJSON(c, &req); err != nil {
		unauthorized(c)
		return
	}

	u, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			unauthorized(c)
			return
		}
		internalError(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), u.ID)
	if err != nil {
		internalError(c, err)
		return
	}

	c.SetCookie(SessionCookie, token, sessionCookieMaxAge, "/", "", false, true)
	ok(c, "Successfully logged in")
}

// LogOut godoc
// @ID          logOut
// @Summary     Log out
// @Description Revokes the session presented in the session_id cookie.
// @Tags        Accounts
// @Produce     json
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No cookie or unknown session"
// @Router      /log_out [get]
func (h *Handlers) LogOut(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		badRequest(c)
		return
	}

	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			// Revoking a token that is already gone is a caller mistake,
			// not a server fault.
			badRequest(c)
			return
		}
		internalError(c, err)
		return
	}

	// Expire the cookie client-side as well.
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	ok(c, "User successfully logged out")
}

// currentUser resolves the session cookie to a user id. ok is false when the
// cookie is absent or the token does not resolve.
func (h *Handlers) currentUser(c *gin.Context) (int64, bool) {
	// The router's session middleware may have resolved the cookie already.
	if v, exists := c.Get("userID"); exists {
		if uid, castOK := v.(int64); castOK && uid > 0 {
			return uid, true
		}
	}
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return 0, false
	}
	uid, live, err := h.sessions.Resolve(c.Request.Context(), token)
	if err != nil || !live {
		return 0, false
	}
	// Expose the user to the access log even when the middleware was not
	// installed (tests wire handlers without the full router).
	c.Set("userID", uid)
	return uid, true
}
