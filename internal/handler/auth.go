package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/cinema-showtime-planner/internal/repository"
	"github.com/iliyamo/cinema-showtime-planner/internal/utils"
	"github.com/labstack/echo/v4"
)

// AuthHandler implements operator registration and login.  The planner only
// issues short-lived access tokens; refresh-token/session storage is out of
// scope for this service.
type AuthHandler struct {
	Users        *repository.UserRepo
	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int
}

// NewAuthHandler constructs an AuthHandler and panics on a nil repository.
func NewAuthHandler(users *repository.UserRepo, secret string, ttlMin, cost int) *AuthHandler {
	if users == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, JWTSecret: secret, AccessTTLMin: ttlMin, BcryptCost: cost}
}

// Register handles POST /v1/auth/register.  New accounts default to the
// PLANNER role; OWNER can be requested explicitly.
func (a *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.TrimSpace(body.Email)
	if email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	role := strings.ToUpper(strings.TrimSpace(body.Role))
	switch role {
	case "":
		role = "PLANNER"
	case "PLANNER", "OWNER":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	id, err := a.Users.Create(c.Request().Context(), email, body.Password, role, a.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "email": strings.ToLower(email), "role": role})
}

// Login handles POST /v1/auth/login and returns a signed access token.
func (a *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := a.Users.GetByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(a.JWTSecret, u.ID, u.Role, a.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
		"role":         u.Role,
	})
}

// Me handles GET /v1/me and returns the authenticated operator's account.
func (a *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := a.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": u.ID, "email": u.Email, "role": u.Role})
}
