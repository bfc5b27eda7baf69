package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopline/shop-backend/internal/app/service"
	apperrors "github.com/shopline/shop-backend/internal/errors"
	"github.com/shopline/shop-backend/internal/middleware"
)

const (
	HomePath     = "/"
	RegisterPath = "/register"

	msgRegistered      = "Registered Successfully. You Can Login Now."
	msgRegisterInvalid = "Please correct the errors below."
	msgLoggedIn        = "Logged in successfully"
	msgLoginFailed     = "Invalid User Name or Password"
	msgLoggedOut       = "Logged Out Successfully"
)

type AuthController struct {
	authService service.AuthService
	cookie      middleware.SessionCookie
}

func NewAuthController(authService service.AuthService, cookie middleware.SessionCookie) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
	}
}

type RegisterRequest struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// FormField describes one input of a page form.
type FormField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Placeholder string   `json:"placeholder"`
	Value       string   `json:"value,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

func registerForm(req RegisterRequest, formErrs service.FormErrors) []FormField {
	return []FormField{
		{Name: "username", Label: "Username", Type: "text", Placeholder: "Enter User Name", Value: req.Username, Errors: formErrs["username"]},
		{Name: "email", Label: "Email", Type: "email", Placeholder: "Enter Your Email Id", Value: req.Email, Errors: formErrs["email"]},
		{Name: "password1", Label: "Password", Type: "password", Placeholder: "Enter Your Password", Errors: formErrs["password1"]},
		{Name: "password2", Label: "Confirm Password", Type: "password", Placeholder: "Enter Confirm Password", Errors: formErrs["password2"]},
	}
}

func loginForm() []FormField {
	return []FormField{
		{Name: "username", Label: "Username", Type: "text", Placeholder: "Enter User Name"},
		{Name: "password", Label: "Password", Type: "password", Placeholder: "Enter Your Password"},
	}
}

// RegisterPage returns an empty registration form
// GET /register
func (ctrl *AuthController) RegisterPage(c *gin.Context) {
	renderPage(c, http.StatusOK, gin.H{
		"form": registerForm(RegisterRequest{}, nil),
	})
}

// Register creates an account
// POST /register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid registration payload", map[string]interface{}{
			"code":  apperrors.ValidationInvalidInput,
			"error": err.Error(),
		})
	}

	user, err := ctrl.authService.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		var formErrs service.FormErrors
		if errors.As(err, &formErrs) {
			middleware.AddFlash(c, middleware.FlashError, msgRegisterInvalid)
			renderPage(c, http.StatusOK, gin.H{
				"form": registerForm(req, formErrs),
			})
			return
		}

		info := apperrors.ParseError(err, "register user")
		log.Error("Failed to register user", err, map[string]interface{}{
			"username": req.Username,
			"code":     info.Code,
		})
		if info.Code == apperrors.AuthUsernameExists || info.Code == apperrors.AuthEmailExists {
			// Lost a race with a concurrent registration for the same name.
			middleware.AddFlash(c, middleware.FlashError, msgRegisterInvalid)
			field := "username"
			if info.Code == apperrors.AuthEmailExists {
				field = "email"
			}
			renderPage(c, http.StatusOK, gin.H{
				"form": registerForm(req, service.FormErrors{field: {info.Message}}),
			})
			return
		}
		apperrors.InternalError(c)
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	redirectWithFlash(c, middleware.FlashSuccess, msgRegistered, middleware.LoginPath)
}

// LoginPage returns the login form, or sends signed-in users home
// GET /login
func (ctrl *AuthController) LoginPage(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); ok {
		c.Redirect(http.StatusFound, HomePath)
		return
	}
	renderPage(c, http.StatusOK, gin.H{
		"form": loginForm(),
	})
}

// Login signs a user in and sets the session cookie
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if _, ok := middleware.GetUserID(c); ok {
		c.Redirect(http.StatusFound, HomePath)
		return
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid login payload", map[string]interface{}{
			"code":  apperrors.ValidationInvalidInput,
			"error": err.Error(),
		})
	}

	user, session, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login rejected", map[string]interface{}{
				"username": req.Username,
				"code":     apperrors.AuthInvalidCredentials,
			})
			redirectWithFlash(c, middleware.FlashError, msgLoginFailed, middleware.LoginPath)
			return
		}
		log.Error("Failed to log in", err, map[string]interface{}{
			"username": req.Username,
			"code":     apperrors.ParseError(err, "log in").Code,
		})
		apperrors.InternalError(c)
		return
	}

	ctrl.cookie.Set(c, session.Token, time.Until(session.ExpiresAt))

	log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	redirectWithFlash(c, middleware.FlashSuccess, msgLoggedIn, HomePath)
}

// Logout ends the session
// GET /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if ok {
		if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetSessionToken(c)); err != nil {
			log.Error("Failed to revoke session", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		middleware.AddFlash(c, middleware.FlashSuccess, msgLoggedOut)
	}

	if ctrl.cookie.Read(c) != "" {
		ctrl.cookie.Clear(c)
	}
	c.Redirect(http.StatusFound, HomePath)
}
