package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership-system/internal/api/flash"
	"github.com/cse-motors/dealership-system/internal/api/metrics"
	"github.com/cse-motors/dealership-system/internal/api/middleware"
	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

// AccountHandler exposes registration, login and account management routes.
// It owns the session cookie transport: the token itself comes from the
// account service, the cookie write/clear happens here.
type AccountHandler struct {
	accounts   ports.AccountService
	notices    ports.NoticeStore
	cookieName string
	tokenTTL   time.Duration
}

func NewAccountHandler(accounts ports.AccountService, notices ports.NoticeStore, cookieName string, tokenTTL time.Duration) *AccountHandler {
	return &AccountHandler{
		accounts:   accounts,
		notices:    notices,
		cookieName: cookieName,
		tokenTTL:   tokenTTL,
	}
}

// LoginView delivers the login page data: pending notices and an empty error
// set.
//
// @Summary      Login view
// @Tags         account
// @Produce      json
// @Success      200  {object}  formViewResponse
// @Router       /account/login [get]
func (h *AccountHandler) LoginView(c echo.Context) error {
	return c.JSON(http.StatusOK, formViewResponse{
		Title:   "Login",
		Notices: flash.Pop(c, h.notices),
	})
}

// RegisterView delivers the registration page data.
//
// @Summary      Registration view
// @Tags         account
// @Produce      json
// @Success      200  {object}  formViewResponse
// @Router       /account/register [get]
func (h *AccountHandler) RegisterView(c echo.Context) error {
	return c.JSON(http.StatusOK, formViewResponse{
		Title:   "Register",
		Notices: flash.Pop(c, h.notices),
	})
}

// Register creates a new Client account. Validation failures echo every
// non-secret field; a duplicate email produces the same generic failure as
// any other rejection so registration cannot enumerate accounts.
//
// @Summary      Register a new account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      409   {object}  errorResponse
// @Router       /account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		RemoteIP:  c.RealIP(),
	})
	if err != nil {
		var fields domain.FieldErrors
		if errors.As(err, &fields) {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
			return c.JSON(http.StatusBadRequest, fieldErrorsResponse{
				Errors: fields,
				Fields: map[string]string{
					"first_name": req.FirstName,
					"last_name":  req.LastName,
					"email":      req.Email,
				},
			})
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	// No auto-login: the user proves the stored credential round-trips by
	// logging in with it.
	_ = flash.Push(c, h.notices, "success", "Registration successful. Please log in.")
	return c.JSON(http.StatusCreated, registerResponse{
		Account:  account,
		Redirect: middleware.LoginPath,
	})
}

// Login authenticates an account and sets the session cookie.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      401   {object}  errorResponse
// @Router       /account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		var fields domain.FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, fieldErrorsResponse{
				Errors: fields,
				Fields: map[string]string{"email": req.Email},
			})
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.setSessionCookie(c, result.Token)

	return c.JSON(http.StatusOK, loginResponse{
		Account:  result.Account,
		Redirect: "/account",
	})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; discarding the cookie is the only client-side invalidation.
//
// @Summary      Logout
// @Tags         account
// @Success      302
// @Router       /account/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	_ = flash.Push(c, h.notices, "notice", "You have been logged out.")
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Management delivers the account management view for the authenticated
// account.
//
// @Summary      Account management view
// @Tags         account
// @Produce      json
// @Success      200  {object}  accountViewResponse
// @Failure      401  {object}  errorResponse
// @Router       /account [get]
func (h *AccountHandler) Management(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.GetAccount(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountViewResponse{
		Account: account,
		Notices: flash.Pop(c, h.notices),
	})
}

// UpdateView delivers the data for the account update form. An account can
// only be fetched by its owner or an admin.
//
// @Summary      Account update view
// @Tags         account
// @Produce      json
// @Param        account_id  path      string  true  "Account ID"
// @Success      200  {object}  accountViewResponse
// @Failure      403  {object}  errorResponse
// @Router       /account/update/{account_id} [get]
func (h *AccountHandler) UpdateView(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	id := c.Param("account_id")
	if err := mustOwnOrAdmin(claims, id); err != nil {
		return err
	}

	account, err := h.accounts.GetAccount(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountViewResponse{
		Account: account,
		Notices: flash.Pop(c, h.notices),
	})
}

// UpdateProfile changes first name, last name and email. The role field is
// not accepted here: role elevation is unreachable from self-service paths.
//
// @Summary      Update account profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  accountViewResponse
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      403   {object}  errorResponse
// @Router       /account/update [post]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := mustOwnOrAdmin(claims, req.AccountID); err != nil {
		return err
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), req.AccountID, ports.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		var fields domain.FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, fieldErrorsResponse{
				Errors: fields,
				Fields: map[string]string{
					"account_id": req.AccountID,
					"first_name": req.FirstName,
					"last_name":  req.LastName,
					"email":      req.Email,
				},
			})
		}
		return err
	}

	_ = flash.Push(c, h.notices, "success", "Account information updated successfully.")
	return c.JSON(http.StatusOK, accountViewResponse{Account: account})
}

// ChangePassword hashes and stores a new password.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "New password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      403   {object}  errorResponse
// @Router       /account/password [post]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := mustOwnOrAdmin(claims, req.AccountID); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), req.AccountID, ports.ChangePasswordInput{
		Password: req.Password,
	}); err != nil {
		var fields domain.FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, fieldErrorsResponse{
				Errors: fields,
				Fields: map[string]string{"account_id": req.AccountID},
			})
		}
		return err
	}

	_ = flash.Push(c, h.notices, "success", "Password updated successfully.")
	return c.JSON(http.StatusOK, map[string]string{"redirect": "/account"})
}

func (h *AccountHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AccountHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
