package users

import (
	"errors"
	"net/http"
	"strconv"

	"userapp/middleware/jwt"
	"userapp/services/auth"
	"userapp/services/logging"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
	logger  *logging.Service
}

func NewHandler(service *Service, logger *logging.Service) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Country      string `json:"country"`
	Image        string `json:"image"`
	FrontBaseURL string `json:"frontBaseUrl"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
	Image     string `json:"image"`
}

type resetRequest struct {
	Email        string `json:"email"`
	FrontBaseURL string `json:"frontBaseUrl"`
}

type newPasswordRequest struct {
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (h *Handler) List(c echo.Context) error {
	users, err := h.service.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) Create(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.service.Register(RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Country:      req.Country,
		Image:        req.Image,
		FrontBaseURL: req.FrontBaseURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) GetOne(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	user, err := h.service.Get(uint(id))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.service.Update(uint(id), UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
		Image:     req.Image,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Remove always answers 204; a malformed or unknown id deletes nothing and
// still reports success.
func (h *Handler) Remove(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.service.Delete(uint(id)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) VerifyEmail(c echo.Context) error {
	user, err := h.service.VerifyEmail(c.Param("code"))
	if err != nil {
		if errors.Is(err, auth.ErrCodeInvalid) || errors.Is(err, auth.ErrCodeExpired) || errors.Is(err, ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Code not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, signed, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
		case errors.Is(err, ErrNotVerified):
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "User not verified"})
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, loginResponse{User: user, Token: signed})
}

func (h *Handler) Me(c echo.Context) error {
	claims := jwt.GetClaims(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
	}

	user, err := h.service.Get(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *Handler) RequestPasswordReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.service.RequestPasswordReset(req.Email, req.FrontBaseURL); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// deliberately indistinguishable from a bad login: the response
			// must not reveal which addresses have accounts
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
		}
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "Sending email"})
}

func (h *Handler) NewPassword(c echo.Context) error {
	var req newPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.service.ResetPassword(c.Param("code"), req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrCodeInvalid), errors.Is(err, auth.ErrCodeExpired):
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid or expired code"})
		case errors.Is(err, ErrUserNotFound):
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "User not found"})
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
}
