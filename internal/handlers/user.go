package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-authgate/kc-connector/internal/core"
	"github.com/go-authgate/kc-connector/internal/middleware"
	"github.com/go-authgate/kc-connector/internal/models"
	"github.com/go-authgate/kc-connector/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// UserHandler serves the user creation endpoint.
type UserHandler struct {
	users core.UserProvisioner
}

func NewUserHandler(users core.UserProvisioner) *UserHandler {
	return &UserHandler{users: users}
}

// errorResponse is the body of every failed user creation.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// createUserResponse is the body of a successful user creation.
type createUserResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

var (
	errInvalidBody = errorResponse{
		Error:   "Invalid request body",
		Message: "Request body must be a JSON object",
	}
	errMissingFields = errorResponse{
		Error:   "Missing required fields",
		Message: "username, firstname, email and password are required",
	}
	errInvalidEmail = errorResponse{
		Error:   "Invalid email address",
		Message: "Please enter a valid email address",
	}
	errAuthentication = errorResponse{
		Error:   "Authentication error",
		Message: "Error authenticating with Keycloak",
	}
	errUserExists = errorResponse{
		Error:   "User already exists",
		Message: "A user with this username or email address already exists",
	}
	errInternal = errorResponse{
		Error:   "Internal server error",
		Message: "Error during user creation",
	}
)

// CreateUser godoc
//
//	@Summary		Create user
//	@Description	Creates an enabled user with a permanent password in the configured Keycloak realm
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.UserCreationRequest	true	"User to create"
//	@Success		201		{object}	createUserResponse
//	@Failure		400		{object}	errorResponse	"Invalid body, missing fields or invalid email"
//	@Failure		409		{object}	errorResponse	"User already exists"
//	@Failure		429		{object}	errorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	errorResponse	"Authentication or provider failure"
//	@Router			/user [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.UserCreationRequest
	// Bodies that are empty or not declared as JSON are read as an empty object.
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, errInvalidBody)
			return
		}
	}

	if err := req.Validate(); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, errInvalidEmail)
		default:
			c.JSON(http.StatusBadRequest, errMissingFields)
		}
		return
	}

	if _, err := h.users.CreateUser(c.Request.Context(), req.NewUser()); err != nil {
		log.Printf("[User] request_id=%s user=%s: %v", middleware.GetRequestID(c), req.Username, err)
		status, body := errorFor(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, createUserResponse{
		Message:  "User created successfully",
		Username: req.Username,
		Email:    req.Email,
	})
}

// errorFor maps a service error onto the public response. Provider detail
// never reaches the client.
func errorFor(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, services.ErrAuthentication):
		return http.StatusInternalServerError, errAuthentication
	case errors.Is(err, services.ErrUserExists):
		return http.StatusConflict, errUserExists
	default:
		return http.StatusInternalServerError, errInternal
	}
}
