package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/app/services"
	"github.com/threadline/threadline/pkg/auth"
	"github.com/threadline/threadline/pkg/response"
	"github.com/threadline/threadline/pkg/validation"
)

type AuthController struct {
	accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name      *string           `json:"name"`
	Phone     *string           `json:"phone"`
	Addresses *[]models.Address `json:"addresses" validate:"omitempty,dive"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !validation.Bind(w, r, &body) {
		return
	}

	user, token, err := c.accounts.Register(r.Context(), body.Name, body.Email, body.Password, body.Phone)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		response.ServerError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{"token": token, "user": user})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !validation.Bind(w, r, &body) {
		return
	}

	user, token, err := c.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		response.ServerError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"token": token, "user": user})
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterObjectID(w, r)
	if !ok {
		return
	}

	user, err := c.accounts.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.ServerError(w, err)
		return
	}

	response.OK(w, user)
}

func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterObjectID(w, r)
	if !ok {
		return
	}

	var body updateProfileRequest
	if !validation.Bind(w, r, &body) {
		return
	}

	user, err := c.accounts.UpdateProfile(r.Context(), userID, services.UpdateProfileInput{
		Name:      body.Name,
		Phone:     body.Phone,
		Addresses: body.Addresses,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.ServerError(w, err)
		return
	}

	response.OK(w, user)
}

// requesterObjectID resolves the authenticated requester's id. The auth
// middleware guarantees a requester is present on protected routes, so a
// miss here means a routing mistake rather than a user error.
func requesterObjectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	req, ok := auth.RequesterFrom(r.Context())
	if !ok {
		response.Unauthorized(w)
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		response.Unauthorized(w)
		return primitive.NilObjectID, false
	}
	return id, true
}
