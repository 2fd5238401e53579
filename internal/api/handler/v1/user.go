package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtside/academy-api/internal/api/handler/v1/request"
	"github.com/courtside/academy-api/internal/api/handler/v1/response"
	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/service"
)

type UserService interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	FindOrCreateByIdentity(ctx context.Context, name, email string) (domain.User, error)
}

type MergeService interface {
	Merge(ctx context.Context, primaryEmail, secondaryEmail string) (domain.User, error)
}

type UserHandler struct {
	svc   UserService
	merge MergeService
}

func NewUserHandler(svc UserService, merge MergeService) *UserHandler {
	return &UserHandler{
		svc:   svc,
		merge: merge,
	}
}

// HandleCreateUser godoc
// @Summary      Create a user
// @Tags         users
// @Produce      json
// @Param        request   body      request.CreateUserRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users [post]
func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	var req request.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.CreateUser(ctx.Request.Context(), domain.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  domain.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
			return
		}
		if errors.Is(err, service.ErrInvalidRole) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRole))
			return
		}

		err = fmt.Errorf("v1.HandleCreateUser -> h.svc.CreateUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200      {array}    domain.User
// @Failure      500      {object}   response.Err
// @Router       /users [get]
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.svc.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGenerateQR godoc
// @Summary      Generate the check-in QR payload for a student by name
// @Tags         users
// @Produce      json
// @Param        request   body      request.GenerateQRRequest true "request body"
// @Success      200      {object}   response.QRGenerateResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/qr [post]
func (h *UserHandler) HandleGenerateQR(ctx *gin.Context) {
	var req request.GenerateQRRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.FindOrCreateByIdentity(ctx.Request.Context(), req.Name, "")
	if err != nil {
		err = fmt.Errorf("v1.HandleGenerateQR -> h.svc.FindOrCreateByIdentity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.QRGenerateResponse{
		QRData: service.QRPayload(user),
		User:   user,
	})
}

// HandleMergeUsers godoc
// @Summary      Merge a duplicate user into a primary user
// @Tags         users
// @Produce      json
// @Param        request   body      request.MergeUsersRequest true "request body"
// @Success      200      {object}   response.MergeResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/merge [post]
func (h *UserHandler) HandleMergeUsers(ctx *gin.Context) {
	var req request.MergeUsersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	primary, err := h.merge.Merge(ctx.Request.Context(), req.PrimaryEmail, req.SecondaryEmail)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}
		if errors.Is(err, service.ErrSameUser) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrSameUser))
			return
		}
		if errors.Is(err, service.ErrNameMismatch) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNameMismatch))
			return
		}

		err = fmt.Errorf("v1.HandleMergeUsers -> h.merge.Merge -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.MergeResponse{
		Message: "users merged successfully",
		Primary: primary,
	})
}
