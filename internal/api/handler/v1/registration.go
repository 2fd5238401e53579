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

type RegistrationService interface {
	Register(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	GetRegistration(ctx context.Context, id uint) (domain.Registration, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
	CancelRegistration(ctx context.Context, id uint) (domain.Registration, error)
}

type RegistrationHandler struct {
	svc RegistrationService
}

func NewRegistrationHandler(svc RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		svc: svc,
	}
}

// HandleCreateRegistration godoc
// @Summary      Enroll a user in a package for a coverage window
// @Tags         registrations
// @Produce      json
// @Param        request   body      request.CreateRegistrationRequest true "request body"
// @Success      201      {object}   domain.Registration
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registrations [post]
func (h *RegistrationHandler) HandleCreateRegistration(ctx *gin.Context) {
	var req request.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startDate, err := request.ParseDate(req.StartDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid start date")))
		return
	}
	endDate, err := request.ParseDate(req.EndDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid end date")))
		return
	}

	registration, err := h.svc.Register(ctx.Request.Context(), domain.Registration{
		UserID:    req.UserID,
		PackageID: req.PackageID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserNotFound))
			return
		}
		if errors.Is(err, service.ErrPackageNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPackageNotFound))
			return
		}
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidDateRange))
			return
		}

		err = fmt.Errorf("v1.HandleCreateRegistration -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, registration)
}

// HandleGetRegistration godoc
// @Summary      Get a registration by ID
// @Tags         registrations
// @Produce      json
// @Param        registrationID   path      int  true  "registration ID"
// @Success      200      {object}   domain.Registration
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registrations/{registrationID} [get]
func (h *RegistrationHandler) HandleGetRegistration(ctx *gin.Context) {
	registrationID, err := strconv.ParseUint(ctx.Param("registrationID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid registration ID")))
		return
	}

	registration, err := h.svc.GetRegistration(ctx.Request.Context(), uint(registrationID))
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRegistrationNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetRegistration -> h.svc.GetRegistration -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleListUserRegistrations godoc
// @Summary      List a user's registrations
// @Tags         registrations
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      200      {array}    domain.Registration
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/registrations [get]
func (h *RegistrationHandler) HandleListUserRegistrations(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	registrations, err := h.svc.ListByUser(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleListUserRegistrations -> h.svc.ListByUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleCancelRegistration godoc
// @Summary      Cancel a registration
// @Tags         registrations
// @Produce      json
// @Param        registrationID   path      int  true  "registration ID"
// @Success      200      {object}   domain.Registration
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registrations/{registrationID}/cancel [post]
func (h *RegistrationHandler) HandleCancelRegistration(ctx *gin.Context) {
	registrationID, err := strconv.ParseUint(ctx.Param("registrationID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid registration ID")))
		return
	}

	registration, err := h.svc.CancelRegistration(ctx.Request.Context(), uint(registrationID))
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRegistrationNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleCancelRegistration -> h.svc.CancelRegistration -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registration)
}
