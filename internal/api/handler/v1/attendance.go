package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtside/academy-api/internal/api/handler/v1/request"
	"github.com/courtside/academy-api/internal/api/handler/v1/response"
	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/service"
)

type AttendanceService interface {
	Mark(ctx context.Context, classID, userID uint, status domain.AttendanceStatus) (domain.MarkResult, error)
	MarkWithValidation(ctx context.Context, classID, userID uint, status domain.AttendanceStatus) (service.ScanResult, error)
	Unmark(ctx context.Context, classID, userID uint) error
	StateFor(ctx context.Context, classID, userID uint) (domain.AttendanceState, error)
	Roster(ctx context.Context, classID uint) (domain.ClassRoster, error)
	History(ctx context.Context, userID uint, from, to *time.Time) ([]domain.Attendance, error)
}

type ScanUserService interface {
	ResolveQRPayload(ctx context.Context, payload string) (domain.User, error)
	FindOrCreateByIdentity(ctx context.Context, name, email string) (domain.User, error)
}

type CoverageResolver interface {
	CoversClassType(ctx context.Context, userID, classID uint, on time.Time) (domain.Eligibility, error)
}

type AttendanceHandler struct {
	svc      AttendanceService
	users    ScanUserService
	coverage CoverageResolver
}

func NewAttendanceHandler(svc AttendanceService, users ScanUserService, coverage CoverageResolver) *AttendanceHandler {
	return &AttendanceHandler{
		svc:      svc,
		users:    users,
		coverage: coverage,
	}
}

// HandleMarkAttendance godoc
// @Summary      Mark attendance for a user in a class
// @Tags         attendance
// @Produce      json
// @Param        request   body      request.MarkAttendanceRequest true "request body"
// @Success      200      {object}   domain.MarkResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /attendance [post]
func (h *AttendanceHandler) HandleMarkAttendance(ctx *gin.Context) {
	var req request.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Mark(ctx.Request.Context(), req.ClassID, req.UserID, domain.AttendanceStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}
		if errors.Is(err, service.ErrClassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClassNotFound))
			return
		}
		if errors.Is(err, service.ErrInvalidStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidStatus))
			return
		}

		err = fmt.Errorf("v1.HandleMarkAttendance -> h.svc.Mark -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleScanAttendance godoc
// @Summary      Check a user in from a scanned QR payload
// @Tags         attendance
// @Produce      json
// @Param        request   body      request.ScanAttendanceRequest true "request body"
// @Success      200      {object}   response.ScanResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /attendance/scan [post]
func (h *AttendanceHandler) HandleScanAttendance(ctx *gin.Context) {
	var req request.ScanAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.users.ResolveQRPayload(ctx.Request.Context(), req.QRData)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQRData) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidQRData))
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleScanAttendance -> h.users.ResolveQRPayload -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	status := domain.AttendanceStatus(req.Status)
	if req.Status == "" {
		status = domain.StatusPresent
	}

	result, err := h.svc.MarkWithValidation(ctx.Request.Context(), req.ClassID, user.ID, status)
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClassNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleScanAttendance -> h.svc.MarkWithValidation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewScanResponse(user, result))
}

// HandleAddAttendee godoc
// @Summary      Manually add an attendee to a class by name
// @Tags         attendance
// @Produce      json
// @Param        classID   path      int  true  "class ID"
// @Param        request   body      request.AddAttendeeRequest true "request body"
// @Success      200      {object}   response.ScanResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes/{classID}/attendees [post]
func (h *AttendanceHandler) HandleAddAttendee(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("classID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class ID")))
		return
	}

	var req request.AddAttendeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.users.FindOrCreateByIdentity(ctx.Request.Context(), req.Name, req.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleAddAttendee -> h.users.FindOrCreateByIdentity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	status := domain.AttendanceStatus(req.Status)
	if req.Status == "" {
		status = domain.StatusPresent
	}

	result, err := h.svc.MarkWithValidation(ctx.Request.Context(), uint(classID), user.ID, status)
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClassNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleAddAttendee -> h.svc.MarkWithValidation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewScanResponse(user, result))
}

// HandleUnmarkAttendance godoc
// @Summary      Remove an attendance record, returning the user to absent
// @Tags         attendance
// @Produce      json
// @Param        classID   path      int  true  "class ID"
// @Param        userID    path      int  true  "user ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes/{classID}/attendance/{userID} [delete]
func (h *AttendanceHandler) HandleUnmarkAttendance(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("classID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class ID")))
		return
	}
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	if err := h.svc.Unmark(ctx.Request.Context(), uint(classID), uint(userID)); err != nil {
		if errors.Is(err, service.ErrAttendanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrAttendanceNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleUnmarkAttendance -> h.svc.Unmark -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetAttendanceState godoc
// @Summary      Get a user's attendance state for a class
// @Tags         attendance
// @Produce      json
// @Param        classID   path      int  true  "class ID"
// @Param        userID    path      int  true  "user ID"
// @Success      200      {object}   map[string]string
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes/{classID}/attendance/{userID} [get]
func (h *AttendanceHandler) HandleGetAttendanceState(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("classID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class ID")))
		return
	}
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	state, err := h.svc.StateFor(ctx.Request.Context(), uint(classID), uint(userID))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAttendanceState -> h.svc.StateFor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"state": string(state)})
}

// HandleGetRoster godoc
// @Summary      Get the checked-in, unchecked and missing lists for a class
// @Tags         attendance
// @Produce      json
// @Param        classID   path      int  true  "class ID"
// @Success      200      {object}   domain.ClassRoster
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes/{classID}/roster [get]
func (h *AttendanceHandler) HandleGetRoster(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("classID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class ID")))
		return
	}

	roster, err := h.svc.Roster(ctx.Request.Context(), uint(classID))
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClassNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetRoster -> h.svc.Roster -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, roster)
}

// HandleCheckEligibility godoc
// @Summary      Check whether a user's registrations cover a class
// @Tags         attendance
// @Produce      json
// @Param        classID   path      int  true  "class ID"
// @Param        userID    path      int  true  "user ID"
// @Param        date      query     string false "date as YYYY-MM-DD, defaults to the class date"
// @Success      200      {object}   response.EligibilityResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes/{classID}/eligibility/{userID} [get]
func (h *AttendanceHandler) HandleCheckEligibility(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("classID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class ID")))
		return
	}
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	on := time.Now().UTC()
	if raw := ctx.Query("date"); raw != "" {
		on, err = request.ParseDate(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid date")))
			return
		}
	}

	eligibility, err := h.coverage.CoversClassType(ctx.Request.Context(), uint(userID), uint(classID), on)
	if err != nil {
		err = fmt.Errorf("v1.HandleCheckEligibility -> h.coverage.CoversClassType -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EligibilityResponse{
		Eligible:    eligibility.Eligible,
		Explanation: eligibility.Explanation,
	})
}

// HandleGetAttendanceHistory godoc
// @Summary      List a user's attendance history
// @Tags         attendance
// @Produce      json
// @Param        userID   path      int     true  "user ID"
// @Param        from     query     string  false "start date as YYYY-MM-DD"
// @Param        to       query     string  false "end date as YYYY-MM-DD"
// @Success      200      {array}    domain.Attendance
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/attendance [get]
func (h *AttendanceHandler) HandleGetAttendanceHistory(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	var from, to *time.Time
	if raw := ctx.Query("from"); raw != "" {
		parsed, err := request.ParseDate(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid from date")))
			return
		}
		from = &parsed
	}
	if raw := ctx.Query("to"); raw != "" {
		parsed, err := request.ParseDate(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid to date")))
			return
		}
		to = &parsed
	}

	attendances, err := h.svc.History(ctx.Request.Context(), uint(userID), from, to)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetAttendanceHistory -> h.svc.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, attendances)
}
