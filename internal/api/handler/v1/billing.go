package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtside/academy-api/internal/api/handler/v1/request"
	"github.com/courtside/academy-api/internal/api/handler/v1/response"
	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/service"
)

type BillingService interface {
	CalculateMonthlyBill(ctx context.Context, userID uint, month string) (float64, error)
	GenerateMonthlyInvoices(ctx context.Context, month string) (service.InvoiceRun, error)
	MonthlyInvoices(ctx context.Context, month string) ([]domain.Payment, error)
	MatchStatement(ctx context.Context, statement io.Reader) (service.MatchOutcome, error)
}

type BillingHandler struct {
	svc BillingService
}

func NewBillingHandler(svc BillingService) *BillingHandler {
	return &BillingHandler{
		svc: svc,
	}
}

// HandleCalculateBill godoc
// @Summary      Calculate what a user owes for a month
// @Tags         billing
// @Produce      json
// @Param        userID   path      int     true  "user ID"
// @Param        month    query     string  true  "month as YYYY-MM"
// @Success      200      {object}   response.BillResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/bill [get]
func (h *BillingHandler) HandleCalculateBill(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	month := ctx.Query("month")
	amount, err := h.svc.CalculateMonthlyBill(ctx.Request.Context(), uint(userID), month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidMonth))
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleCalculateBill -> h.svc.CalculateMonthlyBill -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.BillResponse{
		UserID: uint(userID),
		Month:  month,
		Amount: amount,
	})
}

// HandleGenerateInvoices godoc
// @Summary      Generate invoices for every billable user for a month
// @Tags         billing
// @Produce      json
// @Param        request   body      request.GenerateInvoicesRequest true "request body"
// @Success      200      {object}   service.InvoiceRun
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /invoices/generate [post]
func (h *BillingHandler) HandleGenerateInvoices(ctx *gin.Context) {
	var req request.GenerateInvoicesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	run, err := h.svc.GenerateMonthlyInvoices(ctx.Request.Context(), req.Month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidMonth))
			return
		}

		err = fmt.Errorf("v1.HandleGenerateInvoices -> h.svc.GenerateMonthlyInvoices -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, run)
}

// HandleListInvoices godoc
// @Summary      List the invoices generated for a month
// @Tags         billing
// @Produce      json
// @Param        month    query     string  true  "month as YYYY-MM"
// @Success      200      {array}    domain.Payment
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /invoices [get]
func (h *BillingHandler) HandleListInvoices(ctx *gin.Context) {
	payments, err := h.svc.MonthlyInvoices(ctx.Request.Context(), ctx.Query("month"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidMonth))
			return
		}

		err = fmt.Errorf("v1.HandleListInvoices -> h.svc.MonthlyInvoices -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, payments)
}

// HandleMatchStatement godoc
// @Summary      Reconcile a payment statement CSV against open invoices
// @Tags         billing
// @Accept       multipart/form-data
// @Produce      json
// @Param        statement  formData  file  true  "CSV statement export"
// @Success      200      {object}   service.MatchOutcome
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /invoices/match [post]
func (h *BillingHandler) HandleMatchStatement(ctx *gin.Context) {
	file, err := ctx.FormFile("statement")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("missing statement file")))
		return
	}

	opened, err := file.Open()
	if err != nil {
		err = fmt.Errorf("v1.HandleMatchStatement -> file.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	defer opened.Close()

	outcome, err := h.svc.MatchStatement(ctx.Request.Context(), opened)
	if err != nil {
		err = fmt.Errorf("v1.HandleMatchStatement -> h.svc.MatchStatement -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}
