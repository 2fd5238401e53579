package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtside/academy-api/internal/api/handler/v1/request"
	"github.com/courtside/academy-api/internal/api/handler/v1/response"
	"github.com/courtside/academy-api/internal/service"
)

type AuthService interface {
	LoginCoach(password, userAgent string) (string, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleCoachLogin godoc
// @Summary      Login as a coach with the shared coach password
// @Tags         auth
// @Produce      json
// @Param        request   body      request.CoachLoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/coach/login [post]
func (h *AuthHandler) HandleCoachLogin(ctx *gin.Context) {
	var req request.CoachLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	token, err := h.svc.LoginCoach(req.Password, ctx.Request.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(service.ErrWrongPassword))
			return
		}

		err = fmt.Errorf("v1.HandleCoachLogin -> h.svc.LoginCoach -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{Token: token})
}
