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

type CatalogService interface {
	CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error)
	GetPackage(ctx context.Context, id uint) (domain.Package, error)
	ListPackages(ctx context.Context) ([]domain.Package, error)
	AddPackageOption(ctx context.Context, option domain.PackageOption) (domain.PackageOption, error)
	CreateClassType(ctx context.Context, classType domain.ClassType) (domain.ClassType, error)
	ListClassTypes(ctx context.Context) ([]domain.ClassType, error)
	CreateClass(ctx context.Context, class domain.Class) (domain.Class, error)
	GetClass(ctx context.Context, id uint) (domain.Class, error)
	ListClasses(ctx context.Context) ([]domain.Class, error)
	CancelClass(ctx context.Context, id uint) (domain.Class, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
	}
}

// HandleCreatePackage godoc
// @Summary      Create a package
// @Tags         catalog
// @Produce      json
// @Param        request   body      request.CreatePackageRequest true "request body"
// @Success      201      {object}   domain.Package
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /packages [post]
func (h *CatalogHandler) HandleCreatePackage(ctx *gin.Context) {
	var req request.CreatePackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	pkg, err := h.svc.CreatePackage(ctx.Request.Context(), domain.Package{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Basis:       domain.DurationBasis(req.Basis),
		NumClasses:  req.NumClasses,
		NumWeeks:    req.NumWeeks,
		ClassTypeID: req.ClassTypeID,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidBasis) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidBasis))
			return
		}
		if errors.Is(err, service.ErrClassTypeNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrClassTypeNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleCreatePackage -> h.svc.CreatePackage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, pkg)
}

// HandleGetPackage godoc
// @Summary      Get a package with its options
// @Tags         catalog
// @Produce      json
// @Param        packageID   path      int  true  "package ID"
// @Success      200      {object}   domain.Package
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /packages/{packageID} [get]
func (h *CatalogHandler) HandleGetPackage(ctx *gin.Context) {
	packageID, err := strconv.ParseUint(ctx.Param("packageID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid package ID")))
		return
	}

	pkg, err := h.svc.GetPackage(ctx.Request.Context(), uint(packageID))
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrPackageNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetPackage -> h.svc.GetPackage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, pkg)
}

// HandleListPackages godoc
// @Summary      List all packages
// @Tags         catalog
// @Produce      json
// @Success      200      {array}    domain.Package
// @Failure      500      {object}   response.Err
// @Router       /packages [get]
func (h *CatalogHandler) HandleListPackages(ctx *gin.Context) {
	packages, err := h.svc.ListPackages(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPackages -> h.svc.ListPackages -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, packages)
}

// HandleAddPackageOption godoc
// @Summary      Add a predefined coverage window to a package
// @Tags         catalog
// @Produce      json
// @Param        packageID   path      int  true  "package ID"
// @Param        request   body      request.AddPackageOptionRequest true "request body"
// @Success      201      {object}   domain.PackageOption
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /packages/{packageID}/options [post]
func (h *CatalogHandler) HandleAddPackageOption(ctx *gin.Context) {
	packageID, err := strconv.ParseUint(ctx.Param("packageID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid package ID")))
		return
	}

	var req request.AddPackageOptionRequest
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

	option, err := h.svc.AddPackageOption(ctx.Request.Context(), domain.PackageOption{
		PackageID: uint(packageID),
		Label:     req.Label,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrPackageNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleAddPackageOption -> h.svc.AddPackageOption -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, option)
}

// HandleCreateClassType godoc
// @Summary      Create a class type
// @Tags         catalog
// @Produce      json
// @Param        request   body      request.CreateClassTypeRequest true "request body"
// @Success      201      {object}   domain.ClassType
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /class-types [post]
func (h *CatalogHandler) HandleCreateClassType(ctx *gin.Context) {
	var req request.CreateClassTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	classType, err := h.svc.CreateClassType(ctx.Request.Context(), domain.ClassType{
		Name: req.Name,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateClassType -> h.svc.CreateClassType -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, classType)
}

// HandleListClassTypes godoc
// @Summary      List all class types
// @Tags         catalog
// @Produce      json
// @Success      200      {array}    domain.ClassType
// @Failure      500      {object}   response.Err
// @Router       /class-types [get]
func (h *CatalogHandler) HandleListClassTypes(ctx *gin.Context) {
	classTypes, err := h.svc.ListClassTypes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListClassTypes -> h.svc.ListClassTypes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, classTypes)
}

// HandleCreateClass godoc
// @Summary      Schedule a class session
// @Tags         catalog
// @Produce      json
// @Param        request   body      request.CreateClassRequest true "request body"
// @Success      201      {object}   domain.Class
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes [post]
func (h *CatalogHandler) HandleCreateClass(ctx *gin.Context) {
	var req request.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, err := request.ParseDate(req.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class date")))
		return
	}

	class, err := h.svc.CreateClass(ctx.Request.Context(), domain.Class{
		PackageID:   req.PackageID,
		ClassTypeID: req.ClassTypeID,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPackageNotFound))
			return
		}
		if errors.Is(err, service.ErrClassTypeNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrClassTypeNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleCreateClass -> h.svc.CreateClass -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, class)
}

// HandleListClasses godoc
// @Summary      List all scheduled classes
// @Tags         catalog
// @Produce      json
// @Success      200      {array}    domain.Class
// @Failure      500      {object}   response.Err
// @Router       /classes [get]
func (h *CatalogHandler) HandleListClasses(ctx *gin.Context) {
	classes, err := h.svc.ListClasses(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListClasses -> h.svc.ListClasses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, classes)
}

// HandleGetClass godoc
// @Summary      Get a class by ID
// @Tags         catalog
// @Produce      json
// @Param        classID   path      int  true  "class ID"
// @Success      200      {object}   domain.Class
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes/{classID} [get]
func (h *CatalogHandler) HandleGetClass(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("classID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class ID")))
		return
	}

	class, err := h.svc.GetClass(ctx.Request.Context(), uint(classID))
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClassNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetClass -> h.svc.GetClass -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, class)
}

// HandleCancelClass godoc
// @Summary      Cancel a class and notify covered users
// @Tags         catalog
// @Produce      json
// @Param        classID   path      int  true  "class ID"
// @Success      200      {object}   domain.Class
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /classes/{classID}/cancel [post]
func (h *CatalogHandler) HandleCancelClass(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("classID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid class ID")))
		return
	}

	class, err := h.svc.CancelClass(ctx.Request.Context(), uint(classID))
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrClassNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleCancelClass -> h.svc.CancelClass -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, class)
}
