package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/courtside/academy-api/docs"
	v1 "github.com/courtside/academy-api/internal/api/handler/v1"
	"github.com/courtside/academy-api/internal/api/middleware"
	"github.com/courtside/academy-api/internal/config"
	"github.com/courtside/academy-api/internal/notifier"
	"github.com/courtside/academy-api/internal/repository"
	"github.com/courtside/academy-api/internal/repository/dao"
	"github.com/courtside/academy-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	emails := notifier.NewEmailNotifier(conf.SMTP)

	authHandler := s.initAuthHandler()
	userHandler := s.initUserHandler(db)
	catalogHandler := s.initCatalogHandler(db, emails)
	registrationHandler := s.initRegistrationHandler(db, emails)
	attendanceHandler := s.initAttendanceHandler(db)
	billingHandler := s.initBillingHandler(db, emails)
	s.MountHandlers(authHandler, userHandler, catalogHandler, registrationHandler, attendanceHandler, billingHandler)

	return s
}

func (s *Server) initAuthHandler() *v1.AuthHandler {
	svc := service.NewAuthService(s.Config.API.CoachPassword, s.Config.API.JWTSigningKey)
	handler := v1.NewAuthHandler(svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewUserService(userRepo)
	mergeSvc := service.NewMergeService(userRepo)
	handler := v1.NewUserHandler(svc, mergeSvc)

	return handler
}

func (s *Server) initCatalogHandler(db *gorm.DB, emails *notifier.EmailNotifier) *v1.CatalogHandler {
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	classRepo := repository.NewClassRepository(dao.NewClassDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	svc := service.NewCatalogService(catalogRepo, classRepo, registrationRepo, emails)
	handler := v1.NewCatalogHandler(svc)

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB, emails *notifier.EmailNotifier) *v1.RegistrationHandler {
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	svc := service.NewRegistrationService(registrationRepo, userRepo, catalogRepo, emails)
	handler := v1.NewRegistrationHandler(svc)

	return handler
}

func (s *Server) initAttendanceHandler(db *gorm.DB) *v1.AttendanceHandler {
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	classRepo := repository.NewClassRepository(dao.NewClassDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	coverage := service.NewCoverageService(registrationRepo, classRepo)
	svc := service.NewAttendanceService(attendanceRepo, userRepo, classRepo, registrationRepo, coverage)
	userSvc := service.NewUserService(userRepo)
	handler := v1.NewAttendanceHandler(svc, userSvc, coverage)

	return handler
}

func (s *Server) initBillingHandler(db *gorm.DB, emails *notifier.EmailNotifier) *v1.BillingHandler {
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	classRepo := repository.NewClassRepository(dao.NewClassDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	svc := service.NewBillingService(registrationRepo, classRepo, userRepo, paymentRepo, emails)
	handler := v1.NewBillingHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	catalogHandler *v1.CatalogHandler,
	registrationHandler *v1.RegistrationHandler,
	attendanceHandler *v1.AttendanceHandler,
	billingHandler *v1.BillingHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/coach/login", authHandler.HandleCoachLogin)
	}

	coach := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		coach.POST("/users", userHandler.HandleCreateUser)
		coach.GET("/users", userHandler.HandleListUsers)
		coach.GET("/users/:userID", userHandler.HandleGetUser)
		coach.POST("/users/qr", userHandler.HandleGenerateQR)
		coach.POST("/users/merge", userHandler.HandleMergeUsers)
		coach.GET("/users/:userID/registrations", registrationHandler.HandleListUserRegistrations)
		coach.GET("/users/:userID/attendance", attendanceHandler.HandleGetAttendanceHistory)
		coach.GET("/users/:userID/bill", billingHandler.HandleCalculateBill)

		coach.POST("/packages", catalogHandler.HandleCreatePackage)
		coach.GET("/packages", catalogHandler.HandleListPackages)
		coach.GET("/packages/:packageID", catalogHandler.HandleGetPackage)
		coach.POST("/packages/:packageID/options", catalogHandler.HandleAddPackageOption)
		coach.POST("/class-types", catalogHandler.HandleCreateClassType)
		coach.GET("/class-types", catalogHandler.HandleListClassTypes)

		coach.POST("/classes", catalogHandler.HandleCreateClass)
		coach.GET("/classes", catalogHandler.HandleListClasses)
		coach.GET("/classes/:classID", catalogHandler.HandleGetClass)
		coach.POST("/classes/:classID/cancel", catalogHandler.HandleCancelClass)
		coach.GET("/classes/:classID/roster", attendanceHandler.HandleGetRoster)
		coach.POST("/classes/:classID/attendees", attendanceHandler.HandleAddAttendee)
		coach.GET("/classes/:classID/attendance/:userID", attendanceHandler.HandleGetAttendanceState)
		coach.DELETE("/classes/:classID/attendance/:userID", attendanceHandler.HandleUnmarkAttendance)
		coach.GET("/classes/:classID/eligibility/:userID", attendanceHandler.HandleCheckEligibility)

		coach.POST("/registrations", registrationHandler.HandleCreateRegistration)
		coach.GET("/registrations/:registrationID", registrationHandler.HandleGetRegistration)
		coach.POST("/registrations/:registrationID/cancel", registrationHandler.HandleCancelRegistration)

		coach.POST("/attendance", attendanceHandler.HandleMarkAttendance)
		coach.POST("/attendance/scan", attendanceHandler.HandleScanAttendance)

		coach.POST("/invoices/generate", billingHandler.HandleGenerateInvoices)
		coach.GET("/invoices", billingHandler.HandleListInvoices)
		coach.POST("/invoices/match", billingHandler.HandleMatchStatement)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Academy Operations API"
	docs.SwaggerInfo.Description = "Enrollment, attendance and billing API for a tennis academy."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
