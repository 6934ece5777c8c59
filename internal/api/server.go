package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"partyvote/docs"
	v1 "partyvote/internal/api/handler/v1"
	"partyvote/internal/api/middleware"
	"partyvote/internal/config"
	"partyvote/internal/repository"
	"partyvote/internal/repository/dao"
	"partyvote/internal/service"
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

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	compoRepo := repository.NewCompoRepository(dao.NewCompoDAO(db))
	competitionRepo := repository.NewCompetitionRepository(dao.NewCompetitionDAO(db))
	ballotRepo := repository.NewBallotRepository(dao.NewBallotDAO(db))
	voteCodeRepo := repository.NewVoteCodeRepository(dao.NewVoteCodeDAO(db))

	// The scorer is shared so recomputes of the same compo serialize on one
	// keyed mutex no matter which surface triggered them.
	scorer := service.NewScoringService(compoRepo, ballotRepo, competitionRepo)
	userSvc := service.NewUserService(userRepo)

	authHandler := v1.NewAuthHandler(conf.API, service.NewAuthService(userRepo))
	userHandler := v1.NewUserHandler(userSvc)
	eventHandler := v1.NewEventHandler(service.NewEventService(eventRepo), userSvc)
	compoHandler := v1.NewCompoHandler(service.NewCompoService(compoRepo, eventRepo, scorer), userSvc)
	ballotHandler := v1.NewBallotHandler(service.NewBallotService(compoRepo, voteCodeRepo, ballotRepo, scorer), userSvc)
	competitionHandler := v1.NewCompetitionHandler(service.NewCompetitionService(competitionRepo, eventRepo, scorer), userSvc)
	voteCodeHandler := v1.NewVoteCodeHandler(service.NewVoteCodeService(eventRepo, voteCodeRepo, service.NewLogNotifier()), userSvc)
	maintenanceHandler := v1.NewMaintenanceHandler(
		service.NewMaintenanceService(eventRepo, compoRepo, competitionRepo, ballotRepo, voteCodeRepo, scorer),
		userSvc,
	)

	s.MountHandlers(authHandler, userHandler, eventHandler, compoHandler, ballotHandler, competitionHandler, voteCodeHandler, maintenanceHandler)

	return s
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
	eventHandler *v1.EventHandler,
	compoHandler *v1.CompoHandler,
	ballotHandler *v1.BallotHandler,
	competitionHandler *v1.CompetitionHandler,
	voteCodeHandler *v1.VoteCodeHandler,
	maintenanceHandler *v1.MaintenanceHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.GET("/events", eventHandler.HandleListEvents)
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.POST("/events/:eventID/tickets", eventHandler.HandleRecordTicket)

		authed.GET("/events/:eventID/compos", compoHandler.HandleListCompos)
		authed.POST("/events/:eventID/compos", compoHandler.HandleCreateCompo)
		authed.GET("/compos/:compoID/entries", compoHandler.HandleListEntries)
		authed.POST("/compos/:compoID/entries", compoHandler.HandleCreateEntry)
		authed.POST("/entries/:entryID/disqualify", compoHandler.HandleDisqualifyEntry)

		authed.POST("/compos/:compoID/votes", ballotHandler.HandleSubmitBallot)

		authed.GET("/events/:eventID/competitions", competitionHandler.HandleListCompetitions)
		authed.POST("/events/:eventID/competitions", competitionHandler.HandleCreateCompetition)
		authed.GET("/competitions/:competitionID/participations", competitionHandler.HandleListParticipations)
		authed.POST("/competitions/:competitionID/participations", competitionHandler.HandleCreateParticipation)
		authed.PUT("/competitions/:competitionID/participations/:participationID/score", competitionHandler.HandleSetScore)

		authed.POST("/events/:eventID/vote-code", voteCodeHandler.HandleIssueVoteCode)
		authed.POST("/events/:eventID/vote-code-requests", voteCodeHandler.HandleRequestVoteCode)
		authed.POST("/vote-code-requests/:requestID/approve", voteCodeHandler.HandleApproveRequest)
		authed.POST("/vote-code-requests/:requestID/reject", voteCodeHandler.HandleRejectRequest)

		authed.POST("/events/:eventID/maintenance/optimize-scores", maintenanceHandler.HandleOptimizeScores)
		authed.POST("/events/:eventID/maintenance/remove-old-votes", maintenanceHandler.HandleRemoveOldVotes)
		authed.POST("/events/:eventID/maintenance/transfer-rights", maintenanceHandler.HandleTransferRights)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "partyvote API"
	docs.SwaggerInfo.Description = "Vote code issuance, ballots, scoring and results for a demoscene party."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
