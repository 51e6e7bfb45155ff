package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/metrics"
	"github.com/justsurfingit/application-tracker/internal/middleware"
	"github.com/justsurfingit/application-tracker/internal/ratelimit"
)

type RouterConfig struct {
	Log           *slog.Logger
	Metrics       *metrics.Metrics
	CORSOrigins   []string
	AuthLimiter   *ratelimit.Limiter
	Authenticator middleware.Authenticator
}

type Handlers struct {
	Jobs         *JobHandler
	Applications *ApplicationHandler
	Offers       *OfferHandler
	Resumes      *ResumeHandler
	Schedule     *ScheduleHandler
	Account      *AccountHandler
	Health       *HealthHandler
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(cfg.Log),
		middleware.Recovery(cfg.Log),
		middleware.Metrics(cfg.Metrics),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.HealthCheck)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	requireAuth := middleware.Auth(cfg.Authenticator, cfg.Log)

	authGroup := r.Group("/api/auth")
	{
		public := authGroup.Group("")
		if cfg.AuthLimiter != nil {
			public.Use(middleware.RateLimit(cfg.AuthLimiter))
		}
		public.POST("/signup", h.Account.Signup)
		public.POST("/login", h.Account.Login)
		authGroup.GET("/me", requireAuth, h.Account.Me)
	}

	api := r.Group("/api", requireAuth)

	jobs := api.Group("/jobs")
	{
		jobs.POST("/create", h.Jobs.CreateJob)
		jobs.GET("/list", h.Jobs.ListJobs)
		jobs.GET("/get/:id", h.Jobs.GetJob)
		jobs.PATCH("/update/:id", h.Jobs.UpdateJob)
		jobs.DELETE("/delete/:id", h.Jobs.DeleteJob)
	}

	apps := api.Group("/applications")
	{
		apps.POST("/create", h.Applications.Create)
		apps.GET("/list", h.Applications.List)
		apps.GET("/stats", h.Applications.Stats)
		apps.GET("/get/:id", h.Applications.Get)
		apps.PATCH("/update/:id", h.Applications.Update)
		apps.DELETE("/delete/:id", h.Applications.Delete)
	}

	resumes := api.Group("/resumes")
	{
		resumes.POST("/upload", h.Resumes.Upload)
		resumes.GET("/list", h.Resumes.List)
		resumes.PATCH("/update/:id", h.Resumes.UpdateTags)
		resumes.DELETE("/delete/:id", h.Resumes.Delete)
	}

	interviews := api.Group("/interviews")
	{
		interviews.POST("/create", h.Schedule.CreateInterview)
		interviews.GET("/list", h.Schedule.ListInterviews)
		interviews.GET("/:id", h.Schedule.GetInterview)
		interviews.PUT("/update/:id", h.Schedule.UpdateInterview)
		interviews.DELETE("/delete/:id", h.Schedule.DeleteInterview)
	}

	offers := api.Group("/offers")
	{
		offers.POST("/create", h.Offers.Create)
		offers.GET("/list", h.Offers.List)
		offers.GET("/get/:id", h.Offers.Get)
		offers.GET("/application/:application_id", h.Offers.ListByApplication)
		offers.PUT("/update/:id", h.Offers.Update)
		offers.DELETE("/delete/:id", h.Offers.Delete)
	}

	deadlines := api.Group("/deadlines")
	{
		deadlines.POST("/create", h.Schedule.CreateDeadline)
		deadlines.GET("/list", h.Schedule.ListDeadlines)
		deadlines.PUT("/update/:id", h.Schedule.UpdateDeadline)
		deadlines.DELETE("/delete/:id", h.Schedule.DeleteDeadline)
	}

	profile := api.Group("/profile")
	{
		profile.GET("/get", h.Account.GetProfile)
		profile.PUT("/update", h.Account.ReplaceProfile)
		profile.PATCH("/update", h.Account.PatchProfile)
		profile.DELETE("/delete", h.Account.DeleteAccount)
	}

	api.GET("/activity/list", h.Account.ListActivity)

	parse := api.Group("/parse")
	{
		parse.POST("/jd", h.Jobs.ParseJob)
		parse.GET("/health", h.Jobs.ParserHealth)
	}

	return r
}
