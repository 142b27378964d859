package handler

import (
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/middleware"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/gin-gonic/gin"
)

// API bundles the handlers behind /api
type API struct {
	config     *config.Config
	Registry   *Registry
	Auth       *AuthHandler
	Sessions   *SessionHandler
	Documentos *DocumentoHandler
	Reference  *ReferenceHandler
	Registros  *RegistroHandler
}

// NewAPI wires the handlers over one backend. stager may be nil.
func NewAPI(cfg *config.Config, backend *service.Backend, stager Stager) *API {
	registry := NewRegistry(backend, cfg.Workflow)
	return &API{
		config:     cfg,
		Registry:   registry,
		Auth:       NewAuthHandler(cfg),
		Sessions:   NewSessionHandler(registry, backend),
		Documentos: NewDocumentoHandler(backend, stager),
		Reference:  NewReferenceHandler(backend),
		Registros:  NewRegistroHandler(backend),
	}
}

// Register mounts every route on api
func (a *API) Register(api *gin.RouterGroup) {
	api.POST("/auth/login", a.Auth.Login)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&a.config.Auth))
	{
		protected.GET("/auth/me", a.Auth.Me)

		protected.POST("/sessions", a.Sessions.Create)
		protected.GET("/sessions/:sid", a.Sessions.Get)
		protected.DELETE("/sessions/:sid", a.Sessions.Delete)
		protected.PUT("/sessions/:sid/expediente", a.Sessions.SetExpediente)

		wf := protected.Group("/sessions/:sid/workflows/:entity")
		wf.POST("", a.Sessions.Mount)
		wf.GET("", a.Sessions.Snapshot)
		wf.DELETE("", a.Sessions.Unmount)
		wf.GET("/events", a.Sessions.Events)
		wf.PUT("/query", a.Sessions.Query)
		wf.POST("/search", a.Sessions.Search)
		wf.POST("/select", a.Sessions.Select)
		wf.POST("/new", a.Sessions.New)
		wf.POST("/edit", a.Sessions.Edit)
		wf.PATCH("/draft", a.Sessions.PatchDraft)
		wf.POST("/draft/rows/:field", a.Sessions.AddRow)
		wf.PUT("/draft/rows/:field/:index", a.Sessions.EditRow)
		wf.DELETE("/draft/rows/:field/:index", a.Sessions.DeleteRow)
		wf.POST("/save", a.Sessions.Save)
		wf.POST("/cancel", a.Sessions.Cancel)
		wf.POST("/back", a.Sessions.Back)

		protected.GET("/expedientes/:id/documentos", a.Documentos.List)
		protected.POST("/expedientes/:id/documentos", a.Documentos.Upload)
		protected.POST("/expedientes/:id/documentos/reintentar", a.Documentos.Retry)
		protected.GET("/documentos/:idDoc", a.Documentos.Info)
		protected.GET("/documentos/:idDoc/descargar", a.Documentos.Download)
		protected.DELETE("/documentos/:idDoc", a.Documentos.Delete)

		protected.GET("/tecnicos", a.Reference.Tecnicos)
		protected.GET("/tecnicos/:id/programacion", a.Reference.ProgramacionTecnico)
		protected.GET("/predios/periodos", a.Reference.Periodos)

		protected.DELETE("/contribuyentes/:doc", a.Registros.DeleteContribuyente)
		protected.DELETE("/programacion/:id", a.Registros.DeleteProgramacion)
		protected.PATCH("/observaciones/:idObs", a.Registros.UpdateObservacion)
	}
}

// Close ends every open session
func (a *API) Close() {
	a.Registry.Close()
}
