package mockapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/validation"
	"github.com/gin-gonic/gin"
)

// Fault is a canned failure answered instead of the real handler. Status
// 200 answers a {success:false} envelope.
type Fault struct {
	Status  int
	Message string
}

// Server serves the store over the backend routes and counts calls per
// route template
type Server struct {
	store *Store

	mu     sync.Mutex
	calls  map[string]int
	faults map[string]Fault
}

func NewServer(store *Store) *Server {
	return &Server{
		store:  store,
		calls:  make(map[string]int),
		faults: make(map[string]Fault),
	}
}

func (s *Server) Store() *Store {
	return s.store
}

func routeKey(method, route string) string {
	return method + " " + route
}

// Calls returns how many requests hit the route template
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, route)]
}

// TotalCalls returns the number of requests served
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

// Fail makes every request to the route answer f until Reset
func (s *Server) Fail(method, route string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[routeKey(method, route)] = f
}

// Reset clears faults and call counters
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
	s.faults = make(map[string]Fault)
}

// instrument counts the call and answers a registered fault
func (s *Server) instrument(c *gin.Context) {
	key := routeKey(c.Request.Method, c.FullPath())
	s.mu.Lock()
	s.calls[key]++
	f, failing := s.faults[key]
	s.mu.Unlock()

	if !failing {
		c.Next()
		return
	}
	if f.Status == http.StatusOK {
		c.AbortWithStatusJSON(http.StatusOK, gin.H{"success": false, "message": f.Message})
		return
	}
	c.AbortWithStatusJSON(f.Status, gin.H{"message": f.Message})
}

// Router builds the gin engine. mw runs before the call counter.
func (s *Server) Router(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.Use(s.instrument)

	u := r.Group("/urbano")
	{
		u.GET("/tecnicos", s.listTecnicos)

		u.GET("/mesa-partes/solicitudes", s.buscarSolicitudes)
		u.POST("/mesa-partes/expedientes", s.registrarExpediente)

		t := u.Group("/tecnico")
		t.GET("/expedientes-tecnico", s.buscarExpedientes)
		t.GET("/expediente-por-numero/:n", s.expedientePorNumero)

		t.GET("/requisitos/:id", s.getRequisitos)
		t.POST("/requisitos/:id", s.saveRequisitos)

		t.GET("/parametros-urbanisticos/:id", s.getParametros)
		t.POST("/parametros-urbanisticos/:id", s.saveParametros)

		t.GET("/verificacion-administrativa/:id", s.getVerificacion)
		t.POST("/verificacion-administrativa/:id", s.saveVerificacion)

		t.GET("/verificacion-cuadro-area/:id", s.getCuadroAreas)
		t.GET("/verificacion-cuadro-area/:id/detalles-pisos", s.getDetallesPisos)
		t.POST("/verificacion-cuadro-area/:id", s.saveCuadroAreas)

		t.GET("/observaciones/:id", s.listObservaciones)
		t.POST("/observaciones", s.crearObservacion)
		t.PUT("/observaciones/:id", s.updateObservacion)
		t.DELETE("/observaciones/:id", s.deleteObservacion)

		t.GET("/programacion", s.listProgramaciones)
		t.GET("/programacion/tecnico/:id", s.programacionesPorTecnico)
		t.POST("/programacion", s.crearProgramacion)
		t.PUT("/programacion/:id", s.updateProgramacion)
		t.DELETE("/programacion/:id", s.deleteProgramacion)

		d := u.Group("/documentos-adjuntos")
		d.GET("/:id", s.listDocumentos)
		d.POST("/:id/subir", s.subirDocumentos)
		d.GET("/documento/:idDoc/descargar", s.descargarDocumento)
		d.GET("/documento/:idDoc/info", s.infoDocumento)
		d.DELETE("/documento/:idDoc", s.deleteDocumento)
	}

	e := r.Group("/example")
	{
		e.GET("/contribuyentes", s.buscarContribuyentes)
		e.GET("/contribuyentes/search_by_id/:doc", s.contribuyentePorDocumento)
		e.POST("/contribuyentes", s.crearContribuyente)
		e.PUT("/contribuyentes/:doc", s.updateContribuyente)
		e.DELETE("/contribuyentes/:doc", s.deleteContribuyente)

		e.GET("/predios", s.buscarPredios)
		e.GET("/predios/periodos", s.listPeriodos)
		e.GET("/predios/:periodo/:id", s.getPredio)
		e.POST("/predios/:periodo", s.registrarPredio)
		e.PUT("/predios/:periodo/:id", s.updatePredio)
	}

	return r
}

// envelope helpers; each route keeps the shape the real backend answers with

func success(c *gin.Context, message string, data any) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

func wrapped(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": message})
}

func unsuccessful(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func (s *Server) listTecnicos(c *gin.Context) {
	wrapped(c, s.store.Tecnicos())
}

func (s *Server) buscarSolicitudes(c *gin.Context) {
	success(c, "", s.store.BuscarSolicitudes(c.Query("busqueda")))
}

func (s *Server) registrarExpediente(c *gin.Context) {
	var reg model.RegistroExpediente
	if err := c.ShouldBindJSON(&reg); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	if res := validation.RegistroExpediente(reg); !res.Valid {
		badRequest(c, strings.Join(res.Errors, "; "))
		return
	}
	exp, err := s.store.RegistrarExpediente(reg)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		return
	}
	success(c, "Expediente registrado correctamente", exp)
}

func (s *Server) buscarExpedientes(c *gin.Context) {
	success(c, "", s.store.BuscarExpedientes(c.Query("busqueda")))
}

func (s *Server) expedientePorNumero(c *gin.Context) {
	exp, ok := s.store.ExpedientePorNumero(c.Param("n"))
	if !ok {
		unsuccessful(c, "Expediente no encontrado")
		return
	}
	success(c, "", exp)
}

func (s *Server) getRequisitos(c *gin.Context) {
	r, ok := s.store.Requisitos(c.Param("id"))
	if !ok {
		notFound(c, "No se encontraron requisitos para el expediente")
		return
	}
	success(c, "", r)
}

func (s *Server) saveRequisitos(c *gin.Context) {
	var w model.RequisitosWire
	if err := c.ShouldBindJSON(&w); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	success(c, "Requisitos guardados correctamente", s.store.SaveRequisitos(c.Param("id"), w))
}

func (s *Server) getParametros(c *gin.Context) {
	r, ok := s.store.Parametros(c.Param("id"))
	if !ok {
		notFound(c, "No se encontraron parámetros urbanísticos")
		return
	}
	wrapped(c, r)
}

func (s *Server) saveParametros(c *gin.Context) {
	var r model.Record
	if err := c.ShouldBindJSON(&r); err != nil || r == nil {
		badRequest(c, "Datos inválidos")
		return
	}
	success(c, "Parámetros urbanísticos guardados correctamente", s.store.SaveParametros(c.Param("id"), r))
}

func (s *Server) getVerificacion(c *gin.Context) {
	v, ok := s.store.Verificacion(c.Param("id"))
	if !ok {
		notFound(c, "No se encontró la verificación administrativa")
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) saveVerificacion(c *gin.Context) {
	var v model.VerificacionAdminWire
	if err := c.ShouldBindJSON(&v); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	success(c, "Verificación administrativa guardada correctamente", s.store.SaveVerificacion(c.Param("id"), v))
}

func (s *Server) getCuadroAreas(c *gin.Context) {
	r, ok := s.store.CuadroAreas(c.Param("id"))
	if !ok {
		notFound(c, "No se encontró la verificación de cuadro de áreas")
		return
	}
	success(c, "", r)
}

func (s *Server) getDetallesPisos(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.DetallesPisos(c.Param("id")))
}

func (s *Server) saveCuadroAreas(c *gin.Context) {
	var w model.CuadroAreasWire
	if err := c.ShouldBindJSON(&w); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	success(c, "Cuadro de áreas guardado correctamente", s.store.SaveCuadroAreas(c.Param("id"), w))
}

// listObservaciones answers a bare array, 404 when the expediente has none
func (s *Server) listObservaciones(c *gin.Context) {
	rows := s.store.Observaciones(c.Param("id"))
	if len(rows) == 0 {
		notFound(c, "No hay observaciones para el expediente")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) crearObservacion(c *gin.Context) {
	var n model.NuevaObservacion
	if err := c.ShouldBindJSON(&n); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	if res := validation.Observacion(n); !res.Valid {
		badRequest(c, strings.Join(res.Errors, "; "))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": s.store.CrearObservacion(n)})
}

func (s *Server) updateObservacion(c *gin.Context) {
	var cambios model.Record
	if err := c.ShouldBindJSON(&cambios); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	o, ok := s.store.UpdateObservacion(c.Param("id"), cambios)
	if !ok {
		notFound(c, "Observación no encontrada")
		return
	}
	success(c, "Observación actualizada", o)
}

func (s *Server) deleteObservacion(c *gin.Context) {
	if !s.store.DeleteObservacion(c.Param("id")) {
		notFound(c, "Observación no encontrada")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Observación eliminada"})
}

func (s *Server) listProgramaciones(c *gin.Context) {
	wrapped(c, s.store.Programaciones())
}

func (s *Server) programacionesPorTecnico(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.ProgramacionesPorTecnico(c.Param("id")))
}

func (s *Server) crearProgramacion(c *gin.Context) {
	var p model.ProgramacionWire
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	if !p.IDExpediente.Valid() || !p.IDTecnico.Valid() || p.FechaVerificacion == "" {
		badRequest(c, "Faltan campos obligatorios")
		return
	}
	success(c, "Programación registrada correctamente", s.store.CrearProgramacion(p))
}

func (s *Server) updateProgramacion(c *gin.Context) {
	var p model.ProgramacionWire
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	updated, ok := s.store.UpdateProgramacion(c.Param("id"), p)
	if !ok {
		notFound(c, "Programación no encontrada")
		return
	}
	success(c, "Programación actualizada correctamente", updated)
}

func (s *Server) deleteProgramacion(c *gin.Context) {
	if !s.store.DeleteProgramacion(c.Param("id")) {
		notFound(c, "Programación no encontrada")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listDocumentos(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Documentos(c.Param("id")))
}

func (s *Server) subirDocumentos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "Formulario inválido")
		return
	}
	files := form.File["documentos"]
	if len(files) == 0 {
		badRequest(c, "No se enviaron archivos")
		return
	}
	idTecnico := model.FlexID(c.PostForm("id_tecnico_subio"))

	var errs []string
	for _, fh := range files {
		mime := fh.Header.Get("Content-Type")
		errs = append(errs, validation.Documento(fh.Filename, mime, fh.Size).Errors...)
	}
	if len(errs) > 0 {
		badRequest(c, strings.Join(errs, "; "))
		return
	}

	docs := make([]model.Documento, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "No se pudo leer "+fh.Filename)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			badRequest(c, "No se pudo leer "+fh.Filename)
			return
		}
		docs = append(docs, s.store.AddDocumento(c.Param("id"), idTecnico, fh.Filename, fh.Header.Get("Content-Type"), content))
	}
	success(c, fmt.Sprintf("%d documento(s) subido(s) correctamente", len(docs)), docs)
}

func (s *Server) descargarDocumento(c *gin.Context) {
	d, ok := s.store.Documento(c.Param("idDoc"))
	if !ok {
		notFound(c, "Documento no encontrado")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Nombre))
	c.Data(http.StatusOK, d.MimeType, d.Content)
}

func (s *Server) infoDocumento(c *gin.Context) {
	d, ok := s.store.Documento(c.Param("idDoc"))
	if !ok {
		notFound(c, "Documento no encontrado")
		return
	}
	wrapped(c, d.Documento)
}

func (s *Server) deleteDocumento(c *gin.Context) {
	if !s.store.DeleteDocumento(c.Param("idDoc")) {
		notFound(c, "Documento no encontrado")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Documento eliminado"})
}

func (s *Server) buscarContribuyentes(c *gin.Context) {
	wrapped(c, s.store.BuscarContribuyentes(c.Query("busqueda")))
}

func (s *Server) contribuyentePorDocumento(c *gin.Context) {
	w, ok := s.store.Contribuyente(c.Param("doc"))
	if !ok {
		unsuccessful(c, "Contribuyente no encontrado")
		return
	}
	success(c, "", w)
}

func (s *Server) crearContribuyente(c *gin.Context) {
	var w model.ContribuyenteWire
	if err := c.ShouldBindJSON(&w); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	if strings.TrimSpace(w.NumDocumento) == "" {
		badRequest(c, "El número de documento es obligatorio")
		return
	}
	created, err := s.store.CrearContribuyente(w)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Ya existe un contribuyente con ese número de documento"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Contribuyente registrado correctamente", "data": created})
}

func (s *Server) updateContribuyente(c *gin.Context) {
	var w model.ContribuyenteWire
	if err := c.ShouldBindJSON(&w); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	updated, ok := s.store.UpdateContribuyente(c.Param("doc"), w)
	if !ok {
		notFound(c, "Contribuyente no encontrado")
		return
	}
	success(c, "Contribuyente actualizado correctamente", updated)
}

func (s *Server) deleteContribuyente(c *gin.Context) {
	if !s.store.DeleteContribuyente(c.Param("doc")) {
		notFound(c, "Contribuyente no encontrado")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contribuyente eliminado correctamente"})
}

func (s *Server) buscarPredios(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.BuscarPredios(c.Query("busqueda"), c.Query("periodo")))
}

func (s *Server) listPeriodos(c *gin.Context) {
	wrapped(c, s.store.Periodos())
}

func (s *Server) getPredio(c *gin.Context) {
	p, ok := s.store.Predio(c.Param("periodo"), c.Param("id"))
	if !ok {
		notFound(c, "Predio no encontrado")
		return
	}
	success(c, "", p)
}

func (s *Server) registrarPredio(c *gin.Context) {
	var w model.PredioWire
	if err := c.ShouldBindJSON(&w); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	success(c, "Predio registrado correctamente", s.store.RegistrarPredio(c.Param("periodo"), w))
}

func (s *Server) updatePredio(c *gin.Context) {
	var w model.PredioWire
	if err := c.ShouldBindJSON(&w); err != nil {
		badRequest(c, "Datos inválidos")
		return
	}
	updated, ok := s.store.UpdatePredio(c.Param("periodo"), c.Param("id"), w)
	if !ok {
		notFound(c, "Predio no encontrado")
		return
	}
	success(c, "Predio actualizado correctamente", updated)
}
