// Package mockapi is an in-memory stand-in for the municipal backend of
// record. It serves the same routes the gateway consumes, mixing the
// envelope shapes the real server uses.
package mockapi

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

// StoredDocumento is an attachment with its content
type StoredDocumento struct {
	model.Documento
	Content   []byte
	CreatedAt time.Time
}

// Store holds every record the mock backend serves
type Store struct {
	mu sync.RWMutex

	expedientes    []model.Expediente
	tecnicos       []model.Tecnico
	solicitudes    []model.Solicitud
	requisitos     map[string]model.RequisitosWire
	parametros     map[string]model.Record
	verificaciones map[string]model.VerificacionAdminWire
	cuadros        map[string]model.Record
	pisos          map[string][]model.Record
	observaciones  []model.Observacion
	documentos     map[string]*StoredDocumento
	programaciones []model.ProgramacionWire
	contribuyentes []model.ContribuyenteWire
	predios        map[string][]model.PredioWire

	nextID        int
	maxDocumentos int // 0 = unlimited
}

// NewStore returns an empty store. maxDocumentos bounds the kept
// attachments; the oldest are dropped first.
func NewStore(maxDocumentos int) *Store {
	if maxDocumentos < 0 {
		maxDocumentos = 0
	}
	return &Store{
		requisitos:     make(map[string]model.RequisitosWire),
		parametros:     make(map[string]model.Record),
		verificaciones: make(map[string]model.VerificacionAdminWire),
		cuadros:        make(map[string]model.Record),
		pisos:          make(map[string][]model.Record),
		documentos:     make(map[string]*StoredDocumento),
		predios:        make(map[string][]model.PredioWire),
		nextID:         100,
		maxDocumentos:  maxDocumentos,
	}
}

// newID must be called with the lock held
func (s *Store) newID() model.FlexID {
	s.nextID++
	return model.FlexID(strconv.Itoa(s.nextID))
}

// normalize folds case and Spanish accents for loose matching
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	)
	return r.Replace(s)
}

func matches(term string, fields ...string) bool {
	term = normalize(term)
	for _, f := range fields {
		if strings.Contains(normalize(f), term) {
			return true
		}
	}
	return false
}

// BuscarExpedientes matches case number, DNI or administrado
func (s *Store) BuscarExpedientes(term string) []model.Expediente {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Expediente{}
	if strings.TrimSpace(term) == "" {
		return out
	}
	for _, e := range s.expedientes {
		if matches(term, e.Expediente.String(), e.DNI, e.Administrado) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) ExpedientePorNumero(numero string) (model.Expediente, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expedientes {
		if e.Expediente.String() == strings.TrimSpace(numero) {
			return e, true
		}
	}
	return model.Expediente{}, false
}

func (s *Store) Tecnicos() []model.Tecnico {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Tecnico(nil), s.tecnicos...)
}

func (s *Store) BuscarSolicitudes(term string) []model.Solicitud {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Solicitud{}
	for _, sol := range s.solicitudes {
		if strings.TrimSpace(term) == "" || matches(term, sol.DNI, sol.NombreCompleto) {
			out = append(out, sol)
		}
	}
	return out
}

// RegistrarExpediente turns a solicitud into a numbered expediente
func (s *Store) RegistrarExpediente(reg model.RegistroExpediente) (model.Expediente, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sol := range s.solicitudes {
		if sol.IDSolicitud == reg.IDSolicitud {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Expediente{}, fmt.Errorf("solicitud %s no encontrada", reg.IDSolicitud)
	}
	for _, e := range s.expedientes {
		if e.Expediente.String() == reg.Expediente {
			return model.Expediente{}, fmt.Errorf("el expediente %s ya existe", reg.Expediente)
		}
	}
	sol := s.solicitudes[idx]
	exp := model.Expediente{
		IDExpediente:  s.newID(),
		IDSolicitud:   sol.IDSolicitud,
		Expediente:    model.FlexID(reg.Expediente),
		DNI:           sol.DNI,
		Administrado:  sol.NombreCompleto,
		FechaRegistro: sol.FechaRegistro,
		IDTecnico:     reg.IDTecnico,
	}
	s.expedientes = append(s.expedientes, exp)
	s.solicitudes = append(s.solicitudes[:idx], s.solicitudes[idx+1:]...)
	return exp, nil
}

func (s *Store) Requisitos(id string) (model.RequisitosWire, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requisitos[id]
	return r, ok
}

func (s *Store) SaveRequisitos(id string, r model.RequisitosWire) model.RequisitosWire {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.requisitos[id]; ok {
		r.IDRequisito = old.IDRequisito
	} else {
		r.IDRequisito = s.newID()
	}
	r.IDExpediente = model.FlexID(id)
	s.requisitos[id] = r
	return r
}

func (s *Store) Parametros(id string) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.parametros[id]
	return r, ok
}

func (s *Store) SaveParametros(id string, r model.Record) model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	r["id_expediente"] = id
	s.parametros[id] = r
	return r
}

func (s *Store) Verificacion(id string) (model.VerificacionAdminWire, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verificaciones[id]
	return v, ok
}

func (s *Store) SaveVerificacion(id string, v model.VerificacionAdminWire) model.VerificacionAdminWire {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verificaciones[id] = v
	return v
}

// CuadroAreas returns the stored header record without its floor rows
func (s *Store) CuadroAreas(id string) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.cuadros[id]
	return r, ok
}

func (s *Store) DetallesPisos(id string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Record{}, s.pisos[id]...)
}

// SaveCuadroAreas splits the payload into header and floor rows, the way
// the backend persists them
func (s *Store) SaveCuadroAreas(id string, w model.CuadroAreasWire) model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := model.Record{
		"id_expediente":             id,
		"n_total_existente":         w.AreaExistenteTotal,
		"n_total_ampliacion":        w.AreaAmpliacionTotal,
		"n_total_nuevo":             w.AreaNuevaTotal,
		"n_total_demolicion":        w.AreaDemolicionTotal,
		"n_total_remodelacion":      w.AreaRemodelacionTotal,
		"c_observaciones_generales": w.ObservacionesGenerales,
		"d_fecha_verificacion":      w.FechaVerificacion,
		"id_tecnico_verificador":    w.IDTecnicoVerificador.String(),
	}
	rows := make([]model.Record, 0, len(w.DetallesPisos))
	for _, p := range w.DetallesPisos {
		rows = append(rows, model.Record{
			"id_detalle":          s.newID().String(),
			"c_numero_piso":       p.NumeroPiso,
			"n_existente_m2":      p.AreaExistente,
			"n_ampliacion_m2":     p.AreaAmpliacion,
			"n_nuevo_m2":          p.AreaNueva,
			"n_demolicion_m2":     p.AreaDemolicion,
			"n_remodelacion_m2":   p.AreaRemodelacion,
			"c_observaciones":     p.ObservacionesPiso,
			"id_cuadro_area_expe": id,
		})
	}
	s.cuadros[id] = header
	s.pisos[id] = rows
	return header
}

func (s *Store) Observaciones(id string) []model.Observacion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Observacion{}
	for _, o := range s.observaciones {
		if o.IDExpediente.String() == id {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) CrearObservacion(n model.NuevaObservacion) model.Observacion {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := model.Observacion{
		IDObservacion:      s.newID(),
		IDExpediente:       n.IDExpediente,
		Descripcion:        n.Descripcion,
		Tipo:               n.Tipo,
		SeccionAplicable:   n.SeccionAplicable,
		Estado:             "PENDIENTE",
		FechaCreacion:      time.Now().Format(model.DateLayout),
		TecnicoObservacion: s.tecnicoRef(n.IDTecnico),
	}
	s.observaciones = append(s.observaciones, o)
	return o
}

// UpdateObservacion applies the known fields of a partial update
func (s *Store) UpdateObservacion(id string, cambios model.Record) (model.Observacion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.observaciones {
		o := &s.observaciones[i]
		if o.IDObservacion.String() != id {
			continue
		}
		if v := cambios.String("c_descripcion_observacion"); v != "" {
			o.Descripcion = v
		}
		if v := cambios.String("c_estado_observacion"); v != "" {
			o.Estado = v
		}
		if v := cambios.String("d_fecha_resolucion"); v != "" {
			o.FechaResolucion = v
		}
		return *o, true
	}
	return model.Observacion{}, false
}

func (s *Store) DeleteObservacion(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observaciones {
		if o.IDObservacion.String() == id {
			s.observaciones = append(s.observaciones[:i], s.observaciones[i+1:]...)
			return true
		}
	}
	return false
}

// tecnicoRef must be called with the lock held
func (s *Store) tecnicoRef(id model.FlexID) *model.TecnicoRef {
	for _, t := range s.tecnicos {
		if t.IDTecnico == id {
			return &model.TecnicoRef{IDTecnico: t.IDTecnico, Nombre: t.Nombre}
		}
	}
	return nil
}

// Documentos lists the active attachments of an expediente, oldest first
func (s *Store) Documentos(idExpediente string) []model.Documento {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*StoredDocumento
	for _, d := range s.documentos {
		if d.IDExpediente.String() == idExpediente && d.Activo {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	out := make([]model.Documento, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Documento)
	}
	return out
}

func (s *Store) Documento(id string) (*StoredDocumento, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documentos[id]
	if !ok || !d.Activo {
		return nil, false
	}
	return d, true
}

// AddDocumento stores an uploaded file
func (s *Store) AddDocumento(idExpediente string, idTecnico model.FlexID, nombre, mime string, content []byte) model.Documento {
	s.mu.Lock()
	defer s.mu.Unlock()

	tipo := "OTRO"
	if i := strings.LastIndex(nombre, "."); i >= 0 {
		tipo = strings.ToUpper(nombre[i+1:])
	}
	now := time.Now()
	d := &StoredDocumento{
		Documento: model.Documento{
			IDDocumentoAdjunto: s.newID(),
			IDExpediente:       model.FlexID(idExpediente),
			Nombre:             nombre,
			Tipo:               tipo,
			TamanioBytes:       int64(len(content)),
			MimeType:           mime,
			FechaSubida:        now.Format(time.RFC3339),
			IDTecnicoSubio:     idTecnico,
			Activo:             true,
			TecnicoDocumentos:  s.tecnicoRef(idTecnico),
		},
		Content:   content,
		CreatedAt: now,
	}
	s.documentos[d.IDDocumentoAdjunto.String()] = d
	s.cleanupIfNeeded()
	return d.Documento
}

// DeleteDocumento deactivates an attachment
func (s *Store) DeleteDocumento(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documentos[id]
	if !ok || !d.Activo {
		return false
	}
	d.Activo = false
	return true
}

// cleanupIfNeeded drops the oldest attachments beyond maxDocumentos.
// Must be called with lock held
func (s *Store) cleanupIfNeeded() {
	if s.maxDocumentos <= 0 || len(s.documentos) <= s.maxDocumentos {
		return
	}

	docs := make([]*StoredDocumento, 0, len(s.documentos))
	for _, d := range s.documentos {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})

	removeCount := len(docs) - s.maxDocumentos
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old documento",
			"id_documento", docs[i].IDDocumentoAdjunto,
			"created_at", docs[i].CreatedAt,
		)
		delete(s.documentos, docs[i].IDDocumentoAdjunto.String())
	}
}

func (s *Store) Programaciones() []model.ProgramacionWire {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ProgramacionWire{}, s.programaciones...)
}

func (s *Store) ProgramacionesPorTecnico(idTecnico string) []model.ProgramacionWire {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.ProgramacionWire{}
	for _, p := range s.programaciones {
		if p.IDTecnico.String() == idTecnico {
			out = append(out, p)
		}
	}
	return out
}

// CrearProgramacion deactivates any earlier schedule of the expediente
func (s *Store) CrearProgramacion(p model.ProgramacionWire) model.ProgramacionWire {
	s.mu.Lock()
	defer s.mu.Unlock()

	inactivo := false
	for i := range s.programaciones {
		if s.programaciones[i].IDExpediente == p.IDExpediente {
			s.programaciones[i].Activo = &inactivo
		}
	}
	activo := true
	p.IDProgramacion = s.newID()
	p.FechaCreacion = time.Now().Format(model.DateLayout)
	p.Activo = &activo
	s.programaciones = append(s.programaciones, p)
	return p
}

func (s *Store) UpdateProgramacion(id string, p model.ProgramacionWire) (model.ProgramacionWire, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.programaciones {
		old := s.programaciones[i]
		if old.IDProgramacion.String() != id {
			continue
		}
		p.IDProgramacion = old.IDProgramacion
		p.FechaCreacion = old.FechaCreacion
		p.Activo = old.Activo
		s.programaciones[i] = p
		return p, true
	}
	return model.ProgramacionWire{}, false
}

func (s *Store) DeleteProgramacion(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.programaciones {
		if p.IDProgramacion.String() == id {
			s.programaciones = append(s.programaciones[:i], s.programaciones[i+1:]...)
			return true
		}
	}
	return false
}

// BuscarContribuyentes matches nombre (accent and case insensitive) or any
// part of the documento
func (s *Store) BuscarContribuyentes(term string) []model.ContribuyenteWire {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.ContribuyenteWire{}
	if strings.TrimSpace(term) == "" {
		return out
	}
	for _, c := range s.contribuyentes {
		if matches(term, c.Nombre, c.NumDocumento) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) Contribuyente(documento string) (model.ContribuyenteWire, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contribuyentes {
		if c.NumDocumento == strings.TrimSpace(documento) {
			return c, true
		}
	}
	return model.ContribuyenteWire{}, false
}

// ErrDuplicado is returned when a documento is already registered
var ErrDuplicado = errors.New("ya existe un contribuyente con ese número de documento")

func (s *Store) CrearContribuyente(c model.ContribuyenteWire) (model.ContribuyenteWire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.contribuyentes {
		if existing.NumDocumento == c.NumDocumento {
			return model.ContribuyenteWire{}, ErrDuplicado
		}
	}
	c.IDContribuyente = s.newID()
	if c.Estado == "" {
		c.Estado = "ACTIVO"
	}
	c.Registrado = true
	s.contribuyentes = append(s.contribuyentes, c)
	return c, nil
}

// UpdateContribuyente replaces the record stored under documento. The body
// may carry a corrected documento.
func (s *Store) UpdateContribuyente(documento string, c model.ContribuyenteWire) (model.ContribuyenteWire, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, old := range s.contribuyentes {
		if old.NumDocumento != documento {
			continue
		}
		c.IDContribuyente = old.IDContribuyente
		if c.NumDocumento == "" {
			c.NumDocumento = old.NumDocumento
		}
		if c.Estado == "" {
			c.Estado = old.Estado
		}
		c.Registrado = true
		s.contribuyentes[i] = c
		return c, true
	}
	return model.ContribuyenteWire{}, false
}

func (s *Store) DeleteContribuyente(documento string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contribuyentes {
		if c.NumDocumento == documento {
			s.contribuyentes = append(s.contribuyentes[:i], s.contribuyentes[i+1:]...)
			return true
		}
	}
	return false
}

// BuscarPredios matches código, ubicación or the titular's documento within
// a período, or across all of them when periodo is blank
func (s *Store) BuscarPredios(term, periodo string) []model.PredioWire {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.PredioWire{}
	for _, p := range s.prediosIn(periodo) {
		if strings.TrimSpace(term) == "" || matches(term, p.Codigo, p.Ubicacion, p.NumDocumento, p.NombreContribuyente) {
			out = append(out, p)
		}
	}
	return out
}

// prediosIn must be called with the lock held
func (s *Store) prediosIn(periodo string) []model.PredioWire {
	if periodo != "" {
		return s.predios[periodo]
	}
	var all []model.PredioWire
	for _, p := range s.periodosLocked() {
		all = append(all, s.predios[p]...)
	}
	return all
}

func (s *Store) Predio(periodo, id string) (model.PredioWire, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.predios[periodo] {
		if p.IDPredio.String() == id {
			return p, true
		}
	}
	return model.PredioWire{}, false
}

// RegistrarPredio assigns the next id and a P###-periodo código
func (s *Store) RegistrarPredio(periodo string, p model.PredioWire) model.PredioWire {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, list := range s.predios {
		for _, existing := range list {
			if n, err := strconv.Atoi(existing.IDPredio.String()); err == nil && n > maxID {
				maxID = n
			}
		}
	}
	p.IDPredio = model.FlexID(strconv.Itoa(maxID + 1))
	p.Codigo = fmt.Sprintf("P%03d-%s", len(s.predios[periodo])+1, periodo)
	p.Periodo = periodo
	p.NombreContribuyente = s.nombreTitular(p.NumDocumento, p.NombreContribuyente)
	s.predios[periodo] = append(s.predios[periodo], p)
	return p
}

func (s *Store) UpdatePredio(periodo, id string, p model.PredioWire) (model.PredioWire, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.predios[periodo]
	for i, old := range list {
		if old.IDPredio.String() != id {
			continue
		}
		p.IDPredio = old.IDPredio
		p.Codigo = old.Codigo
		p.Periodo = periodo
		p.NombreContribuyente = s.nombreTitular(p.NumDocumento, old.NombreContribuyente)
		list[i] = p
		return p, true
	}
	return model.PredioWire{}, false
}

// nombreTitular must be called with the lock held
func (s *Store) nombreTitular(documento, fallback string) string {
	for _, c := range s.contribuyentes {
		if c.NumDocumento == documento {
			return c.Nombre
		}
	}
	return fallback
}

// Periodos lists the years with predios, newest first
func (s *Store) Periodos() []model.Periodo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	years := s.periodosLocked()
	out := make([]model.Periodo, 0, len(years))
	for i := len(years) - 1; i >= 0; i-- {
		out = append(out, model.Periodo{Value: years[i], Label: years[i]})
	}
	return out
}

func (s *Store) periodosLocked() []string {
	years := make([]string, 0, len(s.predios))
	for y := range s.predios {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}
