package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/validation"
	"golang.org/x/sync/errgroup"
)

// Entity names
const (
	EntityRequisitos        = "requisitos"
	EntityObservaciones     = "observaciones"
	EntityVerificacionAdmin = "verificacion-administrativa"
	EntityParametros        = "parametros-urbanisticos"
	EntityCuadroAreas       = "cuadro-areas"
	EntityDocumentos        = "documentos"
	EntityProgramacion      = "programacion"
	EntityContribuyentes    = "contribuyentes"
	EntityPredios           = "predios"
	EntityMesaPartes        = "mesa-partes"
)

// ErrUnknownEntity is returned for an entity name with no workflow
var ErrUnknownEntity = errors.New("unknown workflow entity")

// Principal is the authenticated técnico a workflow acts for
type Principal struct {
	IDTecnico model.FlexID `json:"id_tecnico"`
	Nombre    string       `json:"nombre"`
	DNI       string       `json:"dni"`
	Username  string       `json:"username"`
}

// Deps are what every entity workflow is built from
type Deps struct {
	Backend   *service.Backend
	Principal Principal
	Now       func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

type factory func(Deps, Options) Workflow

var factories = map[string]factory{
	EntityRequisitos:        func(d Deps, o Options) Workflow { return NewController(requisitosEntity(d), o) },
	EntityObservaciones:     func(d Deps, o Options) Workflow { return NewController(observacionesEntity(d), o) },
	EntityVerificacionAdmin: func(d Deps, o Options) Workflow { return NewController(verificacionAdminEntity(d), o) },
	EntityParametros:        func(d Deps, o Options) Workflow { return NewController(parametrosEntity(d), o) },
	EntityCuadroAreas:       func(d Deps, o Options) Workflow { return NewController(cuadroAreasEntity(d), o) },
	EntityDocumentos:        func(d Deps, o Options) Workflow { return NewController(documentosEntity(d), o) },
	EntityProgramacion:      func(d Deps, o Options) Workflow { return NewController(programacionEntity(d), o) },
	EntityContribuyentes:    func(d Deps, o Options) Workflow { return NewController(contribuyentesEntity(d), o) },
	EntityPredios:           func(d Deps, o Options) Workflow { return NewController(prediosEntity(d), o) },
	EntityMesaPartes:        func(d Deps, o Options) Workflow { return NewController(mesaPartesEntity(d), o) },
}

// Entities lists the entity names that have a workflow
func Entities() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the workflow of the named entity
func Build(name string, d Deps, opts Options) (Workflow, error) {
	f, ok := factories[name]
	if !ok {
		return nil, ErrUnknownEntity
	}
	return f(d, opts), nil
}

// expediente-scoped entities search case files and key sub-records by the
// resolved expediente id

func searchExpedientes(d Deps) func(context.Context, string, string) ([]model.Expediente, error) {
	return func(ctx context.Context, query, _ string) ([]model.Expediente, error) {
		return d.Backend.Expedientes.Buscar(ctx, query)
	}
}

func expedienteID(row model.Expediente) (string, error) {
	return model.ResolveExpedienteID(row.Ref())
}

func decodeView[W any, D any](toView func(W) D) func(json.RawMessage) (*D, error) {
	return func(data json.RawMessage) (*D, error) {
		var w W
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		v := toView(w)
		return &v, nil
	}
}

func requisitosEntity(d Deps) Entity[model.Expediente, model.Requisitos] {
	return Entity[model.Expediente, model.Requisitos]{
		Name:      EntityRequisitos,
		RequireID: true,
		RowID:     expedienteID,
		Blank:     func(model.Expediente) model.Requisitos { return model.NuevosRequisitos() },
		Validate:  validation.Requisitos,
		Summarize: func(r model.Requisitos) any { return r.Resumen() },
		FromSaved: decodeView(model.RequisitosWire.ToView),
		Gateway: Gateway[model.Expediente, model.Requisitos]{
			Search: searchExpedientes(d),
			Detail: func(ctx context.Context, id string, _ model.Expediente) (*model.Requisitos, error) {
				w, err := d.Backend.Requisitos.Obtener(ctx, id)
				if w == nil {
					return nil, err
				}
				v := w.ToView()
				return &v, nil
			},
			Save: func(ctx context.Context, id string, r model.Requisitos) (*service.SaveResult, error) {
				return d.Backend.Requisitos.Guardar(ctx, id, r.ToWire(d.Principal.IDTecnico, d.now()))
			},
		},
	}
}

func observacionesEntity(d Deps) Entity[model.Expediente, model.Observaciones] {
	return Entity[model.Expediente, model.Observaciones]{
		Name:      EntityObservaciones,
		RequireID: true,
		RowID:     expedienteID,
		Blank: func(model.Expediente) model.Observaciones {
			return model.ObservacionesFromRows(nil)
		},
		Normalize: func(o *model.Observaciones) {
			if len(o.Textos) == 0 {
				o.Textos = []string{""}
			}
		},
		Gateway: Gateway[model.Expediente, model.Observaciones]{
			Search: searchExpedientes(d),
			Detail: func(ctx context.Context, id string, _ model.Expediente) (*model.Observaciones, error) {
				rows, err := d.Backend.Observaciones.Listar(ctx, id)
				if err != nil {
					return nil, err
				}
				v := model.ObservacionesFromRows(rows)
				return &v, nil
			},
			Save: func(ctx context.Context, id string, o model.Observaciones) (*service.SaveResult, error) {
				return d.Backend.Observaciones.Guardar(ctx, id, d.Principal.IDTecnico, o.Textos)
			},
		},
	}
}

type resumenVerificacion struct {
	Completo bool `json:"completo"`
}

func verificacionAdminEntity(d Deps) Entity[model.Expediente, model.VerificacionAdministrativa] {
	return Entity[model.Expediente, model.VerificacionAdministrativa]{
		Name:      EntityVerificacionAdmin,
		RequireID: true,
		RowID:     expedienteID,
		Blank: func(model.Expediente) model.VerificacionAdministrativa {
			return model.NuevaVerificacionAdmin()
		},
		Validate: validation.VerificacionAdmin,
		Summarize: func(v model.VerificacionAdministrativa) any {
			return resumenVerificacion{Completo: v.Completo()}
		},
		FromSaved: decodeView(model.VerificacionAdminWire.ToView),
		Gateway: Gateway[model.Expediente, model.VerificacionAdministrativa]{
			Search: searchExpedientes(d),
			Detail: func(ctx context.Context, id string, _ model.Expediente) (*model.VerificacionAdministrativa, error) {
				w, err := d.Backend.VerificacionAdmin.Obtener(ctx, id)
				if w == nil {
					return nil, err
				}
				v := w.ToView()
				return &v, nil
			},
			Save: func(ctx context.Context, id string, v model.VerificacionAdministrativa) (*service.SaveResult, error) {
				return d.Backend.VerificacionAdmin.Guardar(ctx, id, v.ToWire(d.Principal.IDTecnico, d.now()))
			},
		},
	}
}

func parametrosEntity(d Deps) Entity[model.Expediente, model.ParametrosUrbanisticos] {
	return Entity[model.Expediente, model.ParametrosUrbanisticos]{
		Name:      EntityParametros,
		RequireID: true,
		RowID:     expedienteID,
		Blank: func(model.Expediente) model.ParametrosUrbanisticos {
			return model.NuevosParametros()
		},
		Validate:  validation.Parametros,
		FromSaved: decodeView(model.ParametrosFromWire),
		Gateway: Gateway[model.Expediente, model.ParametrosUrbanisticos]{
			Search: searchExpedientes(d),
			Detail: func(ctx context.Context, id string, _ model.Expediente) (*model.ParametrosUrbanisticos, error) {
				r, err := d.Backend.Parametros.Obtener(ctx, id)
				if r == nil {
					return nil, err
				}
				v := model.ParametrosFromWire(r)
				return &v, nil
			},
			Save: func(ctx context.Context, id string, p model.ParametrosUrbanisticos) (*service.SaveResult, error) {
				return d.Backend.Parametros.Guardar(ctx, id, p.ToWire(d.Principal.IDTecnico))
			},
		},
	}
}

// renumberPisos keeps floors numbered by position and the totals in step
// with the rows
func renumberPisos(c *model.CuadroAreas) {
	for i := range c.Pisos {
		c.Pisos[i].Numero = i + 1
	}
	c.Recalcular()
}

func cuadroAreasEntity(d Deps) Entity[model.Expediente, model.CuadroAreas] {
	return Entity[model.Expediente, model.CuadroAreas]{
		Name:      EntityCuadroAreas,
		RequireID: true,
		RowID:     expedienteID,
		Blank:     func(model.Expediente) model.CuadroAreas { return model.NuevoCuadroAreas() },
		Normalize: renumberPisos,
		Validate:  validation.CuadroAreas,
		Summarize: func(c model.CuadroAreas) any { return c.Totales },
		Gateway: Gateway[model.Expediente, model.CuadroAreas]{
			Search: searchExpedientes(d),
			Detail: func(ctx context.Context, id string, _ model.Expediente) (*model.CuadroAreas, error) {
				return d.Backend.CuadroAreas.ObtenerCompleto(ctx, id)
			},
			Save: func(ctx context.Context, id string, c model.CuadroAreas) (*service.SaveResult, error) {
				return d.Backend.CuadroAreas.Guardar(ctx, id, c.ToWire(d.Principal.IDTecnico, d.now()))
			},
		},
	}
}

func listarDocumentos(ctx context.Context, d Deps, id string) (model.Documentos, error) {
	docs, err := d.Backend.Documentos.Listar(ctx, id)
	if err != nil {
		return model.Documentos{}, err
	}
	views := make([]model.DocumentoView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, doc.ToView())
	}
	return model.Documentos{Documentos: views}, nil
}

func documentosEntity(d Deps) Entity[model.Expediente, model.Documentos] {
	return Entity[model.Expediente, model.Documentos]{
		Name:      EntityDocumentos,
		RequireID: true,
		RowID:     expedienteID,
		Blank: func(model.Expediente) model.Documentos {
			return model.Documentos{Documentos: []model.DocumentoView{}}
		},
		Gateway: Gateway[model.Expediente, model.Documentos]{
			Search: searchExpedientes(d),
			Detail: func(ctx context.Context, id string, _ model.Expediente) (*model.Documentos, error) {
				v, err := listarDocumentos(ctx, d, id)
				if err != nil {
					return nil, err
				}
				return &v, nil
			},
			// removing rows from the draft deletes those attachments
			Save: func(ctx context.Context, id string, draft model.Documentos) (*service.SaveResult, error) {
				stored, err := listarDocumentos(ctx, d, id)
				if err != nil {
					return nil, err
				}
				keep := make(map[string]bool, len(draft.Documentos))
				for _, doc := range draft.Documentos {
					keep[doc.ID.String()] = true
				}
				g, gctx := errgroup.WithContext(ctx)
				g.SetLimit(4)
				removed := 0
				for _, doc := range stored.Documentos {
					doc := doc
					if keep[doc.ID.String()] {
						continue
					}
					removed++
					g.Go(func() error {
						return d.Backend.Documentos.Eliminar(gctx, doc.ID.String())
					})
				}
				if err := g.Wait(); err != nil {
					return nil, err
				}
				msg := "Sin cambios en los documentos"
				if removed > 0 {
					msg = strconv.Itoa(removed) + " documento(s) eliminado(s)"
				}
				return &service.SaveResult{Success: true, Message: msg}, nil
			},
		},
	}
}

func programacionEntity(d Deps) Entity[model.Expediente, model.Programacion] {
	return Entity[model.Expediente, model.Programacion]{
		Name:      EntityProgramacion,
		RequireID: true,
		RowID:     expedienteID,
		Blank: func(row model.Expediente) model.Programacion {
			id, _ := expedienteID(row)
			tecnico := row.IDTecnico
			if !tecnico.Valid() {
				tecnico = d.Principal.IDTecnico
			}
			return model.Programacion{IDExpediente: model.FlexID(id), IDTecnico: tecnico, Activo: true}
		},
		Validate: func(p model.Programacion) validation.Result {
			return validation.Programacion(p, d.now())
		},
		Gateway: Gateway[model.Expediente, model.Programacion]{
			Search: searchExpedientes(d),
			Detail: func(ctx context.Context, id string, _ model.Expediente) (*model.Programacion, error) {
				w, err := d.Backend.Programacion.PorExpediente(ctx, id)
				if w == nil {
					return nil, err
				}
				v := w.ToView()
				return &v, nil
			},
			Save: func(ctx context.Context, id string, p model.Programacion) (*service.SaveResult, error) {
				if !p.IDExpediente.Valid() {
					p.IDExpediente = model.FlexID(id)
				}
				if p.ID.Valid() {
					return d.Backend.Programacion.Actualizar(ctx, p.ID.String(), p.ToWire())
				}
				return d.Backend.Programacion.Crear(ctx, p.ToWire())
			},
		},
	}
}

func contribuyentesEntity(d Deps) Entity[model.ContribuyenteResumen, model.Contribuyente] {
	return Entity[model.ContribuyenteResumen, model.Contribuyente]{
		Name: EntityContribuyentes,
		RowID: func(row model.ContribuyenteResumen) (string, error) {
			if doc := strings.TrimSpace(row.Documento); doc != "" {
				return doc, nil
			}
			return "", errors.New("el contribuyente no tiene número de documento")
		},
		Blank: func(row model.ContribuyenteResumen) model.Contribuyente {
			return model.Contribuyente{
				ID:                row.ID,
				NumeroDocumento:   row.Documento,
				Nombre:            row.Nombre,
				TipoContribuyente: row.TipoContribuyente,
				Estado:            row.Estado,
				Registrado:        row.Registrado,
			}
		},
		Validate:  validation.Contribuyente,
		FromSaved: decodeView(model.ContribuyenteWire.ToView),
		RecordID:  func(c model.Contribuyente) string { return strings.TrimSpace(c.NumeroDocumento) },
		Gateway: Gateway[model.ContribuyenteResumen, model.Contribuyente]{
			Search: func(ctx context.Context, query, _ string) ([]model.ContribuyenteResumen, error) {
				rows, err := d.Backend.Contribuyentes.Buscar(ctx, query)
				if err != nil {
					return nil, err
				}
				out := make([]model.ContribuyenteResumen, 0, len(rows))
				for _, r := range rows {
					out = append(out, r.Resumen())
				}
				return out, nil
			},
			Detail: func(ctx context.Context, id string, _ model.ContribuyenteResumen) (*model.Contribuyente, error) {
				w, err := d.Backend.Contribuyentes.PorDocumento(ctx, id)
				if w == nil {
					return nil, err
				}
				v := w.ToView()
				return &v, nil
			},
			// the stored documento addresses the update, so a corrected
			// documento is sent in the body
			Save: func(ctx context.Context, id string, c model.Contribuyente) (*service.SaveResult, error) {
				if id == "" {
					return d.Backend.Contribuyentes.Crear(ctx, c.ToWire())
				}
				return d.Backend.Contribuyentes.Actualizar(ctx, id, c.ToWire())
			},
		},
	}
}

func prediosEntity(d Deps) Entity[model.Predio, model.Predio] {
	return Entity[model.Predio, model.Predio]{
		Name: EntityPredios,
		RowID: func(row model.Predio) (string, error) {
			if !row.ID.Valid() {
				return "", errors.New("el predio no tiene un ID válido")
			}
			return row.ID.String(), nil
		},
		Blank: func(row model.Predio) model.Predio {
			if row.Tipo == "" {
				row.Tipo = model.PredioUrbano
			}
			if row.Periodo == "" {
				row.Periodo = strconv.Itoa(d.now().Year())
			}
			return row
		},
		Validate:  validation.Predio,
		FromSaved: decodeView(model.PredioWire.ToView),
		RecordID:  func(p model.Predio) string { return p.ID.String() },
		Gateway: Gateway[model.Predio, model.Predio]{
			Search: func(ctx context.Context, query, periodo string) ([]model.Predio, error) {
				rows, err := d.Backend.Predios.Buscar(ctx, query, periodo)
				if err != nil {
					return nil, err
				}
				out := make([]model.Predio, 0, len(rows))
				for _, r := range rows {
					out = append(out, r.ToView())
				}
				return out, nil
			},
			Detail: func(ctx context.Context, id string, row model.Predio) (*model.Predio, error) {
				w, err := d.Backend.Predios.Obtener(ctx, row.Periodo, id)
				if w == nil {
					return nil, err
				}
				v := w.ToView()
				return &v, nil
			},
			Save: func(ctx context.Context, id string, p model.Predio) (*service.SaveResult, error) {
				if id == "" {
					return d.Backend.Predios.Registrar(ctx, p.Periodo, p.ToWire())
				}
				return d.Backend.Predios.Actualizar(ctx, p.Periodo, id, p.ToWire())
			},
		},
	}
}

func mesaPartesEntity(d Deps) Entity[model.Solicitud, model.RegistroExpediente] {
	return Entity[model.Solicitud, model.RegistroExpediente]{
		Name:      EntityMesaPartes,
		RequireID: true,
		RowID: func(row model.Solicitud) (string, error) {
			if !row.IDSolicitud.Valid() {
				return "", errors.New("la solicitud no tiene un ID válido")
			}
			return row.IDSolicitud.String(), nil
		},
		Blank: func(row model.Solicitud) model.RegistroExpediente {
			return model.RegistroExpediente{IDSolicitud: row.IDSolicitud}
		},
		Validate: validation.RegistroExpediente,
		Gateway: Gateway[model.Solicitud, model.RegistroExpediente]{
			Search: func(ctx context.Context, query, _ string) ([]model.Solicitud, error) {
				return d.Backend.MesaPartes.BuscarSolicitudes(ctx, query)
			},
			Save: func(ctx context.Context, id string, r model.RegistroExpediente) (*service.SaveResult, error) {
				r.IDSolicitud = model.FlexID(id)
				r.Expediente = strings.TrimSpace(r.Expediente)
				return d.Backend.MesaPartes.RegistrarExpediente(ctx, r)
			},
		},
	}
}
