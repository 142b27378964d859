package service

import (
	"context"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

const (
	routeRequisitos    = "/urbano/tecnico/requisitos/{id}"
	routeParametros    = "/urbano/tecnico/parametros-urbanisticos/{id}"
	routeVerifAdmin    = "/urbano/tecnico/verificacion-administrativa/{id}"
	routeCuadroAreas   = "/urbano/tecnico/verificacion-cuadro-area/{id}"
	routeDetallesPisos = "/urbano/tecnico/verificacion-cuadro-area/{id}/detalles-pisos"
)

type RequisitosService struct {
	c *Client
}

// Obtener returns nil when the expediente has no requisitos yet
func (s *RequisitosService) Obtener(ctx context.Context, idExpediente string) (*model.RequisitosWire, error) {
	body, err := s.c.get(ctx, routeRequisitos, "/urbano/tecnico/requisitos/"+seg(idExpediente), nil)
	return objectOrNil[model.RequisitosWire](body, err)
}

// Guardar creates or replaces the requisitos of an expediente
func (s *RequisitosService) Guardar(ctx context.Context, idExpediente string, datos model.RequisitosWire) (*SaveResult, error) {
	body, err := s.c.post(ctx, routeRequisitos, "/urbano/tecnico/requisitos/"+seg(idExpediente), datos)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

type ParametrosService struct {
	c *Client
}

func (s *ParametrosService) Obtener(ctx context.Context, idExpediente string) (model.Record, error) {
	body, err := s.c.get(ctx, routeParametros, "/urbano/tecnico/parametros-urbanisticos/"+seg(idExpediente), nil)
	r, err := objectOrNil[model.Record](body, err)
	if r == nil {
		return nil, err
	}
	return *r, nil
}

func (s *ParametrosService) Guardar(ctx context.Context, idExpediente string, datos model.Record) (*SaveResult, error) {
	body, err := s.c.post(ctx, routeParametros, "/urbano/tecnico/parametros-urbanisticos/"+seg(idExpediente), datos)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

type VerificacionAdminService struct {
	c *Client
}

func (s *VerificacionAdminService) Obtener(ctx context.Context, idExpediente string) (*model.VerificacionAdminWire, error) {
	body, err := s.c.get(ctx, routeVerifAdmin, "/urbano/tecnico/verificacion-administrativa/"+seg(idExpediente), nil)
	return objectOrNil[model.VerificacionAdminWire](body, err)
}

func (s *VerificacionAdminService) Guardar(ctx context.Context, idExpediente string, datos model.VerificacionAdminWire) (*SaveResult, error) {
	body, err := s.c.post(ctx, routeVerifAdmin, "/urbano/tecnico/verificacion-administrativa/"+seg(idExpediente), datos)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

type CuadroAreasService struct {
	c *Client
}

// Obtener returns the stored verification, nil when absent
func (s *CuadroAreasService) Obtener(ctx context.Context, idExpediente string) (model.Record, error) {
	body, err := s.c.get(ctx, routeCuadroAreas, "/urbano/tecnico/verificacion-cuadro-area/"+seg(idExpediente), nil)
	r, err := objectOrNil[model.Record](body, err)
	if r == nil {
		return nil, err
	}
	return *r, nil
}

func (s *CuadroAreasService) DetallesPisos(ctx context.Context, idExpediente string) ([]model.Record, error) {
	body, err := s.c.get(ctx, routeDetallesPisos, "/urbano/tecnico/verificacion-cuadro-area/"+seg(idExpediente)+"/detalles-pisos", nil)
	return listOrEmpty[model.Record](body, err)
}

// ObtenerCompleto loads the verification with its floor rows. Rows embedded
// in the record are used when present; otherwise the detail endpoint is
// queried.
func (s *CuadroAreasService) ObtenerCompleto(ctx context.Context, idExpediente string) (*model.CuadroAreas, error) {
	r, err := s.Obtener(ctx, idExpediente)
	if err != nil || r == nil {
		return nil, err
	}
	var detalles []model.Record
	if rows, ok := r["detallesPisos"].([]any); ok {
		for _, row := range rows {
			if m, ok := row.(map[string]any); ok {
				detalles = append(detalles, model.Record(m))
			}
		}
	} else {
		detalles, err = s.DetallesPisos(ctx, idExpediente)
		if err != nil {
			return nil, err
		}
	}
	c := model.CuadroAreasFromWire(r, detalles)
	return &c, nil
}

func (s *CuadroAreasService) Guardar(ctx context.Context, idExpediente string, datos model.CuadroAreasWire) (*SaveResult, error) {
	body, err := s.c.post(ctx, routeCuadroAreas, "/urbano/tecnico/verificacion-cuadro-area/"+seg(idExpediente), datos)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}
