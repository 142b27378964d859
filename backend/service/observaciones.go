package service

import (
	"context"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"golang.org/x/sync/errgroup"
)

const (
	routeObservaciones    = "/urbano/tecnico/observaciones/{id}"
	routeObservacionNueva = "/urbano/tecnico/observaciones"
	routeObservacion      = "/urbano/tecnico/observaciones/{idObs}"
)

// maxReconcileCalls bounds the concurrent writes of one reconcile
const maxReconcileCalls = 4

type ObservacionesService struct {
	c *Client
}

// Listar returns the observación rows of an expediente, empty when none
func (s *ObservacionesService) Listar(ctx context.Context, idExpediente string) ([]model.Observacion, error) {
	body, err := s.c.get(ctx, routeObservaciones, "/urbano/tecnico/observaciones/"+seg(idExpediente), nil)
	return listOrEmpty[model.Observacion](body, err)
}

func (s *ObservacionesService) Crear(ctx context.Context, obs model.NuevaObservacion) (*SaveResult, error) {
	body, err := s.c.post(ctx, routeObservacionNueva, "/urbano/tecnico/observaciones", obs)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

func (s *ObservacionesService) Actualizar(ctx context.Context, idObservacion string, cambios map[string]any) (*SaveResult, error) {
	body, err := s.c.put(ctx, routeObservacion, "/urbano/tecnico/observaciones/"+seg(idObservacion), cambios)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

func (s *ObservacionesService) Eliminar(ctx context.Context, idObservacion string) error {
	_, err := s.c.delete(ctx, routeObservacion, "/urbano/tecnico/observaciones/"+seg(idObservacion))
	return err
}

// Guardar reconciles the edited texts against the stored rows: rows whose
// text is still present are kept, the others deleted, and new texts created.
// The calls run concurrently; the first failure is returned.
func (s *ObservacionesService) Guardar(ctx context.Context, idExpediente string, idTecnico model.FlexID, textos []string) (*SaveResult, error) {
	existentes, err := s.Listar(ctx, idExpediente)
	if err != nil {
		return nil, err
	}
	plan := model.PlanReconcile(existentes, textos)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxReconcileCalls)
	for _, id := range plan.Delete {
		id := id
		g.Go(func() error {
			return s.Eliminar(gctx, id.String())
		})
	}
	for _, texto := range plan.Create {
		texto := texto
		g.Go(func() error {
			_, err := s.Crear(gctx, model.NuevaObservacion{
				IDExpediente:     model.FlexID(idExpediente),
				IDTecnico:        idTecnico,
				Tipo:             model.TipoObservacionGeneral,
				Descripcion:      texto,
				SeccionAplicable: model.SeccionAplicableGeneral,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	msg := "Observaciones guardadas correctamente"
	if len(plan.Create) == 0 && len(existentes) == len(plan.Delete) && len(plan.Delete) > 0 {
		msg = "Todas las observaciones han sido eliminadas"
	}
	return &SaveResult{Success: true, Message: msg}, nil
}
