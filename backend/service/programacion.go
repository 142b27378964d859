package service

import (
	"context"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

const (
	routeProgramaciones      = "/urbano/tecnico/programacion"
	routeProgramacionTecnico = "/urbano/tecnico/programacion/tecnico/{id}"
	routeProgramacion        = "/urbano/tecnico/programacion/{id}"
)

type ProgramacionService struct {
	c *Client
}

func (s *ProgramacionService) Listar(ctx context.Context) ([]model.ProgramacionWire, error) {
	body, err := s.c.get(ctx, routeProgramaciones, "/urbano/tecnico/programacion", nil)
	return listOrEmpty[model.ProgramacionWire](body, err)
}

func (s *ProgramacionService) PorTecnico(ctx context.Context, idTecnico string) ([]model.ProgramacionWire, error) {
	body, err := s.c.get(ctx, routeProgramacionTecnico, "/urbano/tecnico/programacion/tecnico/"+seg(idTecnico), nil)
	return listOrEmpty[model.ProgramacionWire](body, err)
}

// PorExpediente returns the active schedule of an expediente, nil when none.
// The backend has no per-expediente endpoint, so the full list is filtered.
func (s *ProgramacionService) PorExpediente(ctx context.Context, idExpediente string) (*model.ProgramacionWire, error) {
	all, err := s.Listar(ctx)
	if err != nil {
		return nil, err
	}
	var found *model.ProgramacionWire
	for i := range all {
		p := all[i]
		if p.IDExpediente.String() != idExpediente {
			continue
		}
		if p.Activo != nil && !*p.Activo {
			continue
		}
		found = &p
	}
	return found, nil
}

func (s *ProgramacionService) Crear(ctx context.Context, p model.ProgramacionWire) (*SaveResult, error) {
	body, err := s.c.post(ctx, routeProgramaciones, "/urbano/tecnico/programacion", p)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

func (s *ProgramacionService) Actualizar(ctx context.Context, id string, p model.ProgramacionWire) (*SaveResult, error) {
	body, err := s.c.put(ctx, routeProgramacion, "/urbano/tecnico/programacion/"+seg(id), p)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

func (s *ProgramacionService) Eliminar(ctx context.Context, id string) error {
	_, err := s.c.delete(ctx, routeProgramacion, "/urbano/tecnico/programacion/"+seg(id))
	return err
}
