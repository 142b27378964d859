package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

type ExpedienteService struct {
	c *Client
}

// Buscar searches the técnico's case files by DNI or administrado name
func (s *ExpedienteService) Buscar(ctx context.Context, busqueda string) ([]model.Expediente, error) {
	body, err := s.c.get(ctx, "/urbano/tecnico/expedientes-tecnico", "/urbano/tecnico/expedientes-tecnico",
		url.Values{"busqueda": {strings.TrimSpace(busqueda)}})
	return listOrEmpty[model.Expediente](body, err)
}

// PorNumero looks a case file up by its human case number
func (s *ExpedienteService) PorNumero(ctx context.Context, numero string) (*model.Expediente, error) {
	body, err := s.c.get(ctx, "/urbano/tecnico/expediente-por-numero/{n}", "/urbano/tecnico/expediente-por-numero/"+seg(numero), nil)
	return objectOrNil[model.Expediente](body, err)
}

type TecnicoService struct {
	c *Client
}

func (s *TecnicoService) Listar(ctx context.Context) ([]model.Tecnico, error) {
	body, err := s.c.get(ctx, "/urbano/tecnicos", "/urbano/tecnicos", nil)
	return listOrEmpty[model.Tecnico](body, err)
}

type MesaPartesService struct {
	c *Client
}

// BuscarSolicitudes lists intake rows that still have no case number
func (s *MesaPartesService) BuscarSolicitudes(ctx context.Context, busqueda string) ([]model.Solicitud, error) {
	body, err := s.c.get(ctx, "/urbano/mesa-partes/solicitudes", "/urbano/mesa-partes/solicitudes",
		url.Values{"busqueda": {strings.TrimSpace(busqueda)}})
	return listOrEmpty[model.Solicitud](body, err)
}

// RegistrarExpediente assigns a case number and técnico to a solicitud
func (s *MesaPartesService) RegistrarExpediente(ctx context.Context, reg model.RegistroExpediente) (*SaveResult, error) {
	body, err := s.c.post(ctx, "/urbano/mesa-partes/expedientes", "/urbano/mesa-partes/expedientes", reg)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}
