package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

const (
	routeContribuyentes      = "/example/contribuyentes"
	routeContribuyenteSearch = "/example/contribuyentes/search_by_id/{doc}"
	routeContribuyente       = "/example/contribuyentes/{doc}"
)

type ContribuyenteService struct {
	c *Client
}

// Buscar matches contribuyentes by documento or nombre
func (s *ContribuyenteService) Buscar(ctx context.Context, busqueda string) ([]model.ContribuyenteWire, error) {
	body, err := s.c.get(ctx, routeContribuyentes, "/example/contribuyentes",
		url.Values{"busqueda": {strings.TrimSpace(busqueda)}})
	return listOrEmpty[model.ContribuyenteWire](body, err)
}

// PorDocumento returns nil when no contribuyente carries the documento
func (s *ContribuyenteService) PorDocumento(ctx context.Context, documento string) (*model.ContribuyenteWire, error) {
	body, err := s.c.get(ctx, routeContribuyenteSearch, "/example/contribuyentes/search_by_id/"+seg(documento), nil)
	return objectOrNil[model.ContribuyenteWire](body, err)
}

func (s *ContribuyenteService) Crear(ctx context.Context, c model.ContribuyenteWire) (*SaveResult, error) {
	body, err := s.c.post(ctx, routeContribuyentes, "/example/contribuyentes", c)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

func (s *ContribuyenteService) Actualizar(ctx context.Context, documento string, c model.ContribuyenteWire) (*SaveResult, error) {
	body, err := s.c.put(ctx, routeContribuyente, "/example/contribuyentes/"+seg(documento), c)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

func (s *ContribuyenteService) Eliminar(ctx context.Context, documento string) error {
	_, err := s.c.delete(ctx, routeContribuyente, "/example/contribuyentes/"+seg(documento))
	return err
}
