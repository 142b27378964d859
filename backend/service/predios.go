package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

const (
	routePredios        = "/example/predios"
	routePrediosPeriodo = "/example/predios/{periodo}"
	routePredio         = "/example/predios/{periodo}/{id}"
	routePeriodos       = "/example/predios/periodos"
)

type PredioService struct {
	c *Client
}

// Buscar searches predios within a período, or across all of them when
// periodo is blank
func (s *PredioService) Buscar(ctx context.Context, busqueda, periodo string) ([]model.PredioWire, error) {
	q := url.Values{"busqueda": {strings.TrimSpace(busqueda)}}
	if periodo = strings.TrimSpace(periodo); periodo != "" {
		q.Set("periodo", periodo)
	}
	body, err := s.c.get(ctx, routePredios, "/example/predios", q)
	return listOrEmpty[model.PredioWire](body, err)
}

func (s *PredioService) Obtener(ctx context.Context, periodo, id string) (*model.PredioWire, error) {
	body, err := s.c.get(ctx, routePredio, "/example/predios/"+seg(periodo)+"/"+seg(id), nil)
	return objectOrNil[model.PredioWire](body, err)
}

// Registrar creates a predio; the backend assigns id and código
func (s *PredioService) Registrar(ctx context.Context, periodo string, p model.PredioWire) (*SaveResult, error) {
	body, err := s.c.post(ctx, routePrediosPeriodo, "/example/predios/"+seg(periodo), p)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

func (s *PredioService) Periodos(ctx context.Context) ([]model.Periodo, error) {
	body, err := s.c.get(ctx, routePeriodos, "/example/predios/periodos", nil)
	return listOrEmpty[model.Periodo](body, err)
}

func (s *PredioService) Actualizar(ctx context.Context, periodo, id string, p model.PredioWire) (*SaveResult, error) {
	body, err := s.c.put(ctx, routePredio, "/example/predios/"+seg(periodo)+"/"+seg(id), p)
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}
