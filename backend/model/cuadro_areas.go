package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Piso is one floor row of the area table. Areas stay text so a blank cell
// survives editing.
type Piso struct {
	ID           FlexID `json:"id,omitempty"`
	Numero       int    `json:"numero"`
	Existente    string `json:"existente"`
	Ampliacion   string `json:"ampliacion"`
	Nuevo        string `json:"nuevo"`
	Demolicion   string `json:"demolicion"`
	Remodelacion string `json:"remodelacion"`
	Observacion  string `json:"observacion"`
}

// AreaFields lists the editable area columns in display order
var AreaFields = []string{"existente", "ampliacion", "nuevo", "demolicion", "remodelacion"}

// Field returns the raw text of an area column
func (p Piso) Field(name string) string {
	switch name {
	case "existente":
		return p.Existente
	case "ampliacion":
		return p.Ampliacion
	case "nuevo":
		return p.Nuevo
	case "demolicion":
		return p.Demolicion
	case "remodelacion":
		return p.Remodelacion
	}
	return ""
}

// TotalesAreas are the column sums over every floor
type TotalesAreas struct {
	Existente    float64 `json:"existente"`
	Ampliacion   float64 `json:"ampliacion"`
	Nuevo        float64 `json:"nuevo"`
	Demolicion   float64 `json:"demolicion"`
	Remodelacion float64 `json:"remodelacion"`
}

// CuadroAreas is the editable floor-area verification
type CuadroAreas struct {
	Pisos                  []Piso       `json:"pisos"`
	Totales                TotalesAreas `json:"totales"`
	ObservacionesGenerales string       `json:"observacionesGenerales"`
}

// NuevoCuadroAreas returns a table with one empty floor
func NuevoCuadroAreas() CuadroAreas {
	return CuadroAreas{Pisos: []Piso{{Numero: 1}}}
}

// CalcularTotales sums the area columns, blanks counting as 0
func CalcularTotales(pisos []Piso) TotalesAreas {
	var t TotalesAreas
	for _, p := range pisos {
		t.Existente += ParseNumber(p.Existente)
		t.Ampliacion += ParseNumber(p.Ampliacion)
		t.Nuevo += ParseNumber(p.Nuevo)
		t.Demolicion += ParseNumber(p.Demolicion)
		t.Remodelacion += ParseNumber(p.Remodelacion)
	}
	// sums of huge finite cells can still overflow
	for _, v := range []*float64{&t.Existente, &t.Ampliacion, &t.Nuevo, &t.Demolicion, &t.Remodelacion} {
		if math.IsInf(*v, 0) {
			*v = 0
		}
	}
	return t
}

// Recalcular refreshes the totals and renumbers floors without a number
func (c *CuadroAreas) Recalcular() {
	for i := range c.Pisos {
		if c.Pisos[i].Numero <= 0 {
			c.Pisos[i].Numero = i + 1
		}
	}
	c.Totales = CalcularTotales(c.Pisos)
}

// PisoWire is a persisted floor detail
type PisoWire struct {
	NumeroPiso        string  `json:"c_numero_piso"`
	AreaExistente     float64 `json:"n_area_existente"`
	AreaAmpliacion    float64 `json:"n_area_ampliacion"`
	AreaNueva         float64 `json:"n_area_nueva"`
	AreaDemolicion    float64 `json:"n_area_demolicion"`
	AreaRemodelacion  float64 `json:"n_area_remodelacion"`
	ObservacionesPiso string  `json:"c_observaciones_piso"`
}

// CuadroAreasWire is the save payload
type CuadroAreasWire struct {
	AreaExistenteTotal     float64    `json:"n_area_existente_total"`
	AreaAmpliacionTotal    float64    `json:"n_area_ampliacion_total"`
	AreaNuevaTotal         float64    `json:"n_area_nueva_total"`
	AreaDemolicionTotal    float64    `json:"n_area_demolicion_total"`
	AreaRemodelacionTotal  float64    `json:"n_area_remodelacion_total"`
	ObservacionesGenerales string     `json:"c_observaciones_generales"`
	FechaVerificacion      string     `json:"d_fecha_verificacion"`
	IDTecnicoVerificador   FlexID     `json:"id_tecnico_verificador"`
	DetallesPisos          []PisoWire `json:"detallesPisos"`
}

// ToWire builds the save payload, totals computed from the rows
func (c CuadroAreas) ToWire(idTecnico FlexID, fecha time.Time) CuadroAreasWire {
	t := CalcularTotales(c.Pisos)
	detalles := make([]PisoWire, 0, len(c.Pisos))
	for i, p := range c.Pisos {
		numero := p.Numero
		if numero <= 0 {
			numero = i + 1
		}
		detalles = append(detalles, PisoWire{
			NumeroPiso:        fmt.Sprintf("Piso %d", numero),
			AreaExistente:     ParseNumber(p.Existente),
			AreaAmpliacion:    ParseNumber(p.Ampliacion),
			AreaNueva:         ParseNumber(p.Nuevo),
			AreaDemolicion:    ParseNumber(p.Demolicion),
			AreaRemodelacion:  ParseNumber(p.Remodelacion),
			ObservacionesPiso: p.Observacion,
		})
	}
	return CuadroAreasWire{
		AreaExistenteTotal:     t.Existente,
		AreaAmpliacionTotal:    t.Ampliacion,
		AreaNuevaTotal:         t.Nuevo,
		AreaDemolicionTotal:    t.Demolicion,
		AreaRemodelacionTotal:  t.Remodelacion,
		ObservacionesGenerales: c.ObservacionesGenerales,
		FechaVerificacion:      fecha.Format(DateLayout),
		IDTecnicoVerificador:   idTecnico,
		DetallesPisos:          detalles,
	}
}

// pisoFromRecord accepts both the *_m2 and n_area_* column names
func pisoFromRecord(r Record, index int) Piso {
	id := FlexID(r.First("id_detalle", "id_detalle_cuadro_area"))
	if !id.Valid() {
		id = FlexID(strconv.Itoa(index + 1))
	}
	numero, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(r.String("c_numero_piso"), "Piso ")))
	if err != nil || numero <= 0 {
		numero = index + 1
	}
	area := func(keys ...string) string {
		for _, k := range keys {
			if v := r.Number(k); v != 0 {
				return FormatNumber(v)
			}
		}
		return "0"
	}
	return Piso{
		ID:           id,
		Numero:       numero,
		Existente:    area("n_existente_m2", "n_area_existente"),
		Ampliacion:   area("n_ampliacion_m2", "n_area_ampliacion"),
		Nuevo:        area("n_nuevo_m2", "n_area_nueva"),
		Demolicion:   area("n_demolicion_m2", "n_area_demolicion"),
		Remodelacion: area("n_remodelacion_m2", "n_area_remodelacion"),
		Observacion:  r.First("c_observaciones", "c_observaciones_piso"),
	}
}

// CuadroAreasFromWire maps a stored record and its floor details. The
// totals are recomputed from the rows rather than trusted.
func CuadroAreasFromWire(r Record, detalles []Record) CuadroAreas {
	c := CuadroAreas{ObservacionesGenerales: r.String("c_observaciones_generales")}
	for i, d := range detalles {
		c.Pisos = append(c.Pisos, pisoFromRecord(d, i))
	}
	if len(c.Pisos) == 0 {
		c.Pisos = []Piso{{Numero: 1}}
	}
	c.Recalcular()
	return c
}
