package model

// Predio tipos
const (
	PredioUrbano = "URBANO"
	PredioRural  = "RURAL"
)

// CondicionesPredio lists the accepted predio condiciones
var CondicionesPredio = []string{
	"HABITADO",
	"DESHABITADO",
	"CONSTRUCCION",
	"DEMOLICION",
	"PRODUCCION",
	"VACIO",
}

// PredioWire is the property record on the wire
type PredioWire struct {
	IDPredio            FlexID `json:"id_predio"`
	Codigo              string `json:"c_codigo"`
	Tipo                string `json:"c_tipo"`
	Ubicacion           string `json:"c_ubicacion"`
	Area                string `json:"c_area"`
	Condicion           string `json:"c_condicion"`
	NumDocumento        string `json:"c_num_documento"`
	NombreContribuyente string `json:"c_nombre_contribuyente"`
	Periodo             string `json:"c_periodo"`
}

// Predio is the property view model
type Predio struct {
	ID                  FlexID `json:"id"`
	Codigo              string `json:"codigo"`
	Tipo                string `json:"tipo"`
	Ubicacion           string `json:"ubicacion"`
	Area                string `json:"area"`
	Condicion           string `json:"condicion"`
	Documento           string `json:"documento"`
	NombreContribuyente string `json:"nombreContribuyente"`
	Periodo             string `json:"periodo"`
}

// Periodo is a fiscal year predios are registered under
type Periodo struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (w PredioWire) ToView() Predio {
	return Predio{
		ID:                  w.IDPredio,
		Codigo:              w.Codigo,
		Tipo:                w.Tipo,
		Ubicacion:           w.Ubicacion,
		Area:                w.Area,
		Condicion:           w.Condicion,
		Documento:           w.NumDocumento,
		NombreContribuyente: w.NombreContribuyente,
		Periodo:             w.Periodo,
	}
}

func (p Predio) ToWire() PredioWire {
	return PredioWire{
		IDPredio:            p.ID,
		Codigo:              p.Codigo,
		Tipo:                p.Tipo,
		Ubicacion:           p.Ubicacion,
		Area:                p.Area,
		Condicion:           p.Condicion,
		NumDocumento:        p.Documento,
		NombreContribuyente: p.NombreContribuyente,
		Periodo:             p.Periodo,
	}
}
