package model

// Triple is a normado / proyecto / anotaciones comparison row
type Triple struct {
	Normado     string `json:"normado"`
	Proyecto    string `json:"proyecto"`
	Anotaciones string `json:"anotaciones"`
}

// ParametrosUrbanisticos is the editable urban-parameters sheet
type ParametrosUrbanisticos struct {
	EsUrbanistico       bool   `json:"esUrbanistico"`
	AreaTerritorial     string `json:"areaTerritorial"`
	AreaActUrb          string `json:"areaActUrb"`
	Zonificacion        string `json:"zonificacion"`
	AreaLoteNormativo   string `json:"areaLoteNormativo"`
	UsosPermisibles     Triple `json:"usosPermisibles"`
	CoeficienteEdif     Triple `json:"coeficienteEdif"`
	PorcentajeAreaLibre Triple `json:"porcentajeAreaLibre"`
	AlturaEdificacion   Triple `json:"alturaEdificacion"`
	RetiroMinimoFrontal Triple `json:"retiroMinimoFrontal"`
	Alineamiento        Triple `json:"alineamiento"`
	Estacionamiento     Triple `json:"estacionamiento"`
}

type tripleField struct {
	prefix  string
	numeric bool
	get     func(*ParametrosUrbanisticos) *Triple
}

// wire prefixes; numeric triples carry both n_ and c_ columns
var parametroTriples = []tripleField{
	{"usos_permisibles", false, func(p *ParametrosUrbanisticos) *Triple { return &p.UsosPermisibles }},
	{"coeficiente_edif", true, func(p *ParametrosUrbanisticos) *Triple { return &p.CoeficienteEdif }},
	{"porcentaje_area_libre", true, func(p *ParametrosUrbanisticos) *Triple { return &p.PorcentajeAreaLibre }},
	{"altura_edificacion", true, func(p *ParametrosUrbanisticos) *Triple { return &p.AlturaEdificacion }},
	{"retiro_minimo_frontal", true, func(p *ParametrosUrbanisticos) *Triple { return &p.RetiroMinimoFrontal }},
	{"alineamiento", false, func(p *ParametrosUrbanisticos) *Triple { return &p.Alineamiento }},
	{"estacionamiento", true, func(p *ParametrosUrbanisticos) *Triple { return &p.Estacionamiento }},
}

// NuevosParametros returns a blank sheet
func NuevosParametros() ParametrosUrbanisticos {
	return ParametrosUrbanisticos{EsUrbanistico: true}
}

// numberOrText prefers the c_ text column and falls back to the n_ column
func numberOrText(r Record, name string) string {
	if s := r.String("c_" + name); s != "" {
		return s
	}
	return FormatNumber(r.Number("n_" + name))
}

// ParametrosFromWire maps a stored record to the editable sheet
func ParametrosFromWire(r Record) ParametrosUrbanisticos {
	p := ParametrosUrbanisticos{
		EsUrbanistico:     r.Bool("b_es_urbanistico", true),
		AreaTerritorial:   numberOrText(r, "area_territorial"),
		AreaActUrb:        numberOrText(r, "area_act_urb"),
		Zonificacion:      r.String("c_zonificacion"),
		AreaLoteNormativo: FormatNumber(r.Number("n_area_lote_normativo")),
	}
	for _, f := range parametroTriples {
		t := f.get(&p)
		if f.numeric {
			t.Normado = numberOrText(r, f.prefix+"_normado")
			t.Proyecto = numberOrText(r, f.prefix+"_proyecto")
		} else {
			t.Normado = r.String("c_" + f.prefix + "_normado")
			t.Proyecto = r.String("c_" + f.prefix + "_proyecto")
		}
		t.Anotaciones = r.String("c_" + f.prefix + "_anotaciones")
	}
	return p
}

// ToWire builds the save payload. Blank numeric fields are sent as 0.
func (p ParametrosUrbanisticos) ToWire(idTecnico FlexID) Record {
	r := Record{
		"b_es_urbanistico":       p.EsUrbanistico,
		"n_area_territorial":     ParseNumber(p.AreaTerritorial),
		"c_area_territorial":     p.AreaTerritorial,
		"n_area_act_urb":         ParseNumber(p.AreaActUrb),
		"c_area_act_urb":         p.AreaActUrb,
		"c_zonificacion":         p.Zonificacion,
		"n_area_lote_normativo":  ParseNumber(p.AreaLoteNormativo),
		"id_tecnico_verificador": idTecnico,
	}
	for _, f := range parametroTriples {
		t := f.get(&p)
		if f.numeric {
			r["n_"+f.prefix+"_normado"] = ParseNumber(t.Normado)
			r["n_"+f.prefix+"_proyecto"] = ParseNumber(t.Proyecto)
		}
		r["c_"+f.prefix+"_normado"] = t.Normado
		r["c_"+f.prefix+"_proyecto"] = t.Proyecto
		r["c_"+f.prefix+"_anotaciones"] = t.Anotaciones
	}
	return r
}
