package model

// ContribuyenteWire is the taxpayer record as the backend stores it
type ContribuyenteWire struct {
	IDContribuyente    FlexID `json:"id_contribuyente,omitempty"`
	NumDocumento       string `json:"c_num_documento"`
	TipoDocumento      string `json:"c_tipo_documento"`
	TipoContribuyente  string `json:"c_tipo_contribuyente"`
	Nombre             string `json:"c_nombre"`
	CondicionEspecial  string `json:"c_condicion_especial"`
	Telefono           string `json:"c_telefono"`
	CorreoElectronico  string `json:"c_correo_electronico"`
	Estado             string `json:"c_estado,omitempty"`
	Registrado         bool   `json:"b_registrado"`
	Departamento       string `json:"c_departamento,omitempty"`
	Provincia          string `json:"c_provincia,omitempty"`
	Distrito           string `json:"c_distrito,omitempty"`
	ZonaPredioRural    string `json:"c_zona_predio_rural,omitempty"`
	CodVia             string `json:"c_cod_via,omitempty"`
	TipoVia            string `json:"c_tipo_via,omitempty"`
	NombreVia          string `json:"c_nombre_via,omitempty"`
	CodHU              string `json:"c_cod_hu,omitempty"`
	NombreHabilitacion string `json:"c_nombre_habilitacion,omitempty"`
	NroMunicipal       string `json:"c_nro_municipal,omitempty"`
	NombreEdificacion  string `json:"c_nombre_edificacion,omitempty"`
	NroInterior        string `json:"c_nro_interior,omitempty"`
	Sector             string `json:"c_sector,omitempty"`
	Manzana            string `json:"c_manzana,omitempty"`
	Lote               string `json:"c_lote,omitempty"`
	SubLote            string `json:"c_sub_lote,omitempty"`
	GrupoResidencial   string `json:"c_grupo_residencial,omitempty"`
}

// Contribuyente is the editable taxpayer view model
type Contribuyente struct {
	ID                 FlexID `json:"id"`
	TipoDocumento      string `json:"tipoDocumento" validate:"required,max=10"`
	NumeroDocumento    string `json:"numeroDocumento" validate:"required,max=15"`
	TipoContribuyente  string `json:"tipoContribuyente" validate:"required,max=50"`
	Nombre             string `json:"nombre" validate:"required,max=100"`
	CondicionEspecial  string `json:"condicionEspecial" validate:"max=50"`
	Telefono           string `json:"telefono" validate:"max=20"`
	Email              string `json:"email" validate:"omitempty,max=100,email"`
	Departamento       string `json:"departamento"`
	Provincia          string `json:"provincia"`
	Distrito           string `json:"distrito"`
	ZonaPredioRural    string `json:"zonaPredioRural"`
	CodVia             string `json:"codVia"`
	TipoVia            string `json:"tipoVia"`
	NombreVia          string `json:"nombreVia"`
	CodHU              string `json:"codHU"`
	NombreHabilitacion string `json:"nombreHabilitacion"`
	NroMunicipal       string `json:"nroMunicipal"`
	NombreEdificacion  string `json:"nombreEdificacion"`
	NroInterior        string `json:"nroInterior"`
	Sector             string `json:"sector"`
	Manzana            string `json:"manzana"`
	Lote               string `json:"lote"`
	SubLote            string `json:"subLote"`
	GrupoResidencial   string `json:"grupoResidencial"`
	Estado             string `json:"estado"`
	Registrado         bool   `json:"registrado"`
}

// ContribuyenteResumen is a search result row
type ContribuyenteResumen struct {
	ID                FlexID `json:"id"`
	TipoContribuyente string `json:"tipoContribuyente"`
	Nombre            string `json:"nombre"`
	Documento         string `json:"documento"`
	Estado            string `json:"estado"`
	Registrado        bool   `json:"registrado"`
}

func (w ContribuyenteWire) ToView() Contribuyente {
	return Contribuyente{
		ID:                 w.IDContribuyente,
		TipoDocumento:      w.TipoDocumento,
		NumeroDocumento:    w.NumDocumento,
		TipoContribuyente:  w.TipoContribuyente,
		Nombre:             w.Nombre,
		CondicionEspecial:  w.CondicionEspecial,
		Telefono:           w.Telefono,
		Email:              w.CorreoElectronico,
		Departamento:       w.Departamento,
		Provincia:          w.Provincia,
		Distrito:           w.Distrito,
		ZonaPredioRural:    w.ZonaPredioRural,
		CodVia:             w.CodVia,
		TipoVia:            w.TipoVia,
		NombreVia:          w.NombreVia,
		CodHU:              w.CodHU,
		NombreHabilitacion: w.NombreHabilitacion,
		NroMunicipal:       w.NroMunicipal,
		NombreEdificacion:  w.NombreEdificacion,
		NroInterior:        w.NroInterior,
		Sector:             w.Sector,
		Manzana:            w.Manzana,
		Lote:               w.Lote,
		SubLote:            w.SubLote,
		GrupoResidencial:   w.GrupoResidencial,
		Estado:             w.Estado,
		Registrado:         w.Registrado,
	}
}

func (c Contribuyente) ToWire() ContribuyenteWire {
	return ContribuyenteWire{
		IDContribuyente:    c.ID,
		NumDocumento:       c.NumeroDocumento,
		TipoDocumento:      c.TipoDocumento,
		TipoContribuyente:  c.TipoContribuyente,
		Nombre:             c.Nombre,
		CondicionEspecial:  c.CondicionEspecial,
		Telefono:           c.Telefono,
		CorreoElectronico:  c.Email,
		Estado:             c.Estado,
		Registrado:         c.Registrado,
		Departamento:       c.Departamento,
		Provincia:          c.Provincia,
		Distrito:           c.Distrito,
		ZonaPredioRural:    c.ZonaPredioRural,
		CodVia:             c.CodVia,
		TipoVia:            c.TipoVia,
		NombreVia:          c.NombreVia,
		CodHU:              c.CodHU,
		NombreHabilitacion: c.NombreHabilitacion,
		NroMunicipal:       c.NroMunicipal,
		NombreEdificacion:  c.NombreEdificacion,
		NroInterior:        c.NroInterior,
		Sector:             c.Sector,
		Manzana:            c.Manzana,
		Lote:               c.Lote,
		SubLote:            c.SubLote,
		GrupoResidencial:   c.GrupoResidencial,
	}
}

func (w ContribuyenteWire) Resumen() ContribuyenteResumen {
	return ContribuyenteResumen{
		ID:                w.IDContribuyente,
		TipoContribuyente: w.TipoContribuyente,
		Nombre:            w.Nombre,
		Documento:         w.NumDocumento,
		Estado:            w.Estado,
		Registrado:        w.Registrado,
	}
}
