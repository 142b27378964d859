package service

// Backend groups the per-domain gateways over one shared client
type Backend struct {
	Expedientes       *ExpedienteService
	Tecnicos          *TecnicoService
	MesaPartes        *MesaPartesService
	Requisitos        *RequisitosService
	Parametros        *ParametrosService
	Observaciones     *ObservacionesService
	VerificacionAdmin *VerificacionAdminService
	CuadroAreas       *CuadroAreasService
	Documentos        *DocumentoService
	Programacion      *ProgramacionService
	Contribuyentes    *ContribuyenteService
	Predios           *PredioService
}

func NewBackend(c *Client) *Backend {
	return &Backend{
		Expedientes:       &ExpedienteService{c: c},
		Tecnicos:          &TecnicoService{c: c},
		MesaPartes:        &MesaPartesService{c: c},
		Requisitos:        &RequisitosService{c: c},
		Parametros:        &ParametrosService{c: c},
		Observaciones:     &ObservacionesService{c: c},
		VerificacionAdmin: &VerificacionAdminService{c: c},
		CuadroAreas:       &CuadroAreasService{c: c},
		Documentos:        &DocumentoService{c: c},
		Programacion:      &ProgramacionService{c: c},
		Contribuyentes:    &ContribuyenteService{c: c},
		Predios:           &PredioService{c: c},
	}
}
