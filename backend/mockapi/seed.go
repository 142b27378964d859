package mockapi

import (
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

// Seeded returns a store loaded with the demo records
func Seeded() *Store {
	s := NewStore(200)
	s.Seed()
	return s
}

// Seed replaces the store contents with the demo records
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tecnicos = []model.Tecnico{
		{IDTecnico: "1", Nombre: "CARLOS MENDOZA QUISPE", DNI: "40123456"},
		{IDTecnico: "2", Nombre: "LUCIA HUAMAN TORRES", DNI: "41234567"},
		{IDTecnico: "3", Nombre: "JORGE CCAHUANA ROJAS", DNI: "42345678"},
	}

	s.expedientes = []model.Expediente{
		{IDExpediente: "1", Expediente: "2417", DNI: "19353934", Administrado: "PACHECO NAUPARI, EVER", FechaRegistro: "2018-05-12", IDTecnico: "1", Tecnico: "CARLOS MENDOZA QUISPE"},
		{IDExpediente: "2", Expediente: "2620", DNI: "29300138", Administrado: "HINOJOSA NAVARRO, MARIBEL", FechaRegistro: "2018-05-12", IDTecnico: "1", Tecnico: "CARLOS MENDOZA QUISPE"},
		{IDExpediente: "3", Expediente: "5739", DNI: "21441106", Administrado: "EULOGIO MARTINEZ, TEODORO", FechaRegistro: "2018-05-12", IDTecnico: "2", Tecnico: "LUCIA HUAMAN TORRES"},
	}

	s.solicitudes = []model.Solicitud{
		{IDSolicitud: "11", DNI: "45678912", NombreCompleto: "QUISPE MAMANI, ROSA", FechaRegistro: "2024-02-01"},
		{IDSolicitud: "12", DNI: "46789123", NombreCompleto: "FLORES CONDORI, PEDRO", FechaRegistro: "2024-02-03"},
	}

	s.requisitos = map[string]model.RequisitosWire{
		"1": {
			IDRequisito:          "1",
			IDExpediente:         "1",
			TipoFormulario:       model.FormularioFUE,
			CopiaLiteralDominio:  true,
			Propietario:          true,
			FechaVerificacion:    "2024-03-01",
			IDTecnicoVerificador: "1",
		},
	}

	s.parametros = map[string]model.Record{
		"1": {
			"id_expediente":         "1",
			"b_es_urbanistico":      true,
			"n_area_territorial":    float64(1200),
			"n_area_act_urb":        float64(800),
			"c_zonificacion":        "RDM",
			"n_area_lote_normativo": float64(160),
		},
	}
	s.verificaciones = make(map[string]model.VerificacionAdminWire)

	s.cuadros = map[string]model.Record{
		"2": {
			"id_expediente":             "2",
			"n_total_existente":         float64(80),
			"n_total_ampliacion":        float64(20),
			"c_observaciones_generales": "Verificado en campo",
		},
	}
	s.pisos = map[string][]model.Record{
		"2": {
			{"id_detalle": "21", "c_numero_piso": "Piso 1", "n_existente_m2": float64(50), "n_ampliacion_m2": float64(10), "c_observaciones": ""},
			{"id_detalle": "22", "c_numero_piso": "Piso 2", "n_existente_m2": float64(30), "n_ampliacion_m2": float64(10), "c_observaciones": "Techo liviano"},
		},
	}

	carlos := &model.TecnicoRef{IDTecnico: "1", Nombre: "CARLOS MENDOZA QUISPE"}
	s.observaciones = []model.Observacion{
		{IDObservacion: "31", IDExpediente: "1", Descripcion: "Falta firma del propietario", Tipo: model.TipoObservacionGeneral, SeccionAplicable: model.SeccionAplicableGeneral, Estado: "PENDIENTE", FechaCreacion: "2024-03-02", TecnicoObservacion: carlos},
		{IDObservacion: "32", IDExpediente: "1", Descripcion: "Plano de ubicación ilegible", Tipo: model.TipoObservacionGeneral, SeccionAplicable: model.SeccionAplicableGeneral, Estado: "PENDIENTE", FechaCreacion: "2024-03-02", TecnicoObservacion: carlos},
	}

	seeded := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.documentos = map[string]*StoredDocumento{
		"41": {
			Documento: model.Documento{
				IDDocumentoAdjunto: "41",
				IDExpediente:       "1",
				Nombre:             "plano_ubicacion.pdf",
				Tipo:               "PDF",
				TamanioBytes:       2048,
				MimeType:           "application/pdf",
				FechaSubida:        seeded.Format(time.RFC3339),
				IDTecnicoSubio:     "1",
				Activo:             true,
				TecnicoDocumentos:  carlos,
			},
			Content:   make([]byte, 2048),
			CreatedAt: seeded,
		},
	}

	activo := true
	s.programaciones = []model.ProgramacionWire{
		{IDProgramacion: "51", IDExpediente: "1", IDTecnico: "1", FechaVerificacion: "2024-03-10", HoraVerificacion: "09:30:00", Observaciones: "Visita inicial", FechaCreacion: "2024-03-01", Activo: &activo},
	}

	s.contribuyentes = []model.ContribuyenteWire{
		{
			IDContribuyente:   "1",
			NumDocumento:      "75257565",
			TipoDocumento:     "DNI",
			TipoContribuyente: "PERSONA NATURAL",
			Nombre:            "MARIA REYNA ANTUANET RODRIGUEZ CABANILLAS",
			Telefono:          "987654321",
			CorreoElectronico: "maria.rodriguez@email.com",
			Estado:            "ACTIVO",
			Registrado:        true,
			Departamento:      "CUSCO",
			Provincia:         "LA CONVENCIÓN",
			Distrito:          "KIMBIRI",
			CodVia:            "123456",
			TipoVia:           "AVENIDA",
			NombreVia:         "SN",
			NroMunicipal:      "123",
			Manzana:           "123",
			Lote:              "123",
		},
		{
			IDContribuyente:   "2",
			NumDocumento:      "05232717",
			TipoDocumento:     "DNI",
			TipoContribuyente: "PERSONA NATURAL",
			Nombre:            "JUAN BOCANEGRA LINAREZ",
			Telefono:          "987654322",
			Estado:            "ACTIVO",
			Registrado:        true,
		},
		{
			IDContribuyente:   "3",
			NumDocumento:      "7799915",
			TipoDocumento:     "DNI",
			TipoContribuyente: "PERSONA NATURAL",
			Nombre:            "RENZO GARCIA AUQUI",
			Telefono:          "987654323",
			Estado:            "ACTIVO",
			Registrado:        false,
		},
	}

	s.predios = map[string][]model.PredioWire{
		"2022": {
			{IDPredio: "1", Codigo: "P001-2022", Tipo: model.PredioUrbano, Ubicacion: "AV. SN Nº 123 MZNA. 123 LOTE 123", Area: "100.0 m2", Condicion: "HABITADO", NumDocumento: "75257565", NombreContribuyente: "MARIA REYNA ANTUANET RODRIGUEZ CABANILLAS", Periodo: "2022"},
			{IDPredio: "2", Codigo: "P002-2022", Tipo: model.PredioRural, Ubicacion: "Zona Agricola - Sector A", Area: "2.5 ha", Condicion: "PRODUCCION", NumDocumento: "05232717", NombreContribuyente: "JUAN BOCANEGRA LINAREZ", Periodo: "2022"},
			{IDPredio: "3", Codigo: "P003-2022", Tipo: model.PredioUrbano, Ubicacion: "JR. LAS FLORES Nº 456", Area: "150.0 m2", Condicion: "VACIO", NumDocumento: "7799915", NombreContribuyente: "RENZO GARCIA AUQUI", Periodo: "2022"},
		},
		"2023": {
			{IDPredio: "4", Codigo: "P001-2023", Tipo: model.PredioUrbano, Ubicacion: "AV. LAS AMERICAS Nº 789", Area: "120.0 m2", Condicion: "HABITADO", NumDocumento: "75257565", NombreContribuyente: "MARIA REYNA ANTUANET RODRIGUEZ CABANILLAS", Periodo: "2023"},
			{IDPredio: "5", Codigo: "P002-2023", Tipo: model.PredioRural, Ubicacion: "Zona Ganadera - Sector B", Area: "5.0 ha", Condicion: "PRODUCCION", NumDocumento: "05232717", NombreContribuyente: "JUAN BOCANEGRA LINAREZ", Periodo: "2023"},
		},
		"2024": {
			{IDPredio: "6", Codigo: "P001-2024", Tipo: model.PredioUrbano, Ubicacion: "AV. NUEVA Nº 321", Area: "200.0 m2", Condicion: "CONSTRUCCION", NumDocumento: "7799915", NombreContribuyente: "RENZO GARCIA AUQUI", Periodo: "2024"},
		},
	}

	s.nextID = 100
}
