package models

// ResultadoImportacion resume una corrida completa de importación.
type ResultadoImportacion struct {
	Exito           bool             `json:"exito"`
	FilasProcesadas int              `json:"filas_procesadas"`
	FilasOmitidas   int              `json:"filas_omitidas"`
	Mensaje         string           `json:"mensaje"`
	Estadisticas    map[string]int64 `json:"estadisticas"`
}

// ResultadoValidacion es el reporte previo a la importación de un archivo.
type ResultadoValidacion struct {
	Valido       bool     `json:"valido"`
	Errores      []string `json:"errores"`
	Advertencias []string `json:"advertencias"`
	NumFilas     int      `json:"num_filas"`
}

// ActualizacionPER es un cambio pendiente de PER para una sesión. Solo se
// encolan sesiones cuyo valor calculado difiere del almacenado.
type ActualizacionPER struct {
	SesionID      string  `json:"sesion_id"`
	ValorAnterior float64 `json:"valor_anterior"`
	ValorNuevo    float64 `json:"valor_nuevo"`
	// Modo indica si los inscritos se combinaron por lista cruzada
	// ("agrupada") o se tomaron de la sección individual ("individual").
	Modo string `json:"modo"`
}

// ResultadoPER resume un cálculo masivo de PER.
type ResultadoPER struct {
	SesionesEvaluadas int                `json:"sesiones_evaluadas"`
	Actualizadas      int                `json:"actualizadas"`
	Fallidas          int                `json:"fallidas"`
	Actualizaciones   []ActualizacionPER `json:"actualizaciones,omitempty"`
}

// TamanoEstandar es el tamaño promedio de sección por departamento y tipo de
// curso, usado como denominador del PER de niveles avanzados.
type TamanoEstandar struct {
	Departamento   string  `json:"departamento"`
	Tipo           string  `json:"tipo"` // TEORICA o PRACTICA
	TotalInscritos int     `json:"total_inscritos"`
	TotalSecciones int     `json:"total_secciones"`
	Promedio       float64 `json:"promedio"`
}

// FilaDashboard es una fila del consolidado por departamento, nivel, tipo de
// profesor y tipo de sesión.
type FilaDashboard struct {
	Departamento            string  `json:"departamento"`
	Nivel                   int     `json:"nivel"`
	TipoProfesor            string  `json:"tipo_profesor"`
	TipoSesion              string  `json:"tipo_sesion"`
	Secciones               int     `json:"secciones"`
	Profesores              int     `json:"profesores"`
	HorasTotales            float64 `json:"horas_totales"`
	HorasPromedioSeccion    float64 `json:"horas_promedio_seccion"`
	PERTotal                float64 `json:"per_total"`
	SeccionesTamanoEstandar float64 `json:"secciones_tamano_estandar"`
}

// CandidatoVinculo es una coincidencia propuesta entre una fila del archivo
// de datos personales y un profesor existente, con su puntaje de confianza.
type CandidatoVinculo struct {
	ProfesorID     uint    `json:"profesor_id"`
	NombreProfesor string  `json:"nombre_profesor"`
	NombreArchivo  string  `json:"nombre_archivo"`
	TipoArchivo    string  `json:"tipo_archivo"`
	Dedicacion     float64 `json:"dedicacion"`
	Confianza      float64 `json:"confianza"`
}

// DecisionVinculo aprueba o rechaza un candidato propuesto.
type DecisionVinculo struct {
	ProfesorID uint `json:"profesor_id"`
	Aprobado   bool `json:"aprobado"`
}

// CambioProfesor describe la actualización aplicada a un profesor vinculado.
type CambioProfesor struct {
	ProfesorID     uint   `json:"profesor_id"`
	NombreProfesor string `json:"nombre_profesor"`
	TipoAnterior   string `json:"tipo_anterior"`
	TipoNuevo      string `json:"tipo_nuevo"`
}

// ResultadoVinculacion resume la aplicación de decisiones de vinculación.
type ResultadoVinculacion struct {
	Actualizados int              `json:"actualizados"`
	Cambios      []CambioProfesor `json:"cambios,omitempty"`
	Errores      []string         `json:"errores,omitempty"`
}
