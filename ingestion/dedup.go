package ingestion

import (
	"horarios-vicedecanatura/models"
)

// EstadoCorrida es el estado de deduplicación de una sola corrida de
// importación: qué departamentos, profesores, materias y secciones ya se
// insertaron y con qué asociaciones. Se construye al iniciar la corrida y se
// descarta al terminar; nunca se comparte entre corridas.
type EstadoCorrida struct {
	departamentos map[string]*models.Departamento
	// profesores por clave (nombres|apellidos), con el conjunto de
	// departamentos ya asociados en esta corrida
	profesores     map[string]*models.Profesor
	profesorDeptos map[string]map[uint]bool
	materias       map[string]bool
	seccionProfIDs map[int]map[uint]bool
}

// NuevoEstadoCorrida crea el estado vacío para una corrida.
func NuevoEstadoCorrida() *EstadoCorrida {
	return &EstadoCorrida{
		departamentos:  make(map[string]*models.Departamento),
		profesores:     make(map[string]*models.Profesor),
		profesorDeptos: make(map[string]map[uint]bool),
		materias:       make(map[string]bool),
		seccionProfIDs: make(map[int]map[uint]bool),
	}
}

// Departamento retorna el departamento ya visto con ese nombre, si existe.
func (e *EstadoCorrida) Departamento(nombre string) (*models.Departamento, bool) {
	d, ok := e.departamentos[nombre]
	return d, ok
}

// RegistrarDepartamento anota un departamento como visto en la corrida.
func (e *EstadoCorrida) RegistrarDepartamento(d *models.Departamento) {
	e.departamentos[d.Nombre] = d
}

func claveProfesor(nombres, apellidos string) string {
	return nombres + "|" + apellidos
}

// Profesor retorna el profesor ya visto con ese par (nombres, apellidos) y si
// ya se le asoció el departamento dado durante esta corrida. Cuando el
// profesor existe pero el departamento es nuevo, el llamador debe emitir una
// actualización de asociaciones en lugar de un insert duplicado.
func (e *EstadoCorrida) Profesor(nombres, apellidos string, departamentoID uint) (p *models.Profesor, visto bool, conDepartamento bool) {
	clave := claveProfesor(nombres, apellidos)
	p, visto = e.profesores[clave]
	if !visto {
		return nil, false, false
	}
	return p, true, e.profesorDeptos[clave][departamentoID]
}

// RegistrarProfesor anota un profesor y su asociación con un departamento.
func (e *EstadoCorrida) RegistrarProfesor(p *models.Profesor, departamentoID uint) {
	clave := claveProfesor(p.Nombres, p.Apellidos)
	e.profesores[clave] = p
	if e.profesorDeptos[clave] == nil {
		e.profesorDeptos[clave] = make(map[uint]bool)
	}
	e.profesorDeptos[clave][departamentoID] = true
}

// MateriaVista indica si la materia ya se aseguró en esta corrida.
func (e *EstadoCorrida) MateriaVista(codigo string) bool {
	return e.materias[codigo]
}

// RegistrarMateria anota una materia como asegurada.
func (e *EstadoCorrida) RegistrarMateria(codigo string) {
	e.materias[codigo] = true
}

// SeccionVista indica si la sección ya se insertó en esta corrida.
func (e *EstadoCorrida) SeccionVista(nrc int) bool {
	_, ok := e.seccionProfIDs[nrc]
	return ok
}

// ProfesoresNuevosParaSeccion retorna, de la lista dada, los profesores que
// aún no están asociados a la sección según lo visto en esta corrida. Nunca
// descarta profesores ya registrados: la asociación solo crece.
func (e *EstadoCorrida) ProfesoresNuevosParaSeccion(nrc int, profesores []*models.Profesor) []*models.Profesor {
	asociados := e.seccionProfIDs[nrc]
	var nuevos []*models.Profesor
	for _, p := range profesores {
		if !asociados[p.ID] {
			nuevos = append(nuevos, p)
		}
	}
	return nuevos
}

// RegistrarSeccion anota una sección y los profesores asociados hasta ahora.
func (e *EstadoCorrida) RegistrarSeccion(nrc int, profesores []*models.Profesor) {
	if e.seccionProfIDs[nrc] == nil {
		e.seccionProfIDs[nrc] = make(map[uint]bool)
	}
	for _, p := range profesores {
		e.seccionProfIDs[nrc][p.ID] = true
	}
}
