package ingestion

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"horarios-vicedecanatura/functions"
	"horarios-vicedecanatura/models"
)

// OpcionesImportacion configura una corrida de importación.
type OpcionesImportacion struct {
	// Proveedor resuelve nombres ambiguos de tres partes. Nulo usa el
	// proveedor por defecto (apellido compuesto, sin preguntar).
	Proveedor DecisionProvider
	// Progreso, si no es nulo, se invoca con un mensaje corto después de
	// cada fila y en los hitos de la corrida. Es el único punto de cesión
	// cooperativa; no puede abortar la corrida.
	Progreso func(mensaje string)
	Logger   *logrus.Logger
}

// Procesar importa un archivo de horarios completo. Una falla leyendo el
// archivo aborta la corrida (Exito=false); las fallas por fila se aíslan, se
// registran y se cuentan en FilasOmitidas sin abortar. Nunca deja escapar un
// error.
func Procesar(db *gorm.DB, ruta string, opts OpcionesImportacion) *models.ResultadoImportacion {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	progreso := opts.Progreso
	if progreso == nil {
		progreso = func(string) {}
	}

	resultado := &models.ResultadoImportacion{}

	progreso("Leyendo archivo " + ruta)
	tabla, err := LeerTabla(ruta)
	if err != nil {
		resultado.Mensaje = err.Error()
		return resultado
	}

	estado := NuevoEstadoCorrida()
	desambiguador := NuevoDesambiguador(opts.Proveedor)
	total := len(tabla.Filas)

	for i, fila := range tabla.Filas {
		// +2: el encabezado es la fila 1 del archivo
		numFila := i + 2
		if err := procesarFila(db, fila, estado, desambiguador, logger); err != nil {
			resultado.FilasOmitidas++
			logger.WithFields(logrus.Fields{"fila": numFila}).Warnf("Fila omitida: %v", err)
		} else {
			resultado.FilasProcesadas++
		}
		progreso(fmt.Sprintf("Fila %d de %d", i+1, total))
	}

	progreso("Consultando estadísticas finales")
	resultado.Estadisticas = functions.ConteosTablas(db)
	resultado.Exito = true
	resultado.Mensaje = fmt.Sprintf(
		"Importación completada: %d filas procesadas, %d omitidas",
		resultado.FilasProcesadas, resultado.FilasOmitidas,
	)
	return resultado
}

// procesarFila procesa una fila del archivo. Cualquier error (o pánico)
// retorna como error de la fila: la corrida continúa con la siguiente.
func procesarFila(db *gorm.DB, fila Fila, estado *EstadoCorrida, desambiguador *Desambiguador, logger *logrus.Logger) (errFila error) {
	defer func() {
		if r := recover(); r != nil {
			errFila = fmt.Errorf("error inesperado procesando la fila: %v", r)
		}
	}()

	if IsRowEmpty(fila) {
		return errors.New("fila sin datos en las columnas críticas")
	}

	nombreDepto := SafeStrip(fila.Get(ColDepartamento))
	if nombreDepto == "" {
		return errors.New("departamento vacío")
	}

	departamento, visto := estado.Departamento(nombreDepto)
	if !visto {
		var err error
		departamento, err = functions.EnsureDepartamento(db, nombreDepto)
		if err != nil {
			return err
		}
		estado.RegistrarDepartamento(departamento)
	}

	// El orden de los profesores importa: la sesión los referencia en el
	// orden en que aparecen en la fila.
	var profesores []*models.Profesor
	for _, nombre := range desambiguador.ParseProfesores(fila.Get(ColProfesores)) {
		profesor, vistoProf, conDepto := estado.Profesor(nombre.Nombres, nombre.Apellidos, departamento.ID)
		if vistoProf {
			if !conDepto {
				if err := functions.AgregarDepartamentoAProfesor(db, profesor.ID, departamento.ID); err != nil {
					logger.Warnf("No se pudo asociar a %s %s con %s: %v", nombre.Nombres, nombre.Apellidos, nombreDepto, err)
					continue
				}
				estado.RegistrarProfesor(profesor, departamento.ID)
			}
			profesores = append(profesores, profesor)
			continue
		}

		profesor, err := functions.EnsureProfesor(db, nombre.Nombres, nombre.Apellidos, departamento)
		if err != nil {
			// La fila continúa con los profesores que sí se pudieron crear
			logger.Warnf("No se pudo asegurar al profesor %s %s: %v", nombre.Nombres, nombre.Apellidos, err)
			continue
		}
		estado.RegistrarProfesor(profesor, departamento.ID)
		profesores = append(profesores, profesor)
	}

	codigoMateria := SafeStrip(fila.Get(ColMateria))
	if codigoMateria == "" {
		return errors.New("código de materia vacío")
	}
	if !estado.MateriaVista(codigoMateria) {
		materia := models.Materia{
			Codigo:           codigoMateria,
			Titulo:           SafeStrip(fila.Get(ColTitulo)),
			Creditos:         SafeInt(fila.Get(ColCreditos), 0),
			Nivel:            SafeInt(fila.Get(ColNivel), 0),
			ModoCalificacion: SafeStrip(fila.Get(ColModoCalif)),
			Campus:           SafeStrip(fila.Get(ColCampus)),
			Periodo:          SafeStrip(fila.Get(ColPeriodo)),
			DepartamentoID:   departamento.ID,
		}
		if _, err := functions.EnsureMateria(db, materia); err != nil {
			return err
		}
		estado.RegistrarMateria(codigoMateria)
	}

	nrc := SafeInt(fila.Get(ColNRC), 0)
	if nrc <= 0 {
		return fmt.Errorf("NRC inválido: %q", SafeStrip(fila.Get(ColNRC)))
	}

	if err := asegurarSeccion(db, fila, nrc, codigoMateria, profesores, estado); err != nil {
		return err
	}

	duracion, _ := DuracionHoras(
		FormatTime(fila.Get(ColHoraInicio)),
		FormatTime(fila.Get(ColHoraFin)),
	)
	sesion := models.Sesion{
		ID:            uuid.NewString(),
		TipoHorario:   SafeStrip(fila.Get(ColTipoHorario)),
		HoraInicio:    FormatTime(fila.Get(ColHoraInicio)),
		HoraFin:       FormatTime(fila.Get(ColHoraFin)),
		DuracionHoras: duracion,
		Edificio:      SafeStrip(fila.Get(ColEdificio)),
		Salon:         SafeStrip(fila.Get(ColSalon)),
		AtributoSalon: SafeStrip(fila.Get(ColAtributoSalon)),
		Dias:          DiasString(fila),
		SeccionNRC:    nrc,
	}
	if _, err := functions.CrearSesion(db, sesion, profesores); err != nil {
		return err
	}
	return nil
}

// asegurarSeccion inserta la sección si es la primera vez que se ve el NRC, o
// mezcla los profesores nuevos si ya existe. Los profesores previamente
// registrados nunca se eliminan.
func asegurarSeccion(db *gorm.DB, fila Fila, nrc int, codigoMateria string, profesores []*models.Profesor, estado *EstadoCorrida) error {
	if estado.SeccionVista(nrc) {
		nuevos := estado.ProfesoresNuevosParaSeccion(nrc, profesores)
		if len(nuevos) > 0 {
			if _, err := functions.AgregarProfesoresASeccion(db, nrc, nuevos); err != nil {
				return err
			}
			estado.RegistrarSeccion(nrc, nuevos)
		}
		return nil
	}

	existente, err := functions.GetSeccionPorNRC(db, nrc)
	switch {
	case err == nil:
		// Sección de una corrida anterior: solo se mezclan profesores
		if _, err := functions.AgregarProfesoresASeccion(db, nrc, profesores); err != nil {
			return err
		}
		estado.RegistrarSeccion(nrc, existente.Profesores)
		estado.RegistrarSeccion(nrc, profesores)
	case errors.Is(err, gorm.ErrRecordNotFound):
		seccion := models.Seccion{
			NRC:           nrc,
			Etiqueta:      SafeStrip(fila.Get(ColSeccion)),
			Cupo:          SafeInt(fila.Get(ColCupo), 0),
			MateriaCodigo: codigoMateria,
			ListaCruzada:  SafeStrip(fila.Get(ColListaCruzada)),
		}
		if _, err := functions.CrearSeccion(db, seccion, profesores); err != nil {
			return err
		}
		if inscritos := SafeInt(fila.Get(ColInscritos), 0); inscritos > 0 {
			if err := functions.ActualizarInscritos(db, nrc, inscritos); err != nil {
				return err
			}
		}
		estado.RegistrarSeccion(nrc, profesores)
	default:
		return err
	}
	return nil
}
