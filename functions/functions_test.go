package functions

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"horarios-vicedecanatura/models"
)

func dbPrueba(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Departamento{}, &models.Profesor{}, &models.Materia{},
		&models.Seccion{}, &models.Sesion{},
	))
	return db
}

func TestEnsureDepartamento(t *testing.T) {
	db := dbPrueba(t)

	d1, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	require.NotZero(t, d1.ID)

	// Segunda llamada con el mismo nombre: reutiliza, no duplica
	d2, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	require.Equal(t, d1.ID, d2.ID)

	var n int64
	db.Model(&models.Departamento{}).Count(&n)
	require.EqualValues(t, 1, n)

	_, err = EnsureDepartamento(db, "  ")
	require.Error(t, err)
}

func TestEnsureProfesorDeduplicaPorNombreCompleto(t *testing.T) {
	db := dbPrueba(t)

	mate, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	fisica, err := EnsureDepartamento(db, "Física")
	require.NoError(t, err)

	p1, err := EnsureProfesor(db, "Ana María", "González", mate)
	require.NoError(t, err)
	require.Equal(t, "SIN DEFINIR", dbTipo(t, db, p1.ID))

	// El mismo par (nombres, apellidos) en otro departamento acumula la
	// asociación sin duplicar al profesor
	p2, err := EnsureProfesor(db, "Ana María", "González", fisica)
	require.NoError(t, err)
	require.Equal(t, p1.ID, p2.ID)

	// Homónimo parcial: apellidos distintos son otro profesor
	p3, err := EnsureProfesor(db, "Ana María", "Restrepo", mate)
	require.NoError(t, err)
	require.NotEqual(t, p1.ID, p3.ID)

	var recargado models.Profesor
	require.NoError(t, db.Preload("Departamentos").First(&recargado, p1.ID).Error)
	require.Len(t, recargado.Departamentos, 2)

	_, err = EnsureProfesor(db, "", "", mate)
	require.Error(t, err)
}

func dbTipo(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var p models.Profesor
	require.NoError(t, db.First(&p, id).Error)
	return p.Tipo
}

func TestAgregarDepartamentoAProfesor(t *testing.T) {
	db := dbPrueba(t)

	mate, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	fisica, err := EnsureDepartamento(db, "Física")
	require.NoError(t, err)
	profesor, err := EnsureProfesor(db, "Juan", "Pérez", mate)
	require.NoError(t, err)

	require.NoError(t, AgregarDepartamentoAProfesor(db, profesor.ID, fisica.ID))
	// Repetir la asociación es inocuo
	require.NoError(t, AgregarDepartamentoAProfesor(db, profesor.ID, fisica.ID))

	var recargado models.Profesor
	require.NoError(t, db.Preload("Departamentos").First(&recargado, profesor.ID).Error)
	require.Len(t, recargado.Departamentos, 2)

	require.Error(t, AgregarDepartamentoAProfesor(db, 9999, fisica.ID))
}

func TestEnsureMateriaPrimeraAparicionGana(t *testing.T) {
	db := dbPrueba(t)

	depto, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)

	m1, err := EnsureMateria(db, models.Materia{
		Codigo: "3007316", Titulo: "Cálculo Diferencial", Creditos: 4,
		Nivel: 1, DepartamentoID: depto.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Cálculo Diferencial", m1.Titulo)

	// El mismo código con otros campos no sobrescribe nada
	m2, err := EnsureMateria(db, models.Materia{
		Codigo: "3007316", Titulo: "Otro título", Creditos: 3,
		Nivel: 2, DepartamentoID: depto.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Cálculo Diferencial", m2.Titulo)
	require.Equal(t, 4, m2.Creditos)

	_, err = EnsureMateria(db, models.Materia{})
	require.Error(t, err)
}

func sembrarSeccion(t *testing.T, db *gorm.DB, nrc int, profesores ...*models.Profesor) *models.Seccion {
	t.Helper()
	depto, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	_, err = EnsureMateria(db, models.Materia{Codigo: "3007316", Nivel: 1, DepartamentoID: depto.ID})
	require.NoError(t, err)
	seccion, err := CrearSeccion(db, models.Seccion{NRC: nrc, MateriaCodigo: "3007316", Cupo: 40}, profesores)
	require.NoError(t, err)
	return seccion
}

func TestSeccionesYProfesores(t *testing.T) {
	db := dbPrueba(t)

	depto, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	p1, err := EnsureProfesor(db, "Juan", "Pérez", depto)
	require.NoError(t, err)
	p2, err := EnsureProfesor(db, "Ana", "Restrepo", depto)
	require.NoError(t, err)

	seccion := sembrarSeccion(t, db, 4540, p1)
	require.Equal(t, []uint{p1.ID}, seccion.ProfesorIDs)

	// Mezcla: agrega solo al nuevo, conserva al existente
	seccion, err = AgregarProfesoresASeccion(db, 4540, []*models.Profesor{p1, p2})
	require.NoError(t, err)
	require.Equal(t, []uint{p1.ID, p2.ID}, seccion.ProfesorIDs)

	// GetSeccionPorNRC regenera la vista desde la tabla de unión
	leida, err := GetSeccionPorNRC(db, 4540)
	require.NoError(t, err)
	require.Equal(t, []uint{p1.ID, p2.ID}, leida.ProfesorIDs)

	_, err = GetSeccionPorNRC(db, 9999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = CrearSeccion(db, models.Seccion{NRC: 0}, nil)
	require.Error(t, err)
}

func TestActualizarInscritos(t *testing.T) {
	db := dbPrueba(t)
	sembrarSeccion(t, db, 4540)

	require.NoError(t, ActualizarInscritos(db, 4540, 35))
	seccion, err := GetSeccionPorNRC(db, 4540)
	require.NoError(t, err)
	require.Equal(t, 35, seccion.Inscritos)

	require.Error(t, ActualizarInscritos(db, 9999, 35))
}

func TestCrearSesionYConsultaParaCalculo(t *testing.T) {
	db := dbPrueba(t)

	depto, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	profesor, err := EnsureProfesor(db, "Juan", "Pérez", depto)
	require.NoError(t, err)
	sembrarSeccion(t, db, 4540, profesor)

	_, err = CrearSesion(db, models.Sesion{
		ID: "s-1", TipoHorario: "MAGISTRAL", HoraInicio: "09:00", HoraFin: "10:30",
		DuracionHoras: 1.667, Dias: "M,J", SeccionNRC: 4540,
	}, []*models.Profesor{profesor})
	require.NoError(t, err)
	_, err = CrearSesion(db, models.Sesion{
		ID: "s-2", TipoHorario: "LABORATORIO", SeccionNRC: 4540,
	}, nil)
	require.NoError(t, err)

	_, err = CrearSesion(db, models.Sesion{ID: "s-3"}, nil)
	require.Error(t, err)

	sesiones, err := SesionesParaCalculo(db, []int{1, 2}, []string{"MAGISTRAL"})
	require.NoError(t, err)
	require.Len(t, sesiones, 1)
	require.Equal(t, "s-1", sesiones[0].ID)
	require.NotNil(t, sesiones[0].Seccion)
	require.NotNil(t, sesiones[0].Seccion.Materia)
	require.Len(t, sesiones[0].Profesores, 1)

	// Nivel fuera del rango pedido
	sesiones, err = SesionesParaCalculo(db, []int{3, 4}, nil)
	require.NoError(t, err)
	require.Empty(t, sesiones)
}

func TestSeccionesPorListaCruzada(t *testing.T) {
	db := dbPrueba(t)

	depto, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	_, err = EnsureMateria(db, models.Materia{Codigo: "3007316", Nivel: 1, DepartamentoID: depto.ID})
	require.NoError(t, err)
	for nrc, lista := range map[int]string{4540: "AB12", 4541: "AB12", 4542: ""} {
		_, err = CrearSeccion(db, models.Seccion{NRC: nrc, MateriaCodigo: "3007316", ListaCruzada: lista}, nil)
		require.NoError(t, err)
	}

	secciones, err := SeccionesPorListaCruzada(db, "AB12")
	require.NoError(t, err)
	require.Len(t, secciones, 2)
}

func TestActualizarPERMasivoYReset(t *testing.T) {
	db := dbPrueba(t)
	sembrarSeccion(t, db, 4540)
	_, err := CrearSesion(db, models.Sesion{ID: "s-1", SeccionNRC: 4540}, nil)
	require.NoError(t, err)

	fallidas, err := ActualizarPERMasivo(db, []models.ActualizacionPER{
		{SesionID: "s-1", ValorNuevo: 67.5},
		{SesionID: "no-existe", ValorNuevo: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 1, fallidas)

	var sesion models.Sesion
	require.NoError(t, db.First(&sesion, "id = ?", "s-1").Error)
	require.InDelta(t, 67.5, sesion.PER, 0.001)

	// Reset por nivel de la materia
	afectadas, err := ResetPER(db, []int{1, 2})
	require.NoError(t, err)
	require.EqualValues(t, 1, afectadas)
	require.NoError(t, db.First(&sesion, "id = ?", "s-1").Error)
	require.Zero(t, sesion.PER)

	afectadas, err = ResetPER(db, nil)
	require.NoError(t, err)
	require.Zero(t, afectadas)
}

func TestActualizarTipoProfesor(t *testing.T) {
	db := dbPrueba(t)
	depto, err := EnsureDepartamento(db, "Matemáticas")
	require.NoError(t, err)
	profesor, err := EnsureProfesor(db, "Juan", "Pérez", depto)
	require.NoError(t, err)

	previo, err := ActualizarTipoProfesor(db, profesor.ID, "PLANTA", 1.0)
	require.NoError(t, err)
	require.Equal(t, "SIN DEFINIR", previo.Tipo)

	var recargado models.Profesor
	require.NoError(t, db.First(&recargado, profesor.ID).Error)
	require.Equal(t, "PLANTA", recargado.Tipo)
	require.InDelta(t, 1.0, recargado.Dedicacion, 0.001)

	_, err = ActualizarTipoProfesor(db, 9999, "PLANTA", 0)
	require.Error(t, err)
}

func TestConteosTablas(t *testing.T) {
	db := dbPrueba(t)
	sembrarSeccion(t, db, 4540)

	conteos := ConteosTablas(db)
	require.EqualValues(t, 1, conteos["departamentos"])
	require.EqualValues(t, 1, conteos["materias"])
	require.EqualValues(t, 1, conteos["secciones"])
	require.EqualValues(t, 0, conteos["sesiones"])
}
