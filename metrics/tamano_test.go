package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcularTamanosEstandar(t *testing.T) {
	db := dbPrueba(t)
	crearMateria(t, db, "3007390", 3, "Matemáticas")
	crearMateria(t, db, "3007316", 1, "Matemáticas")

	crearSeccion(t, db, 5001, "3007390", 20, "")
	crearSeccion(t, db, 5002, "3007390", 40, "")
	// Nivel básico: fuera del Tamaño Estándar
	crearSeccion(t, db, 4540, "3007316", 99, "")

	crearSesion(t, db, "s-teo-1", 5001, "MAGISTRAL", 2)
	crearSesion(t, db, "s-teo-2", 5002, "MAGISTRAL", 2)
	// Segunda sesión de la misma sección: la sección cuenta una sola vez
	crearSesion(t, db, "s-teo-2b", 5002, "TEORICA", 2)
	crearSesion(t, db, "s-lab", 5001, "LABORATORIO", 2)
	crearSesion(t, db, "s-basica", 4540, "MAGISTRAL", 2)

	tamanos, err := CalcularTamanosEstandar(db)
	require.NoError(t, err)
	require.Len(t, tamanos, 2)

	// Orden: departamento y luego clase
	require.Equal(t, ClasePractica, tamanos[0].Tipo)
	require.Equal(t, "Matemáticas", tamanos[0].Departamento)
	require.Equal(t, 20, tamanos[0].TotalInscritos)
	require.Equal(t, 1, tamanos[0].TotalSecciones)
	require.InDelta(t, 20, tamanos[0].Promedio, 0.001)

	require.Equal(t, ClaseTeorica, tamanos[1].Tipo)
	require.Equal(t, 60, tamanos[1].TotalInscritos)
	require.Equal(t, 2, tamanos[1].TotalSecciones)
	require.InDelta(t, 30, tamanos[1].Promedio, 0.001)
}

func TestCalcularTamanosEstandarSinDatos(t *testing.T) {
	db := dbPrueba(t)

	tamanos, err := CalcularTamanosEstandar(db)
	require.NoError(t, err)
	require.Empty(t, tamanos)
}

func TestCalcularPERAvanzado(t *testing.T) {
	db := dbPrueba(t)
	crearMateria(t, db, "3007390", 3, "Matemáticas")
	crearMateria(t, db, "3007316", 1, "Matemáticas")

	crearSeccion(t, db, 5001, "3007390", 20, "")
	crearSeccion(t, db, 5002, "3007390", 40, "")
	crearSeccion(t, db, 4540, "3007316", 75, "")

	crearSesion(t, db, "s-teo-1", 5001, "MAGISTRAL", 2)
	crearSesion(t, db, "s-teo-2", 5002, "MAGISTRAL", 2)
	crearSesion(t, db, "s-lab", 5001, "LABORATORIO", 2)
	crearSesion(t, db, "s-basica", 4540, "MAGISTRAL", 2)

	resultado, err := CalcularPERAvanzado(db, loggerSilencioso())
	require.NoError(t, err)
	require.Equal(t, 3, resultado.SesionesEvaluadas)
	require.Equal(t, 3, resultado.Actualizadas)
	require.Zero(t, resultado.Fallidas)

	// Tamaño estándar teórico: (20+40)/2 = 30
	require.InDelta(t, 20.0/30.0, perDe(t, db, "s-teo-1"), 0.001)
	require.InDelta(t, 40.0/30.0, perDe(t, db, "s-teo-2"), 0.001)
	// Tamaño estándar práctico: 20/1 = 20
	require.InDelta(t, 1, perDe(t, db, "s-lab"), 0.001)
	// El nivel básico no participa
	require.Zero(t, perDe(t, db, "s-basica"))

	// Segunda corrida: valores estables, nada que actualizar
	resultado, err = CalcularPERAvanzado(db, loggerSilencioso())
	require.NoError(t, err)
	require.Zero(t, resultado.Actualizadas)
}
