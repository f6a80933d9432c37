package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// proveedorContador responde siempre lo mismo y cuenta cuántas veces le
// preguntaron, para verificar el caché de la corrida.
type proveedorContador struct {
	respuesta Choice
	llamadas  int
}

func (p *proveedorContador) Resolve([]string) Choice {
	p.llamadas++
	return p.respuesta
}

func TestDividirUnaYDosPartes(t *testing.T) {
	d := NuevoDesambiguador(nil)

	require.Equal(t, NombreProfesor{Nombres: "Cher"}, d.Dividir("Cher"))
	require.Equal(t,
		NombreProfesor{Nombres: "Juan", Apellidos: "Pérez"},
		d.Dividir("Juan Pérez"))
}

func TestDividirCuatroOMasPartes(t *testing.T) {
	d := NuevoDesambiguador(nil)

	require.Equal(t,
		NombreProfesor{Nombres: "Carlos Alberto", Apellidos: "De Hoyos"},
		d.Dividir("Carlos Alberto De Hoyos"))
	require.Equal(t,
		NombreProfesor{Nombres: "María del Pilar", Apellidos: "Restrepo Uribe"},
		d.Dividir("María del Pilar Restrepo Uribe"))
}

func TestTresPartesNombreCompuestoConocido(t *testing.T) {
	prov := &proveedorContador{respuesta: ApellidoCompuesto}
	d := NuevoDesambiguador(prov)

	require.Equal(t,
		NombreProfesor{Nombres: "Ana María", Apellidos: "González"},
		d.Dividir("Ana María González"))
	// La heurística resolvió sin preguntar
	require.Zero(t, prov.llamadas)
}

func TestTresPartesParticulaDeApellido(t *testing.T) {
	prov := &proveedorContador{respuesta: NombreCompuesto}
	d := NuevoDesambiguador(prov)

	require.Equal(t,
		NombreProfesor{Nombres: "Carlos", Apellidos: "De Hoyos"},
		d.Dividir("Carlos De Hoyos"))
	require.Zero(t, prov.llamadas)
}

func TestTresPartesColaCorta(t *testing.T) {
	prov := &proveedorContador{respuesta: ApellidoCompuesto}
	d := NuevoDesambiguador(prov)

	// "Gil" es corto y "Marina" largo: nombre compuesto abreviado
	require.Equal(t,
		NombreProfesor{Nombres: "Luz Marina", Apellidos: "Gil"},
		d.Dividir("Luz Marina Gil"))
	require.Zero(t, prov.llamadas)
}

func TestTresPartesPorDefectoApellidoCompuesto(t *testing.T) {
	d := NuevoDesambiguador(nil)

	require.Equal(t,
		NombreProfesor{Nombres: "Pedro", Apellidos: "Ramírez Gómez"},
		d.Dividir("Pedro Ramírez Gómez"))
}

func TestTresPartesProveedorYCache(t *testing.T) {
	prov := &proveedorContador{respuesta: NombreCompuesto}
	d := NuevoDesambiguador(prov)

	esperado := NombreProfesor{Nombres: "Pedro Ramiro", Apellidos: "Gómez"}
	require.Equal(t, esperado, d.Dividir("Pedro Ramiro Gómez"))
	require.Equal(t, 1, prov.llamadas)

	// Misma entrada en la misma corrida: sale del caché sin volver a preguntar
	require.Equal(t, esperado, d.Dividir("Pedro Ramiro Gómez"))
	require.Equal(t, 1, prov.llamadas)
}

func TestProveedorInteractivo(t *testing.T) {
	var salida strings.Builder
	prov := &ProveedorInteractivo{In: strings.NewReader("1\n"), Out: &salida}
	require.Equal(t, NombreCompuesto, prov.Resolve([]string{"Pedro", "Ramiro", "Gómez"}))
	require.Contains(t, salida.String(), "Nombre ambiguo")

	prov = &ProveedorInteractivo{In: strings.NewReader("\n"), Out: &salida}
	require.Equal(t, ApellidoCompuesto, prov.Resolve([]string{"Pedro", "Ramiro", "Gómez"}))

	prov = &ProveedorInteractivo{In: strings.NewReader(""), Out: &salida}
	require.Equal(t, ApellidoCompuesto, prov.Resolve([]string{"Pedro", "Ramiro", "Gómez"}))
}

func TestParseProfesores(t *testing.T) {
	d := NuevoDesambiguador(nil)

	lista := d.ParseProfesores("(1) Juan Pérez (Y) | (2) Ana María González")
	require.Len(t, lista, 2)
	require.Equal(t, NombreProfesor{Nombres: "Juan", Apellidos: "Pérez"}, lista[0])
	require.Equal(t, NombreProfesor{Nombres: "Ana María", Apellidos: "González"}, lista[1])

	// Entradas vacías o que quedan vacías tras limpiar se descartan
	require.Empty(t, d.ParseProfesores(""))
	require.Empty(t, d.ParseProfesores("(1)  | nan"))
}
