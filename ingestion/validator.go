package ingestion

import (
	"fmt"

	"horarios-vicedecanatura/models"
)

// Validar revisa las columnas y la calidad de los datos de un archivo antes
// de importarlo. Los errores invalidan el archivo; las advertencias son
// informativas y no impiden la importación. Nunca deja escapar un error.
func Validar(ruta string) *models.ResultadoValidacion {
	resultado := &models.ResultadoValidacion{}

	tabla, err := LeerTabla(ruta)
	if err != nil {
		resultado.Errores = append(resultado.Errores, "No se pudo leer el archivo: "+err.Error())
		return resultado
	}
	resultado.NumFilas = len(tabla.Filas)

	for _, columna := range ColumnasRequeridas {
		if !tabla.TieneColumna(columna) {
			resultado.Errores = append(resultado.Errores,
				fmt.Sprintf("Falta la columna requerida: %s", columna))
		}
	}
	if len(resultado.Errores) > 0 {
		return resultado
	}

	// Campos críticos en blanco: la importación omitirá esas filas
	for _, columna := range []string{ColNRC, ColMateria, ColDepartamento} {
		vacias := 0
		for _, fila := range tabla.Filas {
			if SafeStrip(fila.Get(columna)) == "" {
				vacias++
			}
		}
		if vacias > 0 {
			resultado.Advertencias = append(resultado.Advertencias,
				fmt.Sprintf("%d filas con %s vacío", vacias, columna))
		}
	}

	// NRC repetidos: esperado cuando una sección tiene varias sesiones
	// semanales; se reporta solo para visibilidad, no indica datos malos.
	conteoNRC := make(map[string]int)
	for _, fila := range tabla.Filas {
		if nrc := SafeStrip(fila.Get(ColNRC)); nrc != "" {
			conteoNRC[nrc]++
		}
	}
	repetidos := 0
	for _, n := range conteoNRC {
		if n > 1 {
			repetidos++
		}
	}
	if repetidos > 0 {
		resultado.Advertencias = append(resultado.Advertencias,
			fmt.Sprintf("%d valores de NRC aparecen en varias filas (normal para secciones con varias sesiones)", repetidos))
	}

	resultado.Valido = true
	return resultado
}
