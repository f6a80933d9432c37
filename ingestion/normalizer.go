package ingestion

import (
	"fmt"
	"strconv"
	"strings"
)

// minutosColchon es el colchón fijo que se suma a la duración de cada sesión
// (cambio de salón entre clases).
const minutosColchon = 10

// SafeStrip recorta espacios y trata los marcadores de celda vacía de los
// exportes ("nan", "NaN", "null") como cadena vacía. Nunca falla.
func SafeStrip(valor string) string {
	limpio := strings.TrimSpace(valor)
	switch strings.ToLower(limpio) {
	case "nan", "null", "none":
		return ""
	}
	return limpio
}

// SafeInt convierte un valor a entero, retornando el valor por defecto si la
// celda está vacía o no es numérica. Nunca falla.
func SafeInt(valor string, porDefecto int) int {
	limpio := SafeStrip(valor)
	if limpio == "" {
		return porDefecto
	}
	// Celdas numéricas de Excel pueden llegar como "4540.0"
	if punto := strings.IndexByte(limpio, '.'); punto >= 0 {
		limpio = limpio[:punto]
	}
	n, err := strconv.Atoi(limpio)
	if err != nil {
		return porDefecto
	}
	return n
}

// FormatTime convierte una hora numérica de 3 o 4 dígitos (930, 1430) al
// formato "HH:MM". Retorna cadena vacía si la celda está vacía o no es una
// hora válida.
func FormatTime(valor string) string {
	limpio := SafeStrip(valor)
	if limpio == "" {
		return ""
	}
	if punto := strings.IndexByte(limpio, '.'); punto >= 0 {
		limpio = limpio[:punto]
	}
	n, err := strconv.Atoi(limpio)
	if err != nil || n < 0 {
		return ""
	}
	horas := n / 100
	minutos := n % 100
	if horas > 23 || minutos > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", horas, minutos)
}

// DuracionHoras calcula las horas entre dos tiempos "HH:MM", sumando el
// colchón fijo de 10 minutos. El segundo retorno es falso si alguno de los
// dos tiempos está vacío o malformado.
func DuracionHoras(inicio, fin string) (float64, bool) {
	minInicio, ok := aMinutos(inicio)
	if !ok {
		return 0, false
	}
	minFin, ok := aMinutos(fin)
	if !ok {
		return 0, false
	}
	return float64(minFin-minInicio+minutosColchon) / 60.0, true
}

func aMinutos(hora string) (int, bool) {
	partes := strings.Split(hora, ":")
	if len(partes) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(partes[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(partes[1])
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

// DiasString recorre las siete columnas de día en orden lunes-primero y emite
// la letra de cada columna no vacía, unidas por comas. El orden sigue al de
// las columnas, no al alfabético.
func DiasString(fila Fila) string {
	var letras []string
	for _, dia := range ColumnasDias {
		if SafeStrip(fila.Get(dia.Columna)) != "" {
			letras = append(letras, dia.Letra)
		}
	}
	return strings.Join(letras, ",")
}

// IsRowEmpty es verdadera si todas las columnas críticas de la fila (NRC,
// materia, departamento y facultad) están vacías. Se usa para saltar filas de
// relleno del exporte.
func IsRowEmpty(fila Fila) bool {
	for _, columna := range []string{ColNRC, ColMateria, ColDepartamento, ColFacultad} {
		if SafeStrip(fila.Get(columna)) != "" {
			return false
		}
	}
	return true
}
