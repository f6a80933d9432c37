package ingestion

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Columnas del archivo de horarios, con los encabezados literales del
// sistema registrador.
const (
	ColNRC           = "NRC"
	ColMateria       = "Materia"
	ColDepartamento  = "Departamento"
	ColFacultad      = "Facultad"
	ColProfesores    = "Profesor(es)"
	ColTitulo        = "Título largo curso"
	ColCreditos      = "Créditos"
	ColSeccion       = "Secc"
	ColCupo          = "Cupo"
	ColInscritos     = "Inscritos"
	ColListaCruzada  = "Lista cruzada"
	ColNivel         = "Nivel"
	ColModoCalif     = "Modo calificación"
	ColCampus        = "Campus"
	ColPeriodo       = "Periodo"
	ColTipoHorario   = "Tipo horario"
	ColHoraInicio    = "Hora inicio"
	ColHoraFin       = "Hora fin"
	ColEdificio      = "Edificio"
	ColSalon         = "Salón"
	ColAtributoSalon = "Atributo salón"

	ColLunes     = "Lunes"
	ColMartes    = "Martes"
	ColMiercoles = "Miércoles"
	ColJueves    = "Jueves"
	ColViernes   = "Viernes"
	ColSabado    = "Sábado"
	ColDomingo   = "Domingo"
)

// ColumnasRequeridas son las columnas que la validación exige antes de
// permitir una importación.
var ColumnasRequeridas = []string{
	ColNRC, ColMateria, ColDepartamento, ColFacultad, ColProfesores,
	ColTitulo, ColCreditos, ColSeccion, ColCupo, ColInscritos,
	ColNivel, ColTipoHorario, ColHoraInicio, ColHoraFin,
}

// ColumnasDias en orden lunes-primero, con la inicial que codifica cada día.
// Miércoles usa "I" para no chocar con la "M" de martes y lunes.
var ColumnasDias = []struct {
	Columna string
	Letra   string
}{
	{ColLunes, "L"},
	{ColMartes, "M"},
	{ColMiercoles, "I"},
	{ColJueves, "J"},
	{ColViernes, "V"},
	{ColSabado, "S"},
	{ColDomingo, "D"},
}

// Fila es un registro crudo del archivo, indexado por encabezado. Una columna
// ausente se lee como cadena vacía.
type Fila map[string]string

// Get retorna el valor crudo de una columna, o vacío si no existe.
func (f Fila) Get(columna string) string {
	return f[columna]
}

// Tabla es un archivo tabular ya cargado en memoria.
type Tabla struct {
	Columnas []string
	Filas    []Fila
}

// TieneColumna indica si el archivo trae el encabezado dado.
func (t *Tabla) TieneColumna(nombre string) bool {
	for _, c := range t.Columnas {
		if c == nombre {
			return true
		}
	}
	return false
}

// LeerTabla carga un archivo CSV o XLSX y descarta las filas totalmente
// vacías. Cualquier error aquí es fatal para la corrida completa.
func LeerTabla(ruta string) (*Tabla, error) {
	switch strings.ToLower(filepath.Ext(ruta)) {
	case ".xlsx", ".xlsm":
		return leerExcel(ruta)
	default:
		return leerCSV(ruta)
	}
}

func leerCSV(ruta string) (*Tabla, error) {
	f, err := os.Open(ruta)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el archivo: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	descartarBOM(br)

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.Comma = detectarSeparador(br)

	encabezado, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("el archivo no tiene encabezado")
		}
		return nil, fmt.Errorf("error leyendo el encabezado: %w", err)
	}
	for i := range encabezado {
		encabezado[i] = strings.TrimSpace(encabezado[i])
	}

	tabla := &Tabla{Columnas: encabezado}
	for {
		registro, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error leyendo el archivo: %w", err)
		}
		fila := aFila(encabezado, registro)
		if !filaTotalmenteVacia(fila) {
			tabla.Filas = append(tabla.Filas, fila)
		}
	}
	return tabla, nil
}

func leerExcel(ruta string) (*Tabla, error) {
	f, err := excelize.OpenFile(ruta)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el archivo: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, errors.New("el archivo no tiene hojas")
	}
	registros, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, fmt.Errorf("error leyendo la hoja %s: %w", hojas[0], err)
	}
	if len(registros) == 0 {
		return nil, errors.New("el archivo no tiene encabezado")
	}

	encabezado := registros[0]
	for i := range encabezado {
		encabezado[i] = strings.TrimSpace(encabezado[i])
	}

	tabla := &Tabla{Columnas: encabezado}
	for _, registro := range registros[1:] {
		fila := aFila(encabezado, registro)
		if !filaTotalmenteVacia(fila) {
			tabla.Filas = append(tabla.Filas, fila)
		}
	}
	return tabla, nil
}

func aFila(encabezado, registro []string) Fila {
	fila := make(Fila, len(encabezado))
	for i, columna := range encabezado {
		if columna == "" {
			continue
		}
		if i < len(registro) {
			fila[columna] = registro[i]
		} else {
			fila[columna] = ""
		}
	}
	return fila
}

func filaTotalmenteVacia(fila Fila) bool {
	for _, v := range fila {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func descartarBOM(br *bufio.Reader) {
	b, err := br.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
}

// detectarSeparador mira la primera línea sin consumirla: los exportes
// regionales suelen venir separados por punto y coma.
func detectarSeparador(br *bufio.Reader) rune {
	b, _ := br.Peek(4096)
	linea := string(b)
	if idx := strings.IndexByte(linea, '\n'); idx >= 0 {
		linea = linea[:idx]
	}
	if strings.Count(linea, ";") > strings.Count(linea, ",") {
		return ';'
	}
	return ','
}
