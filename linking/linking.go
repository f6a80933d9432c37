package linking

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"horarios-vicedecanatura/functions"
	"horarios-vicedecanatura/ingestion"
	"horarios-vicedecanatura/models"
)

// Columnas del archivo de datos personales.
const (
	ColNombreCompleto = "Nombre completo"
	ColDocumento      = "Documento"
	ColTipo           = "Tipo"
	ColDedicacion     = "Dedicación"
)

// umbralConfianza es la confianza mínima para proponer un vínculo.
const umbralConfianza = 0.5

// ProponerVinculos compara cada fila del archivo de datos personales contra
// los profesores existentes y retorna la lista de coincidencias con su
// puntaje de confianza. El nombre del archivo y el del profesor pueden venir
// en orden distinto (apellidos primero o nombres primero); se comparan ambas
// formas.
func ProponerVinculos(db *gorm.DB, ruta string) ([]models.CandidatoVinculo, error) {
	tabla, err := ingestion.LeerTabla(ruta)
	if err != nil {
		return nil, err
	}
	if !tabla.TieneColumna(ColNombreCompleto) {
		return nil, fmt.Errorf("falta la columna requerida: %s", ColNombreCompleto)
	}

	profesores, err := functions.GetTodosProfesores(db)
	if err != nil {
		return nil, err
	}

	var candidatos []models.CandidatoVinculo
	for _, fila := range tabla.Filas {
		nombreArchivo := ingestion.SafeStrip(fila.Get(ColNombreCompleto))
		if nombreArchivo == "" {
			continue
		}

		mejor, confianza := mejorCoincidencia(nombreArchivo, profesores)
		if mejor == nil || confianza < umbralConfianza {
			continue
		}
		candidatos = append(candidatos, models.CandidatoVinculo{
			ProfesorID:     mejor.ID,
			NombreProfesor: strings.TrimSpace(mejor.Nombres + " " + mejor.Apellidos),
			NombreArchivo:  nombreArchivo,
			TipoArchivo:    ingestion.SafeStrip(fila.Get(ColTipo)),
			Dedicacion:     dedicacionDe(fila.Get(ColDedicacion)),
			Confianza:      confianza,
		})
	}
	return candidatos, nil
}

// AplicarVinculos aplica el conjunto de decisiones sobre los candidatos
// propuestos: los aprobados actualizan el tipo y la dedicación del profesor.
// Las fallas individuales se acumulan en el resultado sin detener el resto.
func AplicarVinculos(db *gorm.DB, candidatos []models.CandidatoVinculo, decisiones []models.DecisionVinculo) *models.ResultadoVinculacion {
	aprobados := make(map[uint]bool, len(decisiones))
	for _, d := range decisiones {
		aprobados[d.ProfesorID] = d.Aprobado
	}

	resultado := &models.ResultadoVinculacion{}
	for _, candidato := range candidatos {
		if !aprobados[candidato.ProfesorID] {
			continue
		}
		previo, err := functions.ActualizarTipoProfesor(db, candidato.ProfesorID, candidato.TipoArchivo, candidato.Dedicacion)
		if err != nil {
			resultado.Errores = append(resultado.Errores,
				fmt.Sprintf("profesor %d (%s): %v", candidato.ProfesorID, candidato.NombreArchivo, err))
			continue
		}
		resultado.Actualizados++
		resultado.Cambios = append(resultado.Cambios, models.CambioProfesor{
			ProfesorID:     candidato.ProfesorID,
			NombreProfesor: candidato.NombreProfesor,
			TipoAnterior:   previo.Tipo,
			TipoNuevo:      candidato.TipoArchivo,
		})
	}
	return resultado
}

// mejorCoincidencia retorna el profesor más parecido al nombre dado y su
// confianza (1 es coincidencia exacta tras normalizar).
func mejorCoincidencia(nombre string, profesores []models.Profesor) (*models.Profesor, float64) {
	objetivo := plegarNombre(nombre)

	var mejor *models.Profesor
	mejorConfianza := 0.0
	for i := range profesores {
		p := &profesores[i]
		formas := []string{
			plegarNombre(p.Nombres + " " + p.Apellidos),
			plegarNombre(p.Apellidos + " " + p.Nombres),
		}
		for _, forma := range formas {
			confianza := similitud(objetivo, forma)
			if confianza > mejorConfianza {
				mejorConfianza = confianza
				mejor = p
			}
		}
	}
	return mejor, mejorConfianza
}

// similitud convierte la distancia de Levenshtein en un puntaje 0..1.
func similitud(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	distancia := fuzzy.LevenshteinDistance(a, b)
	mayor := len([]rune(a))
	if l := len([]rune(b)); l > mayor {
		mayor = l
	}
	if mayor == 0 {
		return 0
	}
	confianza := 1 - float64(distancia)/float64(mayor)
	if confianza < 0 {
		return 0
	}
	return confianza
}

var plegador = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func plegarNombre(nombre string) string {
	sinTildes, _, err := transform.String(plegador, nombre)
	if err != nil {
		sinTildes = nombre
	}
	return strings.Join(strings.Fields(strings.ToLower(sinTildes)), " ")
}

func dedicacionDe(valor string) float64 {
	limpio := strings.ReplaceAll(ingestion.SafeStrip(valor), ",", ".")
	if limpio == "" {
		return 0
	}
	d, err := strconv.ParseFloat(limpio, 64)
	if err != nil {
		return 0
	}
	return d
}
