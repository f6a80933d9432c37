package metrics

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"horarios-vicedecanatura/functions"
	"horarios-vicedecanatura/models"
)

// Clases de cálculo por tipo de horario.
const (
	ClaseTeorica  = "TEORICA"
	ClasePractica = "PRACTICA"
)

// Modos de combinación de inscritos.
const (
	ModoAgrupada   = "agrupada"
	ModoIndividual = "individual"
)

var tiposTeoricos = map[string]bool{
	"MAGISTRAL": true,
	"TEORICA":   true,
}

var tiposPracticos = map[string]bool{
	"LABORATORIO":  true,
	"TALLER Y PBL": true,
}

// TiposCalculo son los tipos de horario que participan en los cálculos de
// PER y Tamaño Estándar.
var TiposCalculo = []string{"MAGISTRAL", "TEORICA", "LABORATORIO", "TALLER Y PBL"}

// ClaseTipoHorario clasifica un tipo de horario como teórico o práctico.
// Retorna cadena vacía para tipos que no pertenecen a ninguna clase de
// cálculo.
func ClaseTipoHorario(tipo string) string {
	switch {
	case tiposTeoricos[tipo]:
		return ClaseTeorica
	case tiposPracticos[tipo]:
		return ClasePractica
	default:
		return ""
	}
}

// gruposListaCruzada suma los inscritos de todas las secciones por código de
// lista cruzada. Las secciones de una lista cruzada comparten el mismo grupo
// de estudiantes: sus inscritos se combinan, no se cuentan dos veces.
func gruposListaCruzada(db *gorm.DB) (map[string]int, error) {
	var secciones []models.Seccion
	if err := db.Where("lista_cruzada <> ''").Find(&secciones).Error; err != nil {
		return nil, errors.New("error consultando listas cruzadas: " + err.Error())
	}
	grupos := make(map[string]int)
	for _, s := range secciones {
		grupos[s.ListaCruzada] += s.Inscritos
	}
	return grupos, nil
}

// inscritosCombinados retorna los inscritos a usar para una sesión: la suma
// del grupo de lista cruzada si la sección pertenece a uno, o los inscritos
// propios de la sección en caso contrario.
func inscritosCombinados(seccion *models.Seccion, grupos map[string]int) (int, string) {
	if seccion == nil {
		return 0, ModoIndividual
	}
	if seccion.ListaCruzada != "" {
		if total, ok := grupos[seccion.ListaCruzada]; ok {
			return total, ModoAgrupada
		}
	}
	return seccion.Inscritos, ModoIndividual
}

// perMagistral aplica la fórmula por tramos para sesiones magistrales y
// teóricas.
func perMagistral(inscritos int) float64 {
	n := float64(inscritos)
	switch {
	case inscritos <= 10:
		return 10
	case inscritos <= 60:
		return n
	case inscritos <= 120:
		return 60 + (n-60)/2
	default:
		return 90
	}
}

// perLaboratorio aplica la fórmula por tramos para laboratorios y talleres.
func perLaboratorio(inscritos int) float64 {
	n := float64(inscritos)
	switch {
	case inscritos <= 6:
		return 6
	case inscritos <= 25:
		return n
	default:
		return 90
	}
}

// PERPorTramos calcula el PER de niveles básicos para un tipo de horario y
// un número de inscritos. Tipos fuera de las clases de cálculo reciben el
// valor degenerado 1.
func PERPorTramos(tipo string, inscritos int) float64 {
	switch ClaseTipoHorario(tipo) {
	case ClaseTeorica:
		return perMagistral(inscritos)
	case ClasePractica:
		return perLaboratorio(inscritos)
	default:
		return 1
	}
}

// CalcularPERBasico calcula el PER de todas las sesiones de materias de
// niveles 1 y 2 y aplica en lote las actualizaciones cuyo valor calculado
// difiere del almacenado. La ausencia de sesiones calificables retorna un
// resultado en ceros, no un error.
func CalcularPERBasico(db *gorm.DB, logger *logrus.Logger) (*models.ResultadoPER, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	sesiones, err := functions.SesionesParaCalculo(db, []int{1, 2}, nil)
	if err != nil {
		return nil, err
	}
	grupos, err := gruposListaCruzada(db)
	if err != nil {
		return nil, err
	}

	resultado := &models.ResultadoPER{}
	for _, sesion := range sesiones {
		if sesion.TipoHorario == "" {
			continue
		}
		resultado.SesionesEvaluadas++

		inscritos, modo := inscritosCombinados(sesion.Seccion, grupos)
		valor := PERPorTramos(sesion.TipoHorario, inscritos)
		if valor == sesion.PER {
			continue
		}
		resultado.Actualizaciones = append(resultado.Actualizaciones, models.ActualizacionPER{
			SesionID:      sesion.ID,
			ValorAnterior: sesion.PER,
			ValorNuevo:    valor,
			Modo:          modo,
		})
	}

	fallidas, err := functions.ActualizarPERMasivo(db, resultado.Actualizaciones)
	if err != nil {
		return nil, err
	}
	resultado.Fallidas = fallidas
	resultado.Actualizadas = len(resultado.Actualizaciones) - fallidas

	logger.Infof("PER niveles 1-2: %d sesiones evaluadas, %d actualizadas, %d fallidas",
		resultado.SesionesEvaluadas, resultado.Actualizadas, resultado.Fallidas)
	return resultado, nil
}

// ReiniciarPER pone en cero el PER de las sesiones de los niveles dados.
func ReiniciarPER(db *gorm.DB, niveles []int) (int64, error) {
	return functions.ResetPER(db, niveles)
}
