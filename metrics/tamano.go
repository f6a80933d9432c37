package metrics

import (
	"sort"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"horarios-vicedecanatura/functions"
	"horarios-vicedecanatura/models"
)

type claveTamano struct {
	departamento string
	clase        string
}

// CalcularTamanosEstandar calcula el tamaño estándar por departamento y
// clase de curso: el promedio simple de inscritos sobre las secciones
// calificables de niveles 3 y 4 (total de inscritos dividido por total de
// secciones, sin ponderar por sesiones).
func CalcularTamanosEstandar(db *gorm.DB) ([]models.TamanoEstandar, error) {
	sesiones, err := functions.SesionesParaCalculo(db, []int{3, 4}, TiposCalculo)
	if err != nil {
		return nil, err
	}

	// Cada sección cuenta una sola vez por clase, aunque tenga varias
	// sesiones.
	vistas := make(map[claveTamano]map[int]bool)
	inscritos := make(map[claveTamano]int)
	for _, sesion := range sesiones {
		if sesion.Seccion == nil || sesion.Seccion.Materia == nil || sesion.Seccion.Materia.Departamento == nil {
			continue
		}
		clave := claveTamano{
			departamento: sesion.Seccion.Materia.Departamento.Nombre,
			clase:        ClaseTipoHorario(sesion.TipoHorario),
		}
		if clave.clase == "" {
			continue
		}
		if vistas[clave] == nil {
			vistas[clave] = make(map[int]bool)
		}
		if vistas[clave][sesion.SeccionNRC] {
			continue
		}
		vistas[clave][sesion.SeccionNRC] = true
		inscritos[clave] += sesion.Seccion.Inscritos
	}

	var tamanos []models.TamanoEstandar
	for clave, total := range inscritos {
		numSecciones := len(vistas[clave])
		if numSecciones == 0 {
			continue
		}
		tamanos = append(tamanos, models.TamanoEstandar{
			Departamento:   clave.departamento,
			Tipo:           clave.clase,
			TotalInscritos: total,
			TotalSecciones: numSecciones,
			Promedio:       float64(total) / float64(numSecciones),
		})
	}
	sort.Slice(tamanos, func(i, j int) bool {
		if tamanos[i].Departamento == tamanos[j].Departamento {
			return tamanos[i].Tipo < tamanos[j].Tipo
		}
		return tamanos[i].Departamento < tamanos[j].Departamento
	})
	return tamanos, nil
}

// CalcularPERAvanzado calcula el PER de las sesiones de niveles 3 y 4 como
// inscritos (combinados por lista cruzada) divididos por el tamaño estándar
// del departamento y la clase: una razón de "secciones a tamaño estándar",
// no la tabla por tramos de los niveles básicos. Grupos sin tamaño estándar
// definido se omiten.
func CalcularPERAvanzado(db *gorm.DB, logger *logrus.Logger) (*models.ResultadoPER, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	tamanos, err := CalcularTamanosEstandar(db)
	if err != nil {
		return nil, err
	}
	promedios := make(map[claveTamano]float64, len(tamanos))
	for _, t := range tamanos {
		promedios[claveTamano{t.Departamento, t.Tipo}] = t.Promedio
	}

	sesiones, err := functions.SesionesParaCalculo(db, []int{3, 4}, TiposCalculo)
	if err != nil {
		return nil, err
	}
	grupos, err := gruposListaCruzada(db)
	if err != nil {
		return nil, err
	}

	resultado := &models.ResultadoPER{}
	for _, sesion := range sesiones {
		if sesion.Seccion == nil || sesion.Seccion.Materia == nil || sesion.Seccion.Materia.Departamento == nil {
			continue
		}
		clave := claveTamano{
			departamento: sesion.Seccion.Materia.Departamento.Nombre,
			clase:        ClaseTipoHorario(sesion.TipoHorario),
		}
		promedio := promedios[clave]
		if promedio == 0 {
			continue
		}
		resultado.SesionesEvaluadas++

		inscritos, modo := inscritosCombinados(sesion.Seccion, grupos)
		valor := float64(inscritos) / promedio
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

	logger.Infof("PER niveles 3-4: %d sesiones evaluadas, %d actualizadas, %d fallidas",
		resultado.SesionesEvaluadas, resultado.Actualizadas, resultado.Fallidas)
	return resultado, nil
}
