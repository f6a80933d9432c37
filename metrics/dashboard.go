package metrics

import (
	"sort"

	"gorm.io/gorm"

	"horarios-vicedecanatura/functions"
	"horarios-vicedecanatura/models"
)

// Tamaños estándar fijos para los niveles básicos e intermedios (1 y 2). Los
// niveles avanzados (3 y 4) usan el Tamaño Estándar calculado por
// departamento.
const (
	TamanoFijoTeorica  = 30.0
	TamanoFijoPractica = 20.0
)

type claveDashboard struct {
	departamento string
	nivel        int
	tipoProfesor string
	tipoSesion   string
}

type acumuladoDashboard struct {
	secciones  map[int]bool
	profesores map[uint]bool
	// sesiones ya sumadas al grupo: una sesión compartida por varios
	// profesores del mismo grupo aporta horas y PER una sola vez
	sesiones     map[string]bool
	horasTotales float64
	perTotal     float64
}

// CalcularDashboard consolida secciones y sesiones por departamento, nivel,
// tipo de profesor y clase de sesión: horas totales y promedio por sección,
// PER total y "secciones a tamaño estándar" (PER total dividido por el
// tamaño estándar aplicable). Sin sesiones calificables retorna una lista
// vacía, no un error.
func CalcularDashboard(db *gorm.DB) ([]models.FilaDashboard, error) {
	tamanos, err := CalcularTamanosEstandar(db)
	if err != nil {
		return nil, err
	}
	promedios := make(map[claveTamano]float64, len(tamanos))
	for _, t := range tamanos {
		promedios[claveTamano{t.Departamento, t.Tipo}] = t.Promedio
	}

	sesiones, err := functions.SesionesParaCalculo(db, nil, nil)
	if err != nil {
		return nil, err
	}

	grupos := make(map[claveDashboard]*acumuladoDashboard)
	for i := range sesiones {
		sesion := &sesiones[i]
		if sesion.Seccion == nil || sesion.Seccion.Materia == nil || sesion.Seccion.Materia.Departamento == nil {
			continue
		}
		clase := ClaseTipoHorario(sesion.TipoHorario)
		if clase == "" {
			clase = "OTRA"
		}

		profesores := sesion.Profesores
		if len(profesores) == 0 {
			// Secciones sin docente asignado se consolidan igual
			profesores = []*models.Profesor{{Tipo: "SIN DEFINIR"}}
		}
		for _, profesor := range profesores {
			clave := claveDashboard{
				departamento: sesion.Seccion.Materia.Departamento.Nombre,
				nivel:        sesion.Seccion.Materia.Nivel,
				tipoProfesor: profesor.Tipo,
				tipoSesion:   clase,
			}
			grupo := grupos[clave]
			if grupo == nil {
				grupo = &acumuladoDashboard{
					secciones:  make(map[int]bool),
					profesores: make(map[uint]bool),
					sesiones:   make(map[string]bool),
				}
				grupos[clave] = grupo
			}
			grupo.secciones[sesion.SeccionNRC] = true
			if profesor.ID != 0 {
				grupo.profesores[profesor.ID] = true
			}
			if !grupo.sesiones[sesion.ID] {
				grupo.sesiones[sesion.ID] = true
				grupo.horasTotales += sesion.DuracionHoras
				grupo.perTotal += sesion.PER
			}
		}
	}

	filas := make([]models.FilaDashboard, 0, len(grupos))
	for clave, grupo := range grupos {
		fila := models.FilaDashboard{
			Departamento: clave.departamento,
			Nivel:        clave.nivel,
			TipoProfesor: clave.tipoProfesor,
			TipoSesion:   clave.tipoSesion,
			Secciones:    len(grupo.secciones),
			Profesores:   len(grupo.profesores),
			HorasTotales: grupo.horasTotales,
			PERTotal:     grupo.perTotal,
		}
		if fila.Secciones > 0 {
			fila.HorasPromedioSeccion = grupo.horasTotales / float64(fila.Secciones)
		}
		if tamano := tamanoAplicable(clave, promedios); tamano > 0 {
			fila.SeccionesTamanoEstandar = grupo.perTotal / tamano
		}
		filas = append(filas, fila)
	}

	sort.Slice(filas, func(i, j int) bool {
		a, b := filas[i], filas[j]
		if a.Departamento != b.Departamento {
			return a.Departamento < b.Departamento
		}
		if a.Nivel != b.Nivel {
			return a.Nivel < b.Nivel
		}
		if a.TipoProfesor != b.TipoProfesor {
			return a.TipoProfesor < b.TipoProfesor
		}
		return a.TipoSesion < b.TipoSesion
	})
	return filas, nil
}

// tamanoAplicable retorna el denominador de "secciones a tamaño estándar":
// constantes fijas para los niveles 1 y 2, el Tamaño Estándar calculado para
// los niveles 3 y 4, y cero (sin cálculo) en cualquier otro caso.
func tamanoAplicable(clave claveDashboard, promedios map[claveTamano]float64) float64 {
	switch {
	case clave.nivel == 1 || clave.nivel == 2:
		if clave.tipoSesion == ClaseTeorica {
			return TamanoFijoTeorica
		}
		if clave.tipoSesion == ClasePractica {
			return TamanoFijoPractica
		}
	case clave.nivel == 3 || clave.nivel == 4:
		return promedios[claveTamano{clave.departamento, clave.tipoSesion}]
	}
	return 0
}
