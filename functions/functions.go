package functions

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"horarios-vicedecanatura/models"
)

// EnsureDepartamento busca un departamento por nombre y lo crea si no existe.
// El nombre llega ya normalizado desde la importación.
func EnsureDepartamento(db *gorm.DB, nombre string) (*models.Departamento, error) {
	if strings.TrimSpace(nombre) == "" {
		return nil, errors.New("el nombre del departamento es requerido")
	}

	var departamento models.Departamento
	err := db.Where("nombre = ?", nombre).First(&departamento).Error
	if err == nil {
		return &departamento, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("error consultando departamento: " + err.Error())
	}

	departamento = models.Departamento{Nombre: nombre}
	if err := db.Create(&departamento).Error; err != nil {
		return nil, errors.New("error creando departamento " + nombre + ": " + err.Error())
	}
	return &departamento, nil
}

// EnsureProfesor busca un profesor por el par (nombres, apellidos) y lo crea
// si no existe, asociándolo al departamento dado. Si ya existe y el
// departamento es nuevo para él, solo agrega la asociación: nunca se duplica
// el registro del profesor.
func EnsureProfesor(db *gorm.DB, nombres, apellidos string, departamento *models.Departamento) (*models.Profesor, error) {
	if strings.TrimSpace(nombres) == "" && strings.TrimSpace(apellidos) == "" {
		return nil, errors.New("el nombre del profesor es requerido")
	}

	var profesor models.Profesor
	err := db.Preload("Departamentos").
		Where("nombres = ? AND apellidos = ?", nombres, apellidos).
		First(&profesor).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		profesor = models.Profesor{Nombres: nombres, Apellidos: apellidos}
		if err := db.Create(&profesor).Error; err != nil {
			return nil, errors.New("error creando profesor: " + err.Error())
		}
		if departamento != nil {
			if err := db.Model(&profesor).Association("Departamentos").Append(departamento); err != nil {
				return nil, errors.New("error asociando profesor con departamento: " + err.Error())
			}
		}
		return &profesor, nil
	}
	if err != nil {
		return nil, errors.New("error consultando profesor: " + err.Error())
	}

	if departamento != nil {
		yaAsociado := false
		for _, d := range profesor.Departamentos {
			if d.ID == departamento.ID {
				yaAsociado = true
				break
			}
		}
		if !yaAsociado {
			if err := db.Model(&profesor).Association("Departamentos").Append(departamento); err != nil {
				return nil, errors.New("error agregando departamento al profesor: " + err.Error())
			}
		}
	}
	return &profesor, nil
}

// AgregarDepartamentoAProfesor agrega una asociación profesor-departamento
// por identificadores lógicos. Es idempotente.
func AgregarDepartamentoAProfesor(db *gorm.DB, profesorID uint, departamentoID uint) error {
	var profesor models.Profesor
	if err := db.First(&profesor, profesorID).Error; err != nil {
		return errors.New("profesor no encontrado")
	}
	var departamento models.Departamento
	if err := db.First(&departamento, departamentoID).Error; err != nil {
		return errors.New("departamento no encontrado")
	}
	if err := db.Model(&profesor).Association("Departamentos").Append(&departamento); err != nil {
		return errors.New("error agregando departamento al profesor: " + err.Error())
	}
	return nil
}

// EnsureMateria busca una materia por código y la crea si no existe. La
// primera aparición fija los campos descriptivos; llamadas posteriores con el
// mismo código no los sobrescriben.
func EnsureMateria(db *gorm.DB, materia models.Materia) (*models.Materia, error) {
	if materia.Codigo == "" {
		return nil, errors.New("el código de la materia es requerido")
	}

	var existente models.Materia
	err := db.Where("codigo = ?", materia.Codigo).First(&existente).Error
	if err == nil {
		return &existente, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("error consultando materia: " + err.Error())
	}

	if err := db.Create(&materia).Error; err != nil {
		return nil, errors.New("error creando materia " + materia.Codigo + ": " + err.Error())
	}
	return &materia, nil
}

// GetMateriaPorCodigo obtiene una materia con su departamento.
func GetMateriaPorCodigo(db *gorm.DB, codigo string) (*models.Materia, error) {
	var materia models.Materia
	if err := db.Preload("Departamento").Where("codigo = ?", codigo).First(&materia).Error; err != nil {
		return nil, errors.New("materia no encontrada: " + codigo)
	}
	return &materia, nil
}

// GetSeccionPorNRC obtiene una sección con sus profesores. La lista
// ProfesorIDs se regenera desde la tabla de unión: esa tabla es la única
// fuente de verdad de la relación.
func GetSeccionPorNRC(db *gorm.DB, nrc int) (*models.Seccion, error) {
	var seccion models.Seccion
	if err := db.Preload("Profesores").Where("nrc = ?", nrc).First(&seccion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, errors.New("error consultando sección: " + err.Error())
	}
	regenerarProfesorIDs(&seccion)
	return &seccion, nil
}

// CrearSeccion inserta una sección nueva con su lista inicial de profesores.
func CrearSeccion(db *gorm.DB, seccion models.Seccion, profesores []*models.Profesor) (*models.Seccion, error) {
	if seccion.NRC <= 0 {
		return nil, fmt.Errorf("NRC inválido: %d", seccion.NRC)
	}
	if err := db.Create(&seccion).Error; err != nil {
		return nil, errors.New("error creando sección: " + err.Error())
	}
	if len(profesores) > 0 {
		if err := db.Model(&seccion).Association("Profesores").Append(profesores); err != nil {
			return nil, errors.New("error asociando profesores con la sección: " + err.Error())
		}
	}
	regenerarProfesorIDs(&seccion)
	return &seccion, nil
}

// AgregarProfesoresASeccion agrega a la sección los profesores que aún no
// estén asociados. Nunca elimina profesores ya registrados.
func AgregarProfesoresASeccion(db *gorm.DB, nrc int, profesores []*models.Profesor) (*models.Seccion, error) {
	seccion, err := GetSeccionPorNRC(db, nrc)
	if err != nil {
		return nil, err
	}

	existentes := make(map[uint]bool, len(seccion.Profesores))
	for _, p := range seccion.Profesores {
		existentes[p.ID] = true
	}

	var nuevos []*models.Profesor
	for _, p := range profesores {
		if !existentes[p.ID] {
			nuevos = append(nuevos, p)
			existentes[p.ID] = true
		}
	}
	if len(nuevos) > 0 {
		if err := db.Model(seccion).Association("Profesores").Append(nuevos); err != nil {
			return nil, errors.New("error agregando profesores a la sección: " + err.Error())
		}
		seccion.Profesores = append(seccion.Profesores, nuevos...)
	}
	regenerarProfesorIDs(seccion)
	return seccion, nil
}

// ActualizarInscritos actualiza el conteo de inscritos de una sección.
func ActualizarInscritos(db *gorm.DB, nrc int, inscritos int) error {
	result := db.Model(&models.Seccion{}).Where("nrc = ?", nrc).Update("inscritos", inscritos)
	if result.Error != nil {
		return errors.New("error actualizando inscritos: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("sección %d no encontrada", nrc)
	}
	return nil
}

// CrearSesion inserta una sesión con sus profesores asociados. Cada fila del
// archivo fuente produce exactamente una sesión.
func CrearSesion(db *gorm.DB, sesion models.Sesion, profesores []*models.Profesor) (*models.Sesion, error) {
	if sesion.SeccionNRC <= 0 {
		return nil, fmt.Errorf("la sesión requiere un NRC de sección válido, recibido %d", sesion.SeccionNRC)
	}
	if err := db.Create(&sesion).Error; err != nil {
		return nil, errors.New("error creando sesión: " + err.Error())
	}
	if len(profesores) > 0 {
		if err := db.Model(&sesion).Association("Profesores").Append(profesores); err != nil {
			return nil, errors.New("error asociando profesores con la sesión: " + err.Error())
		}
	}
	return &sesion, nil
}

// SesionesParaCalculo obtiene las sesiones cuya materia está en los niveles
// dados y cuyo tipo de horario está en la lista dada, con su sección y
// materia precargadas. Una lista vacía de tipos no filtra por tipo.
func SesionesParaCalculo(db *gorm.DB, niveles []int, tipos []string) ([]models.Sesion, error) {
	query := db.Model(&models.Sesion{}).
		Joins("JOIN secciones ON secciones.nrc = sesiones.seccion_nrc").
		Joins("JOIN materias ON materias.codigo = secciones.materia_codigo").
		Preload("Seccion").Preload("Seccion.Materia").
		Preload("Seccion.Materia.Departamento").Preload("Profesores")

	if len(niveles) > 0 {
		query = query.Where("materias.nivel IN ?", niveles)
	}
	if len(tipos) > 0 {
		query = query.Where("sesiones.tipo_horario IN ?", tipos)
	}

	var sesiones []models.Sesion
	if err := query.Find(&sesiones).Error; err != nil {
		return nil, errors.New("error consultando sesiones para cálculo: " + err.Error())
	}
	return sesiones, nil
}

// SeccionesPorListaCruzada obtiene todas las secciones que comparten un
// código de lista cruzada. Sus inscritos deben combinarse, no contarse dos
// veces, en los cálculos de PER.
func SeccionesPorListaCruzada(db *gorm.DB, codigo string) ([]models.Seccion, error) {
	var secciones []models.Seccion
	if err := db.Where("lista_cruzada = ?", codigo).Find(&secciones).Error; err != nil {
		return nil, errors.New("error consultando lista cruzada: " + err.Error())
	}
	return secciones, nil
}

// ActualizarPERMasivo aplica en un lote las actualizaciones de PER
// pendientes. Retorna cuántas fallaron; una falla individual no detiene el
// lote.
func ActualizarPERMasivo(db *gorm.DB, actualizaciones []models.ActualizacionPER) (int, error) {
	fallidas := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, act := range actualizaciones {
			result := tx.Model(&models.Sesion{}).
				Where("id = ?", act.SesionID).
				Update("per", act.ValorNuevo)
			if result.Error != nil || result.RowsAffected == 0 {
				fallidas++
			}
		}
		return nil
	})
	if err != nil {
		return len(actualizaciones), errors.New("error aplicando actualizaciones de PER: " + err.Error())
	}
	return fallidas, nil
}

// ResetPER pone en cero el PER de todas las sesiones cuyas materias estén en
// los niveles dados.
func ResetPER(db *gorm.DB, niveles []int) (int64, error) {
	if len(niveles) == 0 {
		return 0, nil
	}
	result := db.Model(&models.Sesion{}).
		Where("seccion_nrc IN (?)",
			db.Model(&models.Seccion{}).Select("nrc").
				Where("materia_codigo IN (?)",
					db.Model(&models.Materia{}).Select("codigo").Where("nivel IN ?", niveles))).
		Update("per", 0)
	if result.Error != nil {
		return 0, errors.New("error reiniciando PER: " + result.Error.Error())
	}
	return result.RowsAffected, nil
}

// ConteosTablas retorna el número de registros por tabla, usado como
// estadística final de una importación.
func ConteosTablas(db *gorm.DB) map[string]int64 {
	conteos := make(map[string]int64)
	var n int64

	db.Model(&models.Departamento{}).Count(&n)
	conteos["departamentos"] = n
	db.Model(&models.Profesor{}).Count(&n)
	conteos["profesores"] = n
	db.Model(&models.Materia{}).Count(&n)
	conteos["materias"] = n
	db.Model(&models.Seccion{}).Count(&n)
	conteos["secciones"] = n
	db.Model(&models.Sesion{}).Count(&n)
	conteos["sesiones"] = n

	return conteos
}

// ActualizarTipoProfesor actualiza el tipo (y opcionalmente la dedicación) de
// un profesor vinculado desde el archivo de datos personales. Retorna el
// estado del profesor antes de la actualización.
func ActualizarTipoProfesor(db *gorm.DB, profesorID uint, tipo string, dedicacion float64) (*models.Profesor, error) {
	var profesor models.Profesor
	if err := db.First(&profesor, profesorID).Error; err != nil {
		return nil, errors.New("profesor no encontrado")
	}
	anterior := profesor

	campos := map[string]interface{}{}
	if tipo != "" {
		campos["tipo"] = tipo
	}
	if dedicacion > 0 {
		campos["dedicacion"] = dedicacion
	}
	if len(campos) > 0 {
		if err := db.Model(&profesor).Updates(campos).Error; err != nil {
			return nil, errors.New("error actualizando profesor: " + err.Error())
		}
	}
	return &anterior, nil
}

// GetTodosProfesores obtiene todos los profesores con sus departamentos.
func GetTodosProfesores(db *gorm.DB) ([]models.Profesor, error) {
	var profesores []models.Profesor
	if err := db.Preload("Departamentos").Find(&profesores).Error; err != nil {
		return nil, errors.New("error consultando profesores: " + err.Error())
	}
	return profesores, nil
}

func regenerarProfesorIDs(seccion *models.Seccion) {
	ids := make([]uint, 0, len(seccion.Profesores))
	for _, p := range seccion.Profesores {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	seccion.ProfesorIDs = ids
}
