package database

import (
	"log"

	"gorm.io/gorm"
	"horarios-vicedecanatura/models"
)

// RunMigrations ejecuta las migraciones de la base de datos
func RunMigrations(db *gorm.DB) {
	// Auto-migrar los modelos
	err := db.AutoMigrate(
		&models.Departamento{},
		&models.Profesor{},
		&models.Materia{},
		&models.Seccion{},
		&models.Sesion{},
	)
	if err != nil {
		log.Fatalf("Error ejecutando migraciones: %v", err)
	}

	// Crear índices adicionales si son necesarios
	// Por ejemplo, para búsquedas frecuentes durante la importación y los cálculos
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_secciones_lista_cruzada ON secciones(lista_cruzada);").Error; err != nil {
		log.Printf("Error creando índice: %v", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sesiones_seccion_nrc ON sesiones(seccion_nrc);").Error; err != nil {
		log.Printf("Error creando índice: %v", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sesiones_tipo_horario ON sesiones(tipo_horario);").Error; err != nil {
		log.Printf("Error creando índice: %v", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_materias_nivel ON materias(nivel);").Error; err != nil {
		log.Printf("Error creando índice: %v", err)
	}
}
