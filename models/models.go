package models

// Departamento agrupa materias y profesores. Se crea la primera vez que
// aparece en un archivo de horarios y nunca se elimina automáticamente.
type Departamento struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Nombre     string      `gorm:"uniqueIndex;not null" json:"nombre"`
	Profesores []*Profesor `gorm:"many2many:profesor_departamentos;" json:"profesores,omitempty"`
}

// Profesor identifica a un docente por el par (nombres, apellidos),
// independiente del departamento. Un profesor visto en varios departamentos
// acumula asociaciones en lugar de duplicarse.
type Profesor struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Nombres       string          `gorm:"index:idx_profesores_nombre_completo,unique;not null" json:"nombres"`
	Apellidos     string          `gorm:"index:idx_profesores_nombre_completo,unique" json:"apellidos"`
	Tipo          string          `gorm:"default:'SIN DEFINIR'" json:"tipo"`
	Dedicacion    float64         `json:"dedicacion"`
	Departamentos []*Departamento `gorm:"many2many:profesor_departamentos;" json:"departamentos,omitempty"`
}

// Materia es un curso identificado por su código único. La primera aparición
// en un archivo fija los campos descriptivos; filas posteriores con el mismo
// código no los sobrescriben.
type Materia struct {
	Codigo           string        `gorm:"primaryKey" json:"codigo"`
	Titulo           string        `json:"titulo"`
	Creditos         int           `json:"creditos"`
	Nivel            int           `json:"nivel"`
	ModoCalificacion string        `json:"modo_calificacion"`
	Campus           string        `json:"campus"`
	Periodo          string        `json:"periodo"`
	DepartamentoID   uint          `gorm:"index" json:"departamento_id"`
	Departamento     *Departamento `json:"departamento,omitempty"`
}

// Seccion es una oferta concreta de una materia, identificada globalmente por
// su NRC. Filas repetidas con el mismo NRC acumulan profesores adicionales en
// lugar de duplicar la sección.
//
// ProfesorIDs es una vista derivada de la tabla de unión seccion_profesores;
// se regenera al leer y nunca se escribe de forma independiente.
type Seccion struct {
	NRC           int         `gorm:"primaryKey;autoIncrement:false" json:"nrc"`
	Etiqueta      string      `json:"etiqueta"`
	Cupo          int         `json:"cupo"`
	Inscritos     int         `json:"inscritos"`
	MateriaCodigo string      `gorm:"index;not null" json:"materia_codigo"`
	Materia       *Materia    `gorm:"foreignKey:MateriaCodigo;references:Codigo" json:"materia,omitempty"`
	ListaCruzada  string      `gorm:"index" json:"lista_cruzada"`
	Profesores    []*Profesor `gorm:"many2many:seccion_profesores;" json:"profesores,omitempty"`
	ProfesorIDs   []uint      `gorm:"-" json:"profesor_ids,omitempty"`
}

// TableName fuerza el nombre de tabla en español.
func (Departamento) TableName() string { return "departamentos" }

// TableName fuerza el nombre de tabla en español.
func (Profesor) TableName() string { return "profesores" }

// TableName fuerza el nombre de tabla en español.
func (Materia) TableName() string { return "materias" }

// TableName fuerza el nombre de tabla en español.
func (Seccion) TableName() string { return "secciones" }

// Sesion es un encuentro semanal de una sección. Se crea exactamente una por
// fila del archivo fuente: no se deduplica, cada fila es un encuentro
// distinto.
type Sesion struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	TipoHorario   string      `gorm:"index" json:"tipo_horario"`
	HoraInicio    string      `json:"hora_inicio"`
	HoraFin       string      `json:"hora_fin"`
	DuracionHoras float64     `json:"duracion_horas"`
	Edificio      string      `json:"edificio"`
	Salon         string      `json:"salon"`
	AtributoSalon string      `json:"atributo_salon"`
	Dias          string      `json:"dias"`
	SeccionNRC    int         `gorm:"index;not null" json:"seccion_nrc"`
	Seccion       *Seccion    `gorm:"foreignKey:SeccionNRC;references:NRC" json:"seccion,omitempty"`
	PER           float64     `json:"per"`
	Profesores    []*Profesor `gorm:"many2many:sesion_profesores;" json:"profesores,omitempty"`
}

// TableName fuerza el nombre de tabla en español.
func (Sesion) TableName() string { return "sesiones" }
