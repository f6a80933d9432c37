package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"horarios-vicedecanatura/config"
	"horarios-vicedecanatura/database"
	"horarios-vicedecanatura/ingestion"
	"horarios-vicedecanatura/linking"
	"horarios-vicedecanatura/metrics"
	"horarios-vicedecanatura/models"
)

func main() {
	if err := raiz().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func abrirDB() (*gorm.DB, error) {
	db, err := database.Connect(config.Use().Database)
	if err != nil {
		return nil, err
	}
	database.RunMigrations(db)
	return db, nil
}

func raiz() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "horarios",
		Short: "Importación de horarios académicos y cálculo de PER / Tamaño Estándar",
	}
	cmd.AddCommand(cmdValidar(), cmdImportar(), cmdMetricas(), cmdVincular())
	return cmd
}

func cmdValidar() *cobra.Command {
	return &cobra.Command{
		Use:   "validar <archivo>",
		Short: "Revisa columnas y calidad de datos antes de importar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resultado := ingestion.Validar(args[0])
			for _, e := range resultado.Errores {
				fmt.Printf("ERROR: %s\n", e)
			}
			for _, a := range resultado.Advertencias {
				fmt.Printf("Advertencia: %s\n", a)
			}
			if !resultado.Valido {
				return fmt.Errorf("el archivo no es válido para importar")
			}
			fmt.Printf("Archivo válido: %d filas\n", resultado.NumFilas)
			return nil
		},
	}
}

func cmdImportar() *cobra.Command {
	var interactivo bool
	var mostrarProgreso bool

	cmd := &cobra.Command{
		Use:   "importar <archivo>",
		Short: "Importa un archivo de horarios a la base de datos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Use()
			db, err := abrirDB()
			if err != nil {
				return err
			}

			opts := ingestion.OpcionesImportacion{Logger: cfg.Logger()}
			if interactivo || cfg.Interactivo {
				opts.Proveedor = &ingestion.ProveedorInteractivo{In: os.Stdin, Out: os.Stdout}
			}
			if mostrarProgreso {
				opts.Progreso = func(mensaje string) {
					fmt.Printf("\r%-60s", mensaje)
				}
			}

			resultado := ingestion.Procesar(db, args[0], opts)
			if mostrarProgreso {
				fmt.Println()
			}
			if !resultado.Exito {
				return fmt.Errorf("la importación falló: %s", resultado.Mensaje)
			}
			fmt.Println(resultado.Mensaje)
			for tabla, conteo := range resultado.Estadisticas {
				fmt.Printf("  %s: %d\n", tabla, conteo)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&interactivo, "interactivo", false, "preguntar por consola los nombres ambiguos")
	cmd.Flags().BoolVar(&mostrarProgreso, "progreso", false, "mostrar progreso fila a fila")
	return cmd
}

func cmdMetricas() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metricas",
		Short: "Calcula PER, Tamaño Estándar y el consolidado",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "per",
		Short: "Calcula y aplica el PER de niveles 1 y 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := abrirDB()
			if err != nil {
				return err
			}
			resultado, err := metrics.CalcularPERBasico(db, config.Use().Logger())
			if err != nil {
				return err
			}
			fmt.Printf("Sesiones evaluadas: %d, actualizadas: %d, fallidas: %d\n",
				resultado.SesionesEvaluadas, resultado.Actualizadas, resultado.Fallidas)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "avanzado",
		Short: "Calcula y aplica el PER de niveles 3 y 4 (tamaño estándar)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := abrirDB()
			if err != nil {
				return err
			}
			resultado, err := metrics.CalcularPERAvanzado(db, config.Use().Logger())
			if err != nil {
				return err
			}
			fmt.Printf("Sesiones evaluadas: %d, actualizadas: %d, fallidas: %d\n",
				resultado.SesionesEvaluadas, resultado.Actualizadas, resultado.Fallidas)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "tamano",
		Short: "Muestra el Tamaño Estándar por departamento y clase",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := abrirDB()
			if err != nil {
				return err
			}
			tamanos, err := metrics.CalcularTamanosEstandar(db)
			if err != nil {
				return err
			}
			for _, t := range tamanos {
				fmt.Printf("%-40s %-9s %4d secciones, %5d inscritos, promedio %.2f\n",
					t.Departamento, t.Tipo, t.TotalSecciones, t.TotalInscritos, t.Promedio)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Muestra el consolidado por departamento, nivel y tipo",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := abrirDB()
			if err != nil {
				return err
			}
			filas, err := metrics.CalcularDashboard(db)
			if err != nil {
				return err
			}
			for _, f := range filas {
				fmt.Printf("%-40s nivel %d %-12s %-9s %3d secciones, %3d profesores, %7.1f horas, PER %7.1f, a tamaño estándar %6.2f\n",
					f.Departamento, f.Nivel, f.TipoProfesor, f.TipoSesion,
					f.Secciones, f.Profesores, f.HorasTotales, f.PERTotal, f.SeccionesTamanoEstandar)
			}
			return nil
		},
	})

	var niveles []int
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Pone en cero el PER de los niveles indicados",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := abrirDB()
			if err != nil {
				return err
			}
			afectadas, err := metrics.ReiniciarPER(db, niveles)
			if err != nil {
				return err
			}
			fmt.Printf("PER reiniciado en %d sesiones\n", afectadas)
			return nil
		},
	}
	reset.Flags().IntSliceVar(&niveles, "niveles", []int{1, 2, 3, 4}, "niveles a reiniciar")
	cmd.AddCommand(reset)

	return cmd
}

func cmdVincular() *cobra.Command {
	var aplicarTodo bool

	cmd := &cobra.Command{
		Use:   "vincular <archivo>",
		Short: "Vincula el archivo de datos personales con los profesores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := abrirDB()
			if err != nil {
				return err
			}
			candidatos, err := linking.ProponerVinculos(db, args[0])
			if err != nil {
				return err
			}
			for _, c := range candidatos {
				fmt.Printf("%-40s -> %-40s (confianza %.2f)\n", c.NombreArchivo, c.NombreProfesor, c.Confianza)
			}
			if !aplicarTodo {
				fmt.Printf("%d candidatos propuestos; use --aplicar para confirmarlos todos\n", len(candidatos))
				return nil
			}

			decisiones := make([]models.DecisionVinculo, 0, len(candidatos))
			for _, c := range candidatos {
				decisiones = append(decisiones, models.DecisionVinculo{ProfesorID: c.ProfesorID, Aprobado: true})
			}
			resultado := linking.AplicarVinculos(db, candidatos, decisiones)
			fmt.Printf("%d profesores actualizados\n", resultado.Actualizados)
			for _, e := range resultado.Errores {
				fmt.Printf("ERROR: %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&aplicarTodo, "aplicar", false, "aprobar y aplicar todos los candidatos")
	return cmd
}
