package ingestion

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Choice es la decisión para un nombre ambiguo de tres partes.
type Choice int

const (
	// ApellidoCompuesto: la segunda y tercera parte forman el apellido
	// (convención colombiana de dos apellidos). Es la opción por defecto.
	ApellidoCompuesto Choice = iota
	// NombreCompuesto: las dos primeras partes forman el nombre de pila.
	NombreCompuesto
)

// DecisionProvider resuelve un nombre de tres partes cuando ninguna
// heurística aplica. La implementación interactiva bloquea esperando al
// usuario; la implementación por defecto nunca pregunta.
type DecisionProvider interface {
	Resolve(partes []string) Choice
}

// ProveedorPorDefecto siempre responde apellido compuesto, la convención
// documentada para corridas sin interfaz.
type ProveedorPorDefecto struct{}

// Resolve retorna siempre ApellidoCompuesto.
func (ProveedorPorDefecto) Resolve([]string) Choice { return ApellidoCompuesto }

// ProveedorInteractivo muestra las dos divisiones candidatas y lee la
// elección por consola. Si no puede leer una respuesta válida usa la opción
// por defecto.
type ProveedorInteractivo struct {
	In  io.Reader
	Out io.Writer
}

// Resolve pregunta por consola cuál división usar.
func (p *ProveedorInteractivo) Resolve(partes []string) Choice {
	fmt.Fprintf(p.Out, "Nombre ambiguo: %s\n", strings.Join(partes, " "))
	fmt.Fprintf(p.Out, "  1) Nombre: %s %s / Apellido: %s\n", partes[0], partes[1], partes[2])
	fmt.Fprintf(p.Out, "  2) Nombre: %s / Apellido: %s %s\n", partes[0], partes[1], partes[2])
	fmt.Fprint(p.Out, "Opción [2]: ")

	scanner := bufio.NewScanner(p.In)
	if scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			return NombreCompuesto
		case "2":
			return ApellidoCompuesto
		}
	}
	return ApellidoCompuesto
}

// nombresCompuestos son nombres de pila compuestos frecuentes. Si las dos
// primeras partes de un nombre de tres forman una de estas entradas, la
// división es automática.
var nombresCompuestos = map[string]bool{
	"ana maria":       true,
	"ana sofia":       true,
	"andres felipe":   true,
	"carlos andres":   true,
	"diego alejandro": true,
	"jose maria":      true,
	"juan camilo":     true,
	"juan carlos":     true,
	"juan david":      true,
	"juan manuel":     true,
	"juan pablo":      true,
	"laura maria":     true,
	"luis felipe":     true,
	"luis fernando":   true,
	"maria alejandra": true,
	"maria camila":    true,
	"maria fernanda":  true,
	"maria jose":      true,
	"maria paula":     true,
}

// particulas son conectores de apellido: si la segunda parte es una de
// estas, el apellido es compuesto sin ambigüedad.
var particulas = map[string]bool{
	"de": true, "del": true, "la": true, "las": true, "los": true,
	"van": true, "von": true, "mc": true, "mac": true, "d": true,
}

var (
	reOrdinal   = regexp.MustCompile(`^\(\d+\)\s*`)
	reMarcadorY = regexp.MustCompile(`\s*\(Y\)\s*$`)
)

// NombreProfesor es un nombre ya dividido en nombres y apellidos.
type NombreProfesor struct {
	Nombres   string
	Apellidos string
}

// Desambiguador divide nombres de profesores en (nombres, apellidos). Las
// decisiones sobre nombres ambiguos se cachean por el texto original completo
// durante una corrida; el caché no se persiste.
type Desambiguador struct {
	proveedor DecisionProvider
	cache     map[string]NombreProfesor
}

// NuevoDesambiguador construye un desambiguador con el proveedor de
// decisiones dado. Con proveedor nulo se usa el por defecto.
func NuevoDesambiguador(proveedor DecisionProvider) *Desambiguador {
	if proveedor == nil {
		proveedor = ProveedorPorDefecto{}
	}
	return &Desambiguador{
		proveedor: proveedor,
		cache:     make(map[string]NombreProfesor),
	}
}

// ParseProfesores divide el campo de profesores de una fila en la lista de
// nombres individuales. Varios profesores vienen separados por " | ", cada
// uno con un ordinal entre paréntesis al inicio y a veces un marcador (Y) al
// final. Las entradas que quedan vacías se descartan en silencio. Nunca
// falla.
func (d *Desambiguador) ParseProfesores(campo string) []NombreProfesor {
	var resultado []NombreProfesor
	for _, entrada := range strings.Split(campo, " | ") {
		limpio := SafeStrip(entrada)
		limpio = reOrdinal.ReplaceAllString(limpio, "")
		limpio = reMarcadorY.ReplaceAllString(limpio, "")
		limpio = SafeStrip(limpio)
		if limpio == "" {
			continue
		}
		resultado = append(resultado, d.Dividir(limpio))
	}
	return resultado
}

// Dividir separa un nombre completo en (nombres, apellidos) según el número
// de partes:
//   - 1 parte: todo es nombre.
//   - 2 partes: nombre y apellido.
//   - 3 partes: ambiguo; ver resolverTresPartes.
//   - 4 o más: las dos últimas partes son el apellido.
func (d *Desambiguador) Dividir(nombre string) NombreProfesor {
	partes := strings.Fields(nombre)
	switch len(partes) {
	case 0:
		return NombreProfesor{}
	case 1:
		return NombreProfesor{Nombres: partes[0]}
	case 2:
		return NombreProfesor{Nombres: partes[0], Apellidos: partes[1]}
	case 3:
		return d.resolverTresPartes(partes)
	default:
		n := len(partes)
		return NombreProfesor{
			Nombres:   strings.Join(partes[:n-2], " "),
			Apellidos: strings.Join(partes[n-2:], " "),
		}
	}
}

// resolverTresPartes resuelve la división de un nombre de tres partes:
// primero el caché de la corrida, luego las heurísticas automáticas y por
// último el proveedor de decisiones.
func (d *Desambiguador) resolverTresPartes(partes []string) NombreProfesor {
	completo := strings.Join(partes, " ")
	if previo, ok := d.cache[completo]; ok {
		return previo
	}

	var resultado NombreProfesor
	switch {
	case nombresCompuestos[plegar(partes[0]+" "+partes[1])]:
		// Nombre de pila compuesto conocido
		resultado = NombreProfesor{
			Nombres:   partes[0] + " " + partes[1],
			Apellidos: partes[2],
		}
	case particulas[plegar(partes[1])]:
		// Partícula de apellido: el apellido arranca en la segunda parte
		resultado = NombreProfesor{
			Nombres:   partes[0],
			Apellidos: partes[1] + " " + partes[2],
		}
	case len([]rune(partes[2])) <= 3 && len([]rune(partes[1])) > 4:
		// Cola corta: tercera parte muy corta tras una segunda larga,
		// típico de nombre compuesto abreviado
		resultado = NombreProfesor{
			Nombres:   partes[0] + " " + partes[1],
			Apellidos: partes[2],
		}
	default:
		if d.proveedor.Resolve(partes) == NombreCompuesto {
			resultado = NombreProfesor{
				Nombres:   partes[0] + " " + partes[1],
				Apellidos: partes[2],
			}
		} else {
			resultado = NombreProfesor{
				Nombres:   partes[0],
				Apellidos: partes[1] + " " + partes[2],
			}
		}
	}

	d.cache[completo] = resultado
	return resultado
}

var plegador = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// plegar normaliza un texto para comparación: minúsculas y sin tildes.
func plegar(s string) string {
	sinTildes, _, err := transform.String(plegador, s)
	if err != nil {
		sinTildes = s
	}
	return strings.ToLower(strings.TrimSpace(sinTildes))
}
