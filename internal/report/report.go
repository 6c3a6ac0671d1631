// Package report renders the consolidated task report.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/starford/notetasks/internal/models"
)

// Header opens every printed report.
const Header = "  INFORME DE NUEVAS TAREAS Y DATOS\n"

// FormatBlock renders one note's section of the report.
func FormatBlock(b models.Block) string {
	return fmt.Sprintf("Resumen [%s]: %s\n%s", b.Subject, b.Filename, b.Summary)
}

// Print writes the report for blocks to w, or a notice naming baseDir when
// there is nothing to report.
func Print(w io.Writer, blocks []models.Block, baseDir string) error {
	if _, err := fmt.Fprint(w, Header+"\n"); err != nil {
		return err
	}
	if len(blocks) == 0 {
		_, err := fmt.Fprintf(w, "No se encontraron apuntes nuevos para procesar en '%s'.\n", baseDir)
		return err
	}
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = FormatBlock(b)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "\n\n"))
	return err
}
