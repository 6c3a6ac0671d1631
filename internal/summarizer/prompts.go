package summarizer

import (
	"fmt"
	"time"

	"github.com/starford/notetasks/internal/llm"
)

// NoTasks is the reply meaning the note contains no tasks.
const NoTasks = "None"

// SystemPrompt tells the model how to format the extracted task list.
const SystemPrompt = `Dado el siguiente archivo markdown, extrae una lista de tareas o pendientes que se pueden identificar en el contenido. Si no hay tareas, responde vacio.
si hay tareas, responde con una lista en formato markdown, cada tarea debe empezar con un guión.
No agregues nada más, solo la lista de tareas.
No agregues explicaciones ni introducciones, solo la lista de tareas.
La lista debe ser como la siguiente:
    - [ ] @{ *fecha de entrega en formato YYYY-MM-DD* } / *Materia* / *Descripcion*
Asegúrate de que las fechas de entrega estén en el formato @{YYYY-MM-DD} y si no existe una fecha de entrega, asume que la fecha de entrega es el dia siguiente
Si no puedes encontrar una materia, usa "General" como materia.
Divide la fecha de entrega, la materia y la descripcion con una barra inclinada (/).

Si no hay tareas, responde "None".`

// emptyExample is a class note without any pending work.
const emptyExample = "\n" +
	"    El nombre de la materia es Sistemas de Informacion,\n" +
	"\n" +
	"\n" +
	"    Fecha actual: 2023-10-10\n" +
	"    Dia de la semana actual: Lunes\n" +
	"    Nombre del archivo: \"Sistemas de Informacion 2023-10-09.md\"\n" +
	"```markdown\n" +
	"El scrum team son los que van a leer el backlog y van a actuar de forma acorde\n" +
	"\n" +
	"### Historia de un usuario \n" +
	"\n" +
	"Es una representacion de un requisito escrito en una o dos frases utilizando el lenguaje comun del usuario\n" +
	"\n" +
	"Son utilizadas para la especificacion de requisitos agiles (acompanadas de las discusiones con los usuarios y las pruebas de validacion)\n" +
	"\n" +
	"Cada historia de usuario debe ser limitada, etsa deberia poderse escribir sobre una nora adhesiva pequena\n" +
	"\n" +
	"- Centran la atencion en el usuario\n" +
	"- Permiten la colaboracion\n" +
	"\n" +
	"Deben de ser escritas en una tarjeta\n" +
	"deben de ser conversadas y debn de ser confirmadas\n" +
	"```\n" +
	"    "

// tasksReply is the worked task list shown after the second example.
const tasksReply = "- [ ] @{2025-08-31} / Internet of Things / Construir una cerradura combinacional con 8 entradas y 5 digitos, verificar la contraseña al presionar enter, preparar documentación en PDF (incluyendo circuito, diagrama de bloques, diagrama eléctrico, código fuente y circuito funcionando)"

var weekdays = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
}

// Weekday returns the Spanish weekday name used in prompts.
func Weekday(t time.Time) string {
	return weekdays[t.Weekday()]
}

// UserPrompt embeds one note into the final user message.
func UserPrompt(subject, filename, content string, now time.Time) string {
	return fmt.Sprintf("\n"+
		"        El nombre de la materia es %s,\n"+
		"\n"+
		"\n"+
		"        Fecha actual: %s\n"+
		"        Dia de la semana actual: %s\n"+
		"        Nombre del archivo: %s\n"+
		"```markdown\n"+
		"        %s\n"+
		"```\n"+
		"        ",
		subject, now.Format("2006-01-02"), Weekday(now), filename, content)
}

// Messages assembles the full exchange sent to the model. Both few-shot user
// turns carry the empty example; the second is paired with a populated reply.
// TODO: pair the populated reply with a note that actually contains tasks once
// the extraction quality of both variants has been compared.
func Messages(subject, filename, content string, now time.Time) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: emptyExample},
		{Role: llm.RoleAssistant, Content: NoTasks},
		{Role: llm.RoleUser, Content: emptyExample},
		{Role: llm.RoleAssistant, Content: tasksReply},
		{Role: llm.RoleUser, Content: UserPrompt(subject, filename, content, now)},
	}
}
