package mcpserver

import "github.com/starford/notetasks/internal/summarizer"

// TaskFormatURI identifies the task format resource.
const TaskFormatURI = "notetasks://task-format"

// TaskFormatContract describes the task list format produced by extract_tasks.
const TaskFormatContract = `# Task List Format

Each extracted task is one Markdown checkbox line:

` + "```" + `markdown
- [ ] @{YYYY-MM-DD} / <subject> / <description>
` + "```" + `

- The due date defaults to the day after the note was processed.
- The subject defaults to the note's directory name, or "General".
- A note without tasks yields the literal reply ` + "`None`" + `.

## Model instructions

` + "```" + `text
` + summarizer.SystemPrompt + `
` + "```" + `
`
