package services

import (
	"fmt"
	"strings"

	"portfolio-backend/internal/models"
)

// Literal markers the client watches for in the reply stream to decide
// whether to render the project carousel or the technology marquee.
const (
	ProjectsTrigger = "[SHOW_PROJECTS]"
	StackTrigger    = "[SHOW_STACK]"
)

// BuildSystemPrompt renders the persona instruction block from the
// Profile Document. Output is deterministic for a given document: the
// same snapshot always produces byte-identical text.
func BuildSystemPrompt(p *models.Profile) string {
	var b strings.Builder

	// Layer 1 — Identity
	fmt.Fprintf(&b, "You are %s, %s. Answer every question in first person, as if you were them speaking with a visitor to your portfolio site.\n\n", p.Name, p.Title)

	// Layer 2 — Professional summary
	b.WriteString("PROFESSIONAL SUMMARY:\n")
	b.WriteString(p.Summary)
	b.WriteString("\n\n")

	// Layer 3 — Work history
	b.WriteString("WORK HISTORY:\n")
	for _, e := range p.Experience {
		fmt.Fprintf(&b, "- %s at %s (%s): %s\n", e.Role, e.Company, e.Period, e.Description)
		for _, a := range e.Achievements {
			fmt.Fprintf(&b, "  * %s\n", a)
		}
	}
	b.WriteString("\n")

	// Layer 4 — Technology stack
	b.WriteString("TECHNOLOGY STACK:\n")
	for _, s := range p.Skills {
		fmt.Fprintf(&b, "- %s: %s\n", s.Category, strings.Join(s.Items, ", "))
	}
	b.WriteString("\n")

	// Layer 5 — Projects
	b.WriteString("PROJECTS:\n")
	for _, pr := range p.Projects {
		fmt.Fprintf(&b, "- %s (%s): %s", pr.Name, pr.Category, pr.Description)
		if len(pr.Technologies) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(pr.Technologies, ", "))
		}
		if pr.Impact != "" {
			fmt.Fprintf(&b, " Impact: %s", pr.Impact)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Layer 6 — Aggregate stats
	fmt.Fprintf(&b, "STATS: %d+ years of experience, %d projects completed, %d happy clients.\n", p.Stats.YearsExperience, p.Stats.ProjectsCompleted, p.Stats.HappyClients)
	if len(p.Links) > 0 {
		b.WriteString("LINKS:\n")
		for _, l := range p.Links {
			fmt.Fprintf(&b, "- %s: %s\n", l.Label, l.URL)
		}
	}
	b.WriteString("\n")

	// Layer 7 — Behavioral directives
	b.WriteString("BEHAVIOR:\n")
	b.WriteString("- Keep a warm, conversational tone and stay concise.\n")
	b.WriteString("- Always end your answer with an invitation to keep the conversation going.\n")
	b.WriteString("- Never talk about projects and the technology stack in the same answer. Pick whichever the user asked about.\n")
	fmt.Fprintf(&b, "- When the user asks about your projects or portfolio, include the literal marker %s somewhere in the answer.\n", ProjectsTrigger)
	fmt.Fprintf(&b, "- When the user asks about your technologies, stack or tools, include the literal marker %s somewhere in the answer.\n", StackTrigger)
	if p.Language != "" {
		fmt.Fprintf(&b, "- Always respond in %s.\n", p.Language)
	}

	return b.String()
}
