package models

// Profile is the static Profile Document the chat persona is built from.
// It is maintained externally and treated as read-only configuration.
type Profile struct {
	Name       string          `json:"name"`
	Title      string          `json:"title"`
	Summary    string          `json:"summary"`
	Language   string          `json:"language"`
	Stats      ProfileStats    `json:"stats"`
	Experience []Experience    `json:"experience"`
	Skills     []SkillCategory `json:"skills"`
	Projects   []Project       `json:"projects"`
	Links      []Link          `json:"links"`
}

type ProfileStats struct {
	YearsExperience   int `json:"years_experience"`
	ProjectsCompleted int `json:"projects_completed"`
	HappyClients      int `json:"happy_clients"`
}

type Experience struct {
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements,omitempty"`
}

type SkillCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type Project struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	Impact       string   `json:"impact,omitempty"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
