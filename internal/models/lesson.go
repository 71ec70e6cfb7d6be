package models

// Question is a single multiple-choice flashcard.
type Question struct {
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Options []string `yaml:"options" json:"options"`
	Correct int      `yaml:"correct" json:"correct"`
	Reward  float64  `yaml:"reward" json:"reward"`
}

type Lesson struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Reward      float64    `yaml:"reward" json:"reward"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

type Language struct {
	Name    string   `yaml:"name" json:"name"`
	Flag    string   `yaml:"flag" json:"flag"`
	Icon    string   `yaml:"icon" json:"icon"`
	Lessons []Lesson `yaml:"lessons" json:"lessons"`
}
