package service

import "strings"

var knownSkills = []string{
	"python", "java", "javascript", "sql", "react", "angular", "vue",
	"node.js", "docker", "kubernetes", "aws", "azure", "gcp",
	"machine learning", "deep learning", "tensorflow", "pytorch",
	"git", "linux", "agile", "scrum", "devops",
	"mongodb", "postgresql", "mysql", "redis",
	"typescript", "c++", "go", "rust", "scala",
	"fastapi", "django", "flask", "spring", "php", "html", "css",
}

const (
	ExperienceSenior       = "Senior (5+ ans)"
	ExperienceJunior       = "Junior (0-2 ans)"
	ExperienceIntermediate = "Intermédiaire (2-5 ans)"
)

var (
	seniorLevelMarkers       = []string{"senior", "5 ans", "10 ans", "expert", "lead"}
	juniorLevelMarkers       = []string{"junior", "débutant", "0-2 ans"}
	intermediateLevelMarkers = []string{"intermédiaire", "2-5 ans", "3 ans"}
)

// ExtractSkills devuelve las competencias conocidas presentes en el texto,
// en el orden de la lista de referencia.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, skill := range knownSkills {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// InferExperienceLevel busca marcadores senior, luego junior, luego intermedio.
func InferExperienceLevel(text string) (string, bool) {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, seniorLevelMarkers):
		return ExperienceSenior, true
	case containsAny(lower, juniorLevelMarkers):
		return ExperienceJunior, true
	case containsAny(lower, intermediateLevelMarkers):
		return ExperienceIntermediate, true
	}
	return "", false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
