package resume

import (
	"regexp"
	"strings"
)

// commonSkills is the dictionary used for whole-word matching. It covers the
// skills the product's job forms offer plus the usual resume suspects; it is
// not meant to be exhaustive.
var commonSkills = []string{
	// Programming languages
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "Go",
	"Rust", "Swift", "Kotlin", "PHP", "Scala", "R", "Shell", "Bash",

	// Web development
	"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Express",
	"Django", "Flask", "Spring Boot", "jQuery", "Bootstrap", "Tailwind CSS",

	// Data science and ML
	"Machine Learning", "Deep Learning", "Data Science", "TensorFlow",
	"PyTorch", "Keras", "scikit-learn", "pandas", "NumPy", "Data Analysis",
	"Data Visualization", "Natural Language Processing", "Computer Vision",

	// Databases
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "SQLite", "Redis",
	"Elasticsearch", "NoSQL", "DynamoDB",

	// Cloud and DevOps
	"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "CI/CD",
	"Jenkins", "GitHub Actions", "Terraform", "Ansible", "Prometheus",
	"Grafana",

	// Other technical
	"Git", "RESTful APIs", "GraphQL", "Microservices", "Linux", "Apache Spark",
	"Hadoop", "Tableau", "Power BI", "Agile", "Scrum", "DevOps",
	"System Design",

	// Soft skills
	"Project Management", "Team Leadership", "Communication",
	"Problem-solving", "Critical Thinking", "Time Management", "Teamwork",
	"Collaboration", "Adaptability",
}

var skillPatterns = buildSkillPatterns()

func buildSkillPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(commonSkills))
	for _, skill := range commonSkills {
		// Word boundaries keep "Go" from matching "Google"; skills ending in
		// symbols (C++, CI/CD) get a lookahead-free tail check instead since
		// \b does not follow non-word characters.
		expr := `(?i)\b` + regexp.QuoteMeta(strings.ToLower(skill))
		if isWordChar(skill[len(skill)-1]) {
			expr += `\b`
		}
		patterns[skill] = regexp.MustCompile(expr)
	}
	return patterns
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// MatchSkills returns the dictionary skills present in the text as whole
// words, in dictionary order.
func MatchSkills(text string) []string {
	var skills []string
	for _, skill := range commonSkills {
		if skillPatterns[skill].MatchString(text) {
			skills = append(skills, skill)
		}
	}
	return skills
}
