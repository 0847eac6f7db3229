package bank

// Category names in the fixed order they are concatenated.
const (
	CategoryTechnical  = "Technical"
	CategoryBehavioral = "Behavioral"
)

// Defaults substituted when a role or level is not present in the data.
const (
	DefaultRole  = "Python Developer"
	DefaultLevel = "Entry-level"
)

var categoryOrder = []string{CategoryTechnical, CategoryBehavioral}

// Entry holds the question lists for one (role, level) pair, keyed by category.
type Entry map[string][]string

// Bank is the static offline question dataset used when remote generation is
// unavailable or fails. Lookups never fail: unknown roles and levels resolve
// to the defaults instead.
type Bank struct {
	roles map[string]map[string]Entry
}

// New returns a Bank preloaded with the supplied data.
func New(roles map[string]map[string]Entry) *Bank {
	return &Bank{roles: roles}
}

// Questions returns up to limit questions for the given role and level,
// technical questions first. A limit <= 0 yields an empty slice.
func (b *Bank) Questions(jobRole, experienceLevel string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	levels, ok := b.roles[jobRole]
	if !ok {
		jobRole = DefaultRole
		levels = b.roles[jobRole]
	}

	entry, ok := levels[experienceLevel]
	if !ok {
		entry = levels[DefaultLevel]
	}

	questions := make([]string, 0, limit)
	for _, category := range categoryOrder {
		questions = append(questions, entry[category]...)
	}

	if len(questions) > limit {
		questions = questions[:limit]
	}
	return questions
}

// Roles lists the roles present in the bank.
func (b *Bank) Roles() []string {
	roles := make([]string, 0, len(b.roles))
	for role := range b.roles {
		roles = append(roles, role)
	}
	return roles
}
