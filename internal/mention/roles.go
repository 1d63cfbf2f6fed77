package mention

import "strings"

// Dependency roles a replacement mention can fill. These abstract over the
// parser's raw labels so generated mentions declare grammatical constraints
// without binding to one tag set.
const (
	RoleSubject    = "subject"
	RoleObject     = "object"
	RolePrepObject = "prep_object"
	RolePossessive = "possessive"
)

// RoleForDep maps a dependency label to a replacement role. Unknown labels
// map to "", meaning no generated mention can fill the slot.
func RoleForDep(dep string) string {
	switch strings.ToLower(dep) {
	case "nsubj", "nsubjpass", "csubj":
		return RoleSubject
	case "dobj", "obj", "iobj", "attr", "appos":
		return RoleObject
	case "pobj", "obl", "nmod":
		return RolePrepObject
	case "poss", "nmod:poss":
		return RolePossessive
	default:
		return ""
	}
}

// DefaultEntityTypes covers the named-entity categories worth ambiguating:
// people, organizations, places, works and similar. MISC admits taggers that
// do not type their entities.
func DefaultEntityTypes() map[string]bool {
	return map[string]bool{
		"PERSON": true, "NORP": true, "ORG": true, "GPE": true, "LOC": true,
		"FAC": true, "WORK_OF_ART": true, "EVENT": true, "PRODUCT": true,
		"LAW": true, "LANGUAGE": true, "MISC": true,
	}
}

// DefaultDependencyLabels lists the labels a mention head may carry. The
// sentence root is deliberately absent: replacing the root breaks the
// question's grammaticality.
func DefaultDependencyLabels() map[string]bool {
	return map[string]bool{
		"nsubj": true, "nsubjpass": true, "csubj": true,
		"dobj": true, "obj": true, "iobj": true, "attr": true, "appos": true,
		"pobj": true, "obl": true, "nmod": true,
		"poss": true, "nmod:poss": true,
	}
}

// SetFromList parses a comma-separated override list, falling back to the
// given defaults when the list is empty.
func SetFromList(csv string, fallback map[string]bool) map[string]bool {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return fallback
	}
	out := make(map[string]bool)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out[part] = true
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
