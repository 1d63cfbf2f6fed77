package mention

import (
	"strings"

	"vqabuild/internal/models"
)

var nonPossessiveRoles = []string{RoleSubject, RoleObject, RolePrepObject}

// mentionRule pairs an attribute predicate with the mentions it yields. The
// table is evaluated in order; every applicable rule contributes, and the
// taxon/class predicates encode their mutual exclusion for non-humans.
type mentionRule struct {
	name    string
	applies func(models.EntityAttributes) bool
	emit    func(models.EntityAttributes) []models.GeneratedMention
}

var rules = []mentionRule{
	{
		name:    "gendered",
		applies: func(a models.EntityAttributes) bool { return genderOf(a) != "" },
		emit:    genderedMentions,
	},
	{
		name: "occupation",
		applies: func(a models.EntityAttributes) bool {
			return a.IsHuman && len(a.Occupations) > 0
		},
		emit: occupationMentions,
	},
	{
		name: "taxon",
		applies: func(a models.EntityAttributes) bool {
			return !a.IsHuman && a.TaxonRank != ""
		},
		emit: func(a models.EntityAttributes) []models.GeneratedMention {
			return []models.GeneratedMention{demonstrative(a.TaxonRank, models.MentionTaxon)}
		},
	},
	{
		name: "class",
		applies: func(a models.EntityAttributes) bool {
			return !a.IsHuman && a.TaxonRank == "" && len(a.Classes) > 0
		},
		emit: func(a models.EntityAttributes) []models.GeneratedMention {
			out := make([]models.GeneratedMention, 0, len(a.Classes))
			for _, c := range a.Classes {
				if strings.TrimSpace(c) == "" {
					continue
				}
				out = append(out, demonstrative(c, models.MentionClass))
			}
			return out
		},
	},
}

// Generate produces every permissible ambiguous replacement mention for an
// entity. Exhaustive and deterministic; all randomness is deferred to the
// sampler. An empty result means no attribute applies and the caller must
// drop the question.
func Generate(attrs models.EntityAttributes) []models.GeneratedMention {
	out := make([]models.GeneratedMention, 0, 8)
	for _, r := range rules {
		if r.applies(attrs) {
			out = append(out, r.emit(attrs)...)
		}
	}
	return out
}

// genderOf resolves the wording gender, honoring an explicitly recorded
// gender identity over the knowledge base's sex-or-gender value.
func genderOf(a models.EntityAttributes) string {
	for _, v := range []string{a.GenderIdentity, a.Gender} {
		v = strings.ToLower(strings.TrimSpace(v))
		switch {
		case v == "":
			continue
		case strings.Contains(v, "female") || strings.Contains(v, "woman"):
			return "female"
		case strings.Contains(v, "male") || strings.Contains(v, "man"):
			return "male"
		}
	}
	return ""
}

func genderedMentions(a models.EntityAttributes) []models.GeneratedMention {
	if genderOf(a) == "female" {
		return []models.GeneratedMention{
			{Text: "this woman", MentionType: models.MentionGenericPerson, RequiredDependencyRoles: nonPossessiveRoles},
			{Text: "she", MentionType: models.MentionPronoun, RequiredDependencyRoles: []string{RoleSubject}},
			{Text: "her", MentionType: models.MentionPronoun, RequiredDependencyRoles: []string{RoleObject, RolePrepObject}},
			{Text: "her", MentionType: models.MentionPronoun, RequiredDependencyRoles: []string{RolePossessive}},
		}
	}
	return []models.GeneratedMention{
		{Text: "this man", MentionType: models.MentionGenericPerson, RequiredDependencyRoles: nonPossessiveRoles},
		{Text: "he", MentionType: models.MentionPronoun, RequiredDependencyRoles: []string{RoleSubject}},
		{Text: "him", MentionType: models.MentionPronoun, RequiredDependencyRoles: []string{RoleObject, RolePrepObject}},
		{Text: "his", MentionType: models.MentionPronoun, RequiredDependencyRoles: []string{RolePossessive}},
	}
}

func occupationMentions(a models.EntityAttributes) []models.GeneratedMention {
	feminine := genderOf(a) == "female"
	out := make([]models.GeneratedMention, 0, len(a.Occupations))
	seen := make(map[string]struct{})
	for _, occ := range a.Occupations {
		occ = strings.ToLower(strings.TrimSpace(occ))
		if occ == "" {
			continue
		}
		if feminine {
			occ = feminineOccupation(occ)
		}
		if _, dup := seen[occ]; dup {
			continue
		}
		seen[occ] = struct{}{}
		out = append(out, demonstrative(occ, models.MentionOccupation))
	}
	return out
}

var feminineForms = map[string]string{
	"actor":    "actress",
	"waiter":   "waitress",
	"host":     "hostess",
	"steward":  "stewardess",
	"duke":     "duchess",
	"emperor":  "empress",
	"prince":   "princess",
	"king":     "queen",
	"monk":     "nun",
	"priest":   "priestess",
	"hero":     "heroine",
	"salesman": "saleswoman",
}

// feminineOccupation applies a feminine inflection where English has one;
// occupations without a marked form keep the base label.
func feminineOccupation(occ string) string {
	if f, ok := feminineForms[occ]; ok {
		return f
	}
	if strings.HasSuffix(occ, "man") && len(occ) > 3 {
		return strings.TrimSuffix(occ, "man") + "woman"
	}
	return occ
}

func demonstrative(label string, kind models.MentionType) models.GeneratedMention {
	return models.GeneratedMention{
		Text:                    "this " + strings.ToLower(strings.TrimSpace(label)),
		MentionType:             kind,
		RequiredDependencyRoles: nonPossessiveRoles,
	}
}
