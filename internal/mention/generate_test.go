package mention

import (
	"testing"

	"vqabuild/internal/models"

	"github.com/stretchr/testify/require"
)

func mentionTexts(ms []models.GeneratedMention) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Text)
	}
	return out
}

func TestGenerateFemaleActress(t *testing.T) {
	ms := Generate(models.EntityAttributes{
		EntityID:    "Q1",
		Gender:      "female",
		IsHuman:     true,
		Occupations: []string{"actor"},
	})
	texts := mentionTexts(ms)
	require.Contains(t, texts, "this woman")
	require.Contains(t, texts, "she")
	require.Contains(t, texts, "this actress")
	require.NotContains(t, texts, "this man")
}

func TestGenerateMalePronounRoles(t *testing.T) {
	ms := Generate(models.EntityAttributes{EntityID: "Q2", Gender: "male", IsHuman: true})
	byText := map[string]models.GeneratedMention{}
	for _, m := range ms {
		byText[m.Text] = m
	}
	require.Equal(t, []string{RoleSubject}, byText["he"].RequiredDependencyRoles)
	require.Equal(t, []string{RolePossessive}, byText["his"].RequiredDependencyRoles)
	require.NotContains(t, byText["this man"].RequiredDependencyRoles, RolePossessive)
}

func TestGenerateGenderIdentityPrecedence(t *testing.T) {
	ms := Generate(models.EntityAttributes{
		EntityID:       "Q3",
		Gender:         "male",
		GenderIdentity: "trans woman",
		IsHuman:        true,
	})
	texts := mentionTexts(ms)
	require.Contains(t, texts, "this woman")
	require.NotContains(t, texts, "this man")
}

func TestGenerateTaxonWinsOverClass(t *testing.T) {
	ms := Generate(models.EntityAttributes{
		EntityID:  "Q4",
		TaxonRank: "species",
		Classes:   []string{"animal"},
	})
	require.Equal(t, []string{"this species"}, mentionTexts(ms))
	require.Equal(t, models.MentionTaxon, ms[0].MentionType)
}

func TestGenerateClassOnly(t *testing.T) {
	ms := Generate(models.EntityAttributes{EntityID: "Q5", Classes: []string{"tower"}})
	require.Equal(t, []string{"this tower"}, mentionTexts(ms))
	require.Equal(t, models.MentionClass, ms[0].MentionType)
}

func TestGenerateClassForOpera(t *testing.T) {
	ms := Generate(models.EntityAttributes{EntityID: "Q185968", Classes: []string{"opera"}})
	require.Equal(t, []string{"this opera"}, mentionTexts(ms))
}

func TestGenerateEmptyAttributes(t *testing.T) {
	require.Empty(t, Generate(models.EntityAttributes{EntityID: "Q6"}))
}

func TestGenerateNonEmptyWhenAnyFieldSet(t *testing.T) {
	cases := []models.EntityAttributes{
		{Gender: "female"},
		{IsHuman: true, Occupations: []string{"painter"}},
		{TaxonRank: "genus"},
		{Classes: []string{"bridge"}},
	}
	for _, attrs := range cases {
		require.NotEmpty(t, Generate(attrs), "attrs %+v", attrs)
	}
}

func TestFeminineOccupationInflection(t *testing.T) {
	require.Equal(t, "actress", feminineOccupation("actor"))
	require.Equal(t, "chairwoman", feminineOccupation("chairman"))
	require.Equal(t, "painter", feminineOccupation("painter"))
}
