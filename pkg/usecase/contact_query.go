package usecase

import (
	"strings"
	"unicode/utf8"
)

// maxQueryVariations bounds the embedding calls one contact search makes
const maxQueryVariations = 5

type replacement struct {
	from, to string
}

// transcriptionFixes rewrites role words speech recognition commonly garbles
var transcriptionFixes = []replacement{
	{"engineergs", "engineers"},
	{"engineerg", "engineer"},
	{"enginners", "engineers"},
	{"enginer", "engineer"},
	{"developpers", "developers"},
	{"develper", "developer"},
	{"mangager", "manager"},
	{"mangers", "managers"},
	{"desiner", "designer"},
	{"desingers", "designers"},
	{"anlyst", "analyst"},
	{"anlysts", "analysts"},
	{"scrummaster", "scrum master"},
	{"devops", "devops engineer"},
	{"datascientist", "data scientist"},
	{"prodcut", "product"},
	{"frontent", "frontend"},
	{"bakend", "backend"},
	{"fullstack", "full stack"},
}

type roleExpansion struct {
	term      string
	expansion []string
}

// roleExpansions widens a role word to the titles it usually appears as
var roleExpansions = []roleExpansion{
	{"engineer", []string{"engineer", "engineering", "software engineer", "developer"}},
	{"engineers", []string{"engineers", "engineering", "software engineers", "developers"}},
	{"dev", []string{"developer", "engineer", "software engineer"}},
	{"devs", []string{"developers", "engineers", "software engineers"}},
	{"designer", []string{"designer", "design", "ux designer", "ui designer", "graphic designer"}},
	{"designers", []string{"designers", "design", "ux designers", "ui designers", "graphic designers"}},
	{"manager", []string{"manager", "management", "project manager", "product manager"}},
	{"managers", []string{"managers", "management", "project managers", "product managers"}},
	{"pm", []string{"product manager", "project manager", "manager"}},
	{"qa", []string{"quality assurance", "tester", "qa engineer"}},
	{"sales", []string{"sales", "sales representative", "account executive"}},
	{"marketing", []string{"marketing", "digital marketing", "marketing specialist"}},
}

// queryVariations returns the query followed by rewrites that survive
// transcription errors: spelling fixes, singular and plural forms, and role
// expansions. Variations are unique ignoring case and capped at
// maxQueryVariations.
func queryVariations(query string) []string {
	query = strings.TrimSpace(query)
	variations := []string{query}

	corrected := strings.ToLower(query)
	for _, fix := range transcriptionFixes {
		if strings.Contains(corrected, fix.from) {
			corrected = strings.ReplaceAll(corrected, fix.from, fix.to)
			variations = append(variations, corrected)
		}
	}

	words := strings.Fields(query)
	for i, word := range words {
		lower := strings.ToLower(word)
		length := utf8.RuneCountInString(lower)

		if !strings.HasSuffix(lower, "s") && length > 3 {
			variations = append(variations, replaceWord(words, i, word+"s"))
		}
		if strings.HasSuffix(lower, "s") && length > 4 {
			variations = append(variations, replaceWord(words, i, word[:len(word)-1]))
		}
	}

	lowerQuery := strings.ToLower(query)
	for _, role := range roleExpansions {
		if !strings.Contains(lowerQuery, role.term) {
			continue
		}
		for _, expansion := range role.expansion {
			variations = append(variations, strings.ReplaceAll(lowerQuery, role.term, expansion))
		}
	}

	seen := make(map[string]struct{}, len(variations))
	unique := make([]string, 0, maxQueryVariations)
	for _, v := range variations {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, v)
		if len(unique) == maxQueryVariations {
			break
		}
	}
	return unique
}

func replaceWord(words []string, i int, word string) string {
	replaced := make([]string, len(words))
	copy(replaced, words)
	replaced[i] = word
	return strings.Join(replaced, " ")
}
