package usecase

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/kayacancode/voice-network/pkg/domain/model"
)

// escapeSSML escapes text for interpolation into SSML
func escapeSSML(s string) string {
	var sb strings.Builder
	// xml.EscapeText only fails when the writer fails
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func speak(body string) string {
	return "<speak>" + body + "</speak>"
}

func emphasize(s string) string {
	return `<emphasis level="moderate">` + escapeSSML(s) + "</emphasis>"
}

// plainSpeech wraps a fixed message as SSML
func plainSpeech(message string) string {
	return speak(escapeSSML(message))
}

// buildConfirmation returns the spoken confirmation for a stored memory
func buildConfirmation(person, details string) (string, string) {
	message := fmt.Sprintf("Got it — saved that %s %s.", person, details)
	ssml := speak(fmt.Sprintf("Got it — saved that %s %s.", emphasize(person), escapeSSML(details)))
	return message, ssml
}

// buildRecallAnswer returns the spoken answer for the best match
func buildRecallAnswer(person, details, recency string) (string, string) {
	suffix := ""
	if recency != "" {
		suffix = ", " + recency
	}
	message := fmt.Sprintf("You mentioned %s %s%s.", person, details, suffix)
	ssml := speak(fmt.Sprintf("You mentioned %s %s%s.", emphasize(person), escapeSSML(details), escapeSSML(suffix)))
	return message, ssml
}

// buildNoMemories returns the spoken reply when nothing relevant was found
func buildNoMemories(person string) (string, string) {
	if person == "" {
		return model.NoMemoriesMessage, plainSpeech(model.NoMemoriesMessage)
	}
	message := fmt.Sprintf("I don't have any memories about %s.", person)
	ssml := speak(fmt.Sprintf("I don't have any memories about %s.", emphasize(person)))
	return message, ssml
}

// recencyPhrase describes how long ago timestamp was. Unparseable timestamps
// yield an empty phrase.
func recencyPhrase(timestamp string, now time.Time) string {
	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ""
	}

	elapsed := now.Sub(ts)
	if days := int(elapsed / (24 * time.Hour)); days >= 1 {
		return pluralAgo(days, "day")
	}
	if hours := int(elapsed / time.Hour); hours >= 1 {
		return pluralAgo(hours, "hour")
	}
	return "recently"
}

func pluralAgo(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// contactsListed is how many contacts a spoken answer names
const contactsListed = 3

// buildContactAnswer returns the spoken summary of a network search
func buildContactAnswer(contacts []*model.ContactMatch, query string) (string, string) {
	switch len(contacts) {
	case 0:
		message := fmt.Sprintf("I searched for '%s' but found no matches. ", query)
		if suggestions := contactSuggestions(query); len(suggestions) > 0 {
			message += fmt.Sprintf("You might try searching for: %s.", strings.Join(suggestions, ", "))
		} else {
			message += "Would you like to try a different term?"
		}
		return message, plainSpeech(message)

	case 1:
		c := contacts[0].Contact
		profile := contactProfile(c)
		message := fmt.Sprintf("I found %s%s.", c.Name, profile)
		ssml := speak(fmt.Sprintf("I found %s%s.", emphasize(c.Name), escapeSSML(profile)))
		return message, ssml
	}

	companies := make(map[string]struct{})
	for _, m := range contacts {
		company := m.Contact.Company
		if company == "" {
			company = "Other"
		}
		companies[company] = struct{}{}
	}

	var text, ssml strings.Builder
	header := fmt.Sprintf("I found %d people matching '%s'. ", len(contacts), query)
	if len(companies) == 1 {
		for company := range companies {
			header += fmt.Sprintf("They all work at %s. ", company)
		}
	}
	text.WriteString(header + "Here are a few: ")
	ssml.WriteString(escapeSSML(header + "Here are a few: "))

	for i, m := range contacts[:min(contactsListed, len(contacts))] {
		if i > 0 {
			text.WriteString(", ")
			ssml.WriteString(", ")
		}
		suffix := ""
		if m.Contact.Title != "" {
			suffix += ", " + m.Contact.Title
		}
		if m.Contact.Company != "" && len(companies) > 1 {
			suffix += " at " + m.Contact.Company
		}
		text.WriteString(m.Contact.Name + suffix)
		ssml.WriteString(emphasize(m.Contact.Name) + escapeSSML(suffix))
	}

	tail := "."
	if rest := len(contacts) - contactsListed; rest > 0 {
		tail = fmt.Sprintf(", and %d more.", rest)
	}
	text.WriteString(tail)
	ssml.WriteString(escapeSSML(tail))

	return text.String(), speak(ssml.String())
}

// contactProfile describes a contact's role after their name
func contactProfile(c *model.Contact) string {
	var parts []string
	if c.Title != "" {
		parts = append(parts, "a "+c.Title)
	}
	if c.Company != "" {
		parts = append(parts, "at "+c.Company)
	}
	if c.Location != "" {
		parts = append(parts, "in "+c.Location)
	}
	if c.Industry != "" {
		parts = append(parts, "in the "+c.Industry+" industry")
	}
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, " ")
}

// contactSuggestions offers broader role searches after an empty result
func contactSuggestions(query string) []string {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "engineer"):
		return []string{"engineers", "developers", "software engineers"}
	case strings.Contains(lower, "design"):
		return []string{"designers", "UX designers", "UI designers"}
	case strings.Contains(lower, "manag"):
		return []string{"managers", "product managers", "project managers"}
	case strings.Contains(lower, "dev"):
		return []string{"developers", "engineers", "software developers"}
	}
	return nil
}
