package classify

import (
	"fmt"
	"strings"

	"github.com/HugoVuach/finjuice/internal/event"
)

// systemPrompt builds the fixed instruction sent with every classification
// request. The vocabularies are enumerated inline so the model stays inside
// them.
func systemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a senior financial news analyst.\n\n")
	sb.WriteString("Your goal is to map tweets into a single structured financial event.\n\n")
	sb.WriteString("Return ONLY a valid JSON object (no markdown, no backticks, no extra text)\n")
	sb.WriteString("with the following exact keys:\n\n")
	sb.WriteString(fmt.Sprintf("- \"event_type\": one of [%s]\n", strings.Join(event.EventTypes, ", ")))
	sb.WriteString(fmt.Sprintf("- \"country_region\": one of [%s]\n", strings.Join(event.CountryRegions, ", ")))
	sb.WriteString(fmt.Sprintf("- \"impact\": one of [%s]\n", strings.Join(event.Impacts, ", ")))
	sb.WriteString("- \"explanation\": 1-2 short sentences in English explaining how/why this tweet may matter for markets.\n\n")
	sb.WriteString("If the tweet is not clearly financial, use:\n")
	sb.WriteString(fmt.Sprintf("- event_type = %q\n", event.DefaultEventType))
	sb.WriteString(fmt.Sprintf("- country_region = %q\n", event.DefaultCountryRegion))
	sb.WriteString(fmt.Sprintf("- impact = %q\n", event.DefaultImpact))
	sb.WriteString("but still provide a short explanation in English.\n\n")
	sb.WriteString("Always output valid JSON, nothing else.\n")

	return sb.String()
}
