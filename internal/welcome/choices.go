package welcome

import (
	"strings"

	"github.com/eleven-am/accounts-backend/internal/dto"
	"github.com/eleven-am/accounts-backend/internal/shared"
)

const (
	otherChoice = "Other"

	// choiceListTag marks a use_cases payload formatted for a choice list
	// column.
	choiceListTag = "L"
)

type Choice struct {
	Text  string
	Icon  string
	Color string
}

var choices = []Choice{
	{Text: "Product Development", Icon: "UseProduct", Color: "#16B378"},
	{Text: "Finance & Accounting", Icon: "UseFinance", Color: "#0075A2"},
	{Text: "Media Production", Icon: "UseMedia", Color: "#F7B32B"},
	{Text: "IT & Technology", Icon: "UseMonitor", Color: "#F2545B"},
	{Text: "Marketing", Icon: "UseChart", Color: "#7141F9"},
	{Text: "Research", Icon: "UseScience", Color: "#231942"},
	{Text: "Sales", Icon: "UseSales", Color: "#885A5A"},
	{Text: "Education", Icon: "UseEducate", Color: "#4A5899"},
	{Text: "HR & Management", Icon: "UseHr", Color: "#688047"},
	{Text: otherChoice, Icon: "UseOther", Color: "#929299"},
}

func Choices() []Choice {
	out := make([]Choice, len(choices))
	copy(out, choices)
	return out
}

func isChoice(label string) bool {
	for _, c := range choices {
		if c.Text == label {
			return true
		}
	}
	return false
}

// normalizeUseCases strips the optional list tag and drops duplicates. Any
// label that is not a known choice, blank ones included, rejects the whole
// submission.
func normalizeUseCases(raw []string) ([]string, error) {
	if len(raw) > 0 && raw[0] == choiceListTag {
		raw = raw[1:]
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, label := range raw {
		label = strings.TrimSpace(label)
		if !isChoice(label) {
			return nil, shared.Errorf(shared.ErrInvalidPayload, "Unknown use case: %q", label)
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out, nil
}

func toChoiceResponses(list []Choice) []dto.WelcomeChoice {
	out := make([]dto.WelcomeChoice, len(list))
	for i, c := range list {
		out[i] = dto.WelcomeChoice{Text: c.Text, Icon: c.Icon, Color: c.Color}
	}
	return out
}
