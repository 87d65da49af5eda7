package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brunobiangulo/riskmirror/profile"
	"github.com/brunobiangulo/riskmirror/scoring"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formFields are the questions asked per domain, in order.
var formFields = map[scoring.Domain][]string{
	scoring.Finance: {
		"name", "age", "income", "expenses", "savings", "debt", "investments",
		"credit_score", "employment_status", "dependents", "goals",
	},
	scoring.Health: {
		"name", "age", "gender", "height", "weight", "smoking", "alcohol",
		"exercise", "sleep_hours", "conditions", "family_history", "medications",
	},
}

// runProfileForm asks for the domain (unless already known) and then each
// field of that domain's profile.
func runProfileForm(in io.Reader, out io.Writer, domain string) (*profile.Profile, error) {
	accessible := true
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		accessible = false
	}

	d, ok := scoring.ParseDomain(domain)
	if !ok {
		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Risk domain").
					Options(
						huh.NewOption("Finance", string(scoring.Finance)),
						huh.NewOption("Health", string(scoring.Health)),
					).
					Value(&choice),
			),
		).WithInput(in).WithOutput(out).WithAccessible(accessible)
		if err := form.Run(); err != nil {
			return nil, fmt.Errorf("domain form failed: %w", err)
		}
		d = scoring.Domain(choice)
	}

	keys := formFields[d]
	values := make([]string, len(keys))
	caser := cases.Title(language.English)
	inputs := make([]huh.Field, len(keys))
	for i, k := range keys {
		inputs[i] = huh.NewInput().
			Title(caser.String(strings.ReplaceAll(k, "_", " "))).
			Value(&values[i])
	}

	form := huh.NewForm(huh.NewGroup(inputs...)).
		WithInput(in).
		WithOutput(out).
		WithAccessible(accessible)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("profile form failed: %w", err)
	}

	p := &profile.Profile{Domain: string(d), Data: map[string]string{}}
	for i, k := range keys {
		if v := strings.TrimSpace(values[i]); v != "" {
			p.Data[k] = v
		}
	}
	return p, nil
}
