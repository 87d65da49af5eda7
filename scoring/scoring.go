// Package scoring holds the placeholder risk models. Both models return a
// constant; the profile types document what a real model would receive.
package scoring

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Domain is the kind of profile being assessed.
type Domain string

const (
	Finance Domain = "finance"
	Health  Domain = "health"
)

// ParseDomain normalises s to a known Domain.
func ParseDomain(s string) (Domain, bool) {
	switch d := Domain(strings.ToLower(strings.TrimSpace(s))); d {
	case Finance, Health:
		return d, true
	}
	return "", false
}

// FinanceProfile is the financial form as submitted.
type FinanceProfile struct {
	Name             string  `mapstructure:"name"`
	Age              int     `mapstructure:"age"`
	Income           float64 `mapstructure:"income"`
	Expenses         float64 `mapstructure:"expenses"`
	Savings          float64 `mapstructure:"savings"`
	Debt             float64 `mapstructure:"debt"`
	Investments      float64 `mapstructure:"investments"`
	CreditScore      int     `mapstructure:"credit_score"`
	EmploymentStatus string  `mapstructure:"employment_status"`
	Dependents       int     `mapstructure:"dependents"`
	Goals            string  `mapstructure:"goals"`

	Extra map[string]any `mapstructure:",remain"`
}

// HealthProfile is the health form as submitted.
type HealthProfile struct {
	Name          string  `mapstructure:"name"`
	Age           int     `mapstructure:"age"`
	Gender        string  `mapstructure:"gender"`
	Height        float64 `mapstructure:"height"`
	Weight        float64 `mapstructure:"weight"`
	Smoking       string  `mapstructure:"smoking"`
	Alcohol       string  `mapstructure:"alcohol"`
	Exercise      string  `mapstructure:"exercise"`
	SleepHours    float64 `mapstructure:"sleep_hours"`
	Conditions    string  `mapstructure:"conditions"`
	FamilyHistory string  `mapstructure:"family_history"`
	Medications   string  `mapstructure:"medications"`

	Extra map[string]any `mapstructure:",remain"`
}

// DecodeFinance converts raw form values into a FinanceProfile. Numeric
// fields accept their string form; an empty string decodes as zero.
func DecodeFinance(data map[string]string) (FinanceProfile, error) {
	var p FinanceProfile
	return p, decode(data, &p)
}

// DecodeHealth converts raw form values into a HealthProfile.
func DecodeHealth(data map[string]string) (HealthProfile, error) {
	var p HealthProfile
	return p, decode(data, &p)
}

func decode(data map[string]string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("decoding profile: %w", err)
	}
	return nil
}

// FinancialRisk is the placeholder financial model.
func FinancialRisk(FinanceProfile) float64 { return 6.5 }

// HealthRisk is the placeholder health model.
func HealthRisk(HealthProfile) float64 { return 5.5 }

// Score decodes data for domain and runs that domain's model.
func Score(domain Domain, data map[string]string) (float64, error) {
	switch domain {
	case Finance:
		p, err := DecodeFinance(data)
		if err != nil {
			return 0, err
		}
		return FinancialRisk(p), nil
	case Health:
		p, err := DecodeHealth(data)
		if err != nil {
			return 0, err
		}
		return HealthRisk(p), nil
	}
	return 0, fmt.Errorf("unknown domain %q", domain)
}

// Risk categories assigned from a score.
const (
	HighRisk     = "High Risk"
	ModerateRisk = "Moderate Risk"
	LowRisk      = "Low Risk"
)

// Category buckets a score: above 7 is high, above 4 moderate, else low.
func Category(score float64) string {
	switch {
	case score > 7:
		return HighRisk
	case score > 4:
		return ModerateRisk
	}
	return LowRisk
}
