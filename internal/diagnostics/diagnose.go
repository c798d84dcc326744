package diagnostics

import "strings"

// connectivityTerms is the trigger set shared by the timeout and
// network rules below.
var connectivityTerms = []string{"connection", "network", "timeout", "unreachable"}

type matchRule struct {
	category string
	match    func(msg string, kind Kind) bool
}

// matchRules is evaluated top to bottom against the lowercased
// message; the first hit wins. Rule order is part of the contract:
// the timeout rule must precede the broader network rule, and the
// bare-kind timeout rule stays last so message text always wins.
var matchRules = []matchRule{
	{CategoryOpenAIAPIKey, func(m string, _ Kind) bool {
		return strings.Contains(m, "api key") && strings.Contains(m, "openai")
	}},
	{CategoryOrgVerification, func(m string, _ Kind) bool {
		return strings.Contains(m, "organization") && strings.Contains(m, "verification")
	}},
	{CategoryAlpacaAPIKey, func(m string, _ Kind) bool {
		return strings.Contains(m, "api key") && (strings.Contains(m, "alpaca") || strings.Contains(m, "trading"))
	}},
	{CategoryRateLimit, func(m string, _ Kind) bool {
		return strings.Contains(m, "rate limit") || strings.Contains(m, "rate_limit")
	}},
	{CategoryTimeout, func(m string, k Kind) bool {
		return containsAny(m, connectivityTerms) && (strings.Contains(m, "timeout") || k == KindTimeout)
	}},
	{CategoryNetwork, func(m string, _ Kind) bool {
		return containsAny(m, connectivityTerms)
	}},
	{CategoryInsufficientData, func(m string, _ Kind) bool {
		return strings.Contains(m, "insufficient data") || strings.Contains(m, "no data")
	}},
	{CategoryTimeout, func(_ string, k Kind) bool {
		return k == KindTimeout
	}},
}

// Diagnose matches an error message (plus optional kind hint) against
// the catalog. Matching is case-insensitive substring containment.
func Diagnose(message string, kind Kind) (Diagnosis, bool) {
	m := strings.ToLower(message)
	for _, rule := range matchRules {
		if rule.match(m, kind) {
			return catalog[rule.category], true
		}
	}
	return Diagnosis{}, false
}

// QuickDiagnose returns a compact title-plus-solutions block for log
// lines, or false when the message matches nothing.
func QuickDiagnose(message string) (string, bool) {
	d, ok := Diagnose(message, KindNone)
	if !ok {
		return "", false
	}
	return d.Title + "\n" + strings.Join(d.Solutions, "\n"), true
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
