package argonchain

import "fmt"

// LintSeverity grades a lint warning.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
)

// LintWarning is a non-fatal advisory about a valid configuration.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings is the result of Config.Lint.
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

const (
	recommendedMemoryKiB = 64 * 1024
	recommendedTimeCost  = 3
	recommendedLength    = 12
)

// Lint reports settings that are valid but weak. It never fails; call
// Validate for hard errors.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings

	if c.Cost.Memory < recommendedMemoryKiB {
		ws = append(ws, LintWarning{
			Code:     "memory_low",
			Severity: LintWarn,
			Message:  fmt.Sprintf("memory cost %d KiB is below the recommended %d KiB", c.Cost.Memory, recommendedMemoryKiB),
		})
	}
	if c.Cost.Time < recommendedTimeCost {
		ws = append(ws, LintWarning{
			Code:     "time_cost_low",
			Severity: LintWarn,
			Message:  fmt.Sprintf("time cost %d is below the recommended %d", c.Cost.Time, recommendedTimeCost),
		})
	}
	if len(c.Salts) == 0 {
		ws = append(ws, LintWarning{
			Code:     "default_salt",
			Severity: LintWarn,
			Message:  "no salts configured; the built-in default salt is public",
		})
	} else if len(c.Salts) == 1 {
		ws = append(ws, LintWarning{
			Code:     "single_salt",
			Severity: LintInfo,
			Message:  "a single salt is reused on every iteration",
		})
	}
	if c.Policy.Length < recommendedLength {
		ws = append(ws, LintWarning{
			Code:     "length_short",
			Severity: LintWarn,
			Message:  fmt.Sprintf("password length %d is below the recommended %d", c.Policy.Length, recommendedLength),
		})
	}
	if !c.Policy.IncludeUpper && !c.Policy.IncludeSpecial {
		ws = append(ws, LintWarning{
			Code:     "charset_narrow",
			Severity: LintInfo,
			Message:  "only lowercase letters and digits are enabled",
		})
	}

	return ws
}
