package argonchain

// Report summarizes the effective configuration of a Generator. It never
// includes salts, keys or any derived value.
type Report struct {
	Argon2           CostReport
	Policy           PolicyConfig
	Alphabet         int
	SaltCount        int
	UsingDefaultSalt bool
	AuditEnabled     bool
	MetricsEnabled   bool
	LatencyEnabled   bool
	ReceiptsEnabled  bool
	SigningMethod    string
	Warnings         LintWarnings
}

type CostReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// MemoryBytes is the working set of a single iteration.
func (c CostReport) MemoryBytes() uint64 {
	return uint64(c.Memory) * 1024
}

func (g *Generator) Report() Report {
	if g == nil {
		return Report{}
	}

	policy := g.config.Policy
	if policy.Special == "" && policy.IncludeSpecial {
		policy.Special = g.encoder.Policy().SpecialAlphabet()
	}

	r := Report{
		Argon2: CostReport{
			Memory:      g.config.Cost.Memory,
			Time:        g.config.Cost.Time,
			Parallelism: g.config.Cost.Parallelism,
			SaltLength:  g.config.Cost.SaltLength,
			KeyLength:   g.config.Cost.KeyLength,
		},
		Policy:           policy,
		Alphabet:         len(g.encoder.Policy().Alphabet()),
		SaltCount:        len(g.salts),
		UsingDefaultSalt: len(g.config.Salts) == 0,
		AuditEnabled:     g.audit != nil,
		MetricsEnabled:   g.metrics.Enabled(),
		LatencyEnabled:   g.metrics.LatencyEnabled(),
		ReceiptsEnabled:  g.receipts != nil,
		Warnings:         g.config.Lint(),
	}
	if r.ReceiptsEnabled {
		r.SigningMethod = g.config.Receipt.SigningMethod
	}
	return r
}
