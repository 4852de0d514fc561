package internaldefs

import "github.com/MrEthical07/argonchain"

// Counter names one exported counter.
type Counter struct {
	ID   argonchain.MetricID
	Name string
	Help string
}

// Histogram names one exported latency histogram.
type Histogram struct {
	ID   argonchain.MetricID
	Name string
	Help string
}

// Bound is one histogram upper bound, as a Prometheus label value and as an
// instrument-name suffix.
type Bound struct {
	Label  string
	Suffix string
}

const (
	AuditDroppedName = "argonchain_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped because the dispatcher queue was full."
)

var Counters = []Counter{
	{ID: argonchain.MetricRunStarted, Name: "argonchain_runs_started_total", Help: "Runs that passed validation and began hashing."},
	{ID: argonchain.MetricRunCompleted, Name: "argonchain_runs_completed_total", Help: "Runs that produced every requested password."},
	{ID: argonchain.MetricRunFailed, Name: "argonchain_runs_failed_total", Help: "Runs aborted by a hash or encoding failure."},
	{ID: argonchain.MetricRunCancelled, Name: "argonchain_runs_cancelled_total", Help: "Runs stopped by cancellation."},
	{ID: argonchain.MetricDigestDerived, Name: "argonchain_digests_derived_total", Help: "Successful chain iterations."},
	{ID: argonchain.MetricPasswordEncoded, Name: "argonchain_passwords_encoded_total", Help: "Passwords delivered to observers."},
	{ID: argonchain.MetricHashFailure, Name: "argonchain_hash_failures_total", Help: "Primitive failures."},
	{ID: argonchain.MetricInvalidConfig, Name: "argonchain_invalid_config_total", Help: "Runs rejected before hashing."},
	{ID: argonchain.MetricReceiptIssued, Name: "argonchain_receipts_issued_total", Help: "Signed run receipts."},
}

var Histograms = []Histogram{
	{ID: argonchain.MetricDeriveLatency, Name: "argonchain_derive_latency_seconds", Help: "Per-iteration Argon2id latency."},
}

// Bounds mirror the generator's fixed buckets.
var Bounds = [8]Bound{
	{Label: "0.05", Suffix: "0_05"},
	{Label: "0.1", Suffix: "0_1"},
	{Label: "0.25", Suffix: "0_25"},
	{Label: "0.5", Suffix: "0_5"},
	{Label: "1", Suffix: "1"},
	{Label: "2.5", Suffix: "2_5"},
	{Label: "5", Suffix: "5"},
	{Label: "+Inf", Suffix: "inf"},
}

// Cumulative turns raw per-bucket counts into running totals. Missing buckets
// count as zero and extra ones are ignored.
func Cumulative(raw []uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := range out {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
