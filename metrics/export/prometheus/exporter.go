package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrEthical07/argonchain"
	"github.com/MrEthical07/argonchain/metrics/export/internaldefs"
)

// Source is satisfied by *argonchain.Generator.
type Source interface {
	MetricsSnapshot() argonchain.MetricsSnapshot
	AuditDropped() uint64
}

// Exporter renders generator metrics in the Prometheus text format.
type Exporter struct {
	source Source
}

func New(source Source) *Exporter {
	return &Exporter{source: source}
}

// Handler serves Render over HTTP.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(e.Render()))
	})
}

// Render returns the exposition text, or "" while metrics are disabled.
func (e *Exporter) Render() string {
	if e == nil || e.source == nil {
		return ""
	}

	snap := e.source.MetricsSnapshot()
	dropped := e.source.AuditDropped()
	if len(snap.Counters) == 0 && len(snap.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(2048)

	for _, c := range internaldefs.Counters {
		header(&b, c.Name, c.Help, "counter")
		sample(&b, c.Name, "", snap.Counters[c.ID])
	}

	for _, h := range internaldefs.Histograms {
		cum := internaldefs.Cumulative(snap.Histograms[h.ID])
		header(&b, h.Name, h.Help, "histogram")
		for i, bound := range internaldefs.Bounds {
			sample(&b, h.Name+"_bucket", `le="`+bound.Label+`"`, cum[i])
		}
		sample(&b, h.Name+"_count", "", cum[len(cum)-1])
		// Snapshots keep bucket counts only.
		sample(&b, h.Name+"_sum", "", 0)
	}

	header(&b, internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, "counter")
	sample(&b, internaldefs.AuditDroppedName, "", dropped)

	return b.String()
}

func header(b *strings.Builder, name, help, kind string) {
	help = strings.ReplaceAll(help, `\`, `\\`)
	help = strings.ReplaceAll(help, "\n", `\n`)
	b.WriteString("# HELP " + name + " " + help + "\n")
	b.WriteString("# TYPE " + name + " " + kind + "\n")
}

func sample(b *strings.Builder, name, labels string, v uint64) {
	b.WriteString(name)
	if labels != "" {
		b.WriteString("{" + labels + "}")
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(v, 10))
	b.WriteByte('\n')
}
