package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MrEthical07/argonchain"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sirupsen/logrus"
)

// newLogger maps the debug level onto logrus levels: 0 warnings only,
// 1 everything including per-iteration details, 2 one line per password.
func newLogger(w io.Writer, debugLevel int) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: debugLevel != 1,
		FullTimestamp:    true,
	})

	switch debugLevel {
	case 1:
		l.SetLevel(logrus.DebugLevel)
	case 2:
		l.SetLevel(logrus.InfoLevel)
	default:
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

// passwordLogger reports every password through the logger: at info level as
// a numbered line, at debug level with salt index and timing.
type passwordLogger struct {
	log *logrus.Logger
}

func (p passwordLogger) OnPassword(_ context.Context, it argonchain.Iteration) {
	width := len(strconv.Itoa(it.Total))
	if width < 2 {
		width = 2
	}

	if p.log.IsLevelEnabled(logrus.DebugLevel) {
		p.log.WithFields(logrus.Fields{
			"iteration":  fmt.Sprintf("%d/%d", it.Index+1, it.Total),
			"salt_index": it.SaltIndex,
			"elapsed":    it.Elapsed.String(),
		}).Debugf("generated password: %s", it.Password)
		return
	}
	p.log.Infof("Generated Password %0*d/%d: %s", width, it.Index+1, it.Total, it.Password)
}

// progressBar redraws a single terminal line after each password.
type progressBar struct {
	mu    sync.Mutex
	w     io.Writer
	bar   progress.Model
	total int
	done  int
}

func newProgressBar(w io.Writer, total int) *progressBar {
	return &progressBar{
		w:     w,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
}

func (p *progressBar) OnPassword(context.Context, argonchain.Iteration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.render()
}

func (p *progressBar) render() {
	pct := 0.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total)
	}
	fmt.Fprintf(p.w, "\rGenerating passwords %s %d/%d", p.bar.ViewAs(pct), p.done, p.total)
}

// Finish terminates the progress line.
func (p *progressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Padding(0, 1)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Padding(0, 1)
	finalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// renderSummary draws the run summary. The initial value and salts are shown
// only by length and count.
func renderSummary(initial string, n int, r argonchain.Report, res *argonchain.Result) string {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}

	rows := [][]string{
		{"Initial String", strings.Repeat("*", min(len(initial), 8)) + fmt.Sprintf(" (%d chars)", len(initial))},
		{"Iterations", strconv.Itoa(n)},
		{"Number of Salts", strconv.Itoa(r.SaltCount)},
		{"Argon2 Cost", fmt.Sprintf("t=%d m=%d KiB p=%d", r.Argon2.Time, r.Argon2.Memory, r.Argon2.Parallelism)},
		{"Include Uppercase", yesNo(r.Policy.IncludeUpper)},
		{"Include Special Characters", yesNo(r.Policy.IncludeSpecial)},
		{"Password Length", strconv.Itoa(r.Policy.Length)},
		{"Elapsed", res.Elapsed.Round(time.Millisecond).String()},
		{"Run ID", res.RunID},
		{"Final Password", res.Final()},
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers("Parameter", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			if col == 0 {
				return keyStyle
			}
			return valueStyle
		})

	return titleStyle.Render("Password Generation Summary") + "\n" + t.String() + "\n"
}

func renderFinal(password string) string {
	return finalStyle.Render("Final Generated Password: "+password) + "\n"
}
