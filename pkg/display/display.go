// Package display renders debate sessions for the terminal. Pure
// presentation over debate.Turn and debate.Result; the engine never
// depends on it.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"FightBot/pkg/debate"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)

	speakerAStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	speakerBStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	roundStyle    = lipgloss.NewStyle().Faint(true)
	contentStyle  = lipgloss.NewStyle().Width(100)
	dividerStyle  = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("240"))

	statusStyles = map[debate.Status]lipgloss.Style{
		debate.StatusCompleted:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		debate.StatusInterrupted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		debate.StatusErrored:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}

	verdictStyle = lipgloss.NewStyle().
			Italic(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(100)
)

// Renderer writes styled session output to a terminal.
type Renderer struct {
	out      io.Writer
	speakerA string
	speakerB string
}

// NewRenderer creates a renderer. speakerA and speakerB pick stable colors
// for the two participants.
func NewRenderer(out io.Writer, speakerA, speakerB string) *Renderer {
	return &Renderer{out: out, speakerA: speakerA, speakerB: speakerB}
}

// Banner prints the session header.
func (r *Renderer) Banner(topic string, maxRounds int) {
	limit := "unlimited"
	if maxRounds > 0 {
		limit = fmt.Sprintf("%d rounds", maxRounds)
	}
	banner := fmt.Sprintf("DEBATE: %s\n%s vs %s | %s", topic, r.speakerA, r.speakerB, limit)
	fmt.Fprintln(r.out, bannerStyle.Render(banner))
}

func (r *Renderer) speakerStyle(name string) lipgloss.Style {
	if name == r.speakerB {
		return speakerBStyle
	}
	return speakerAStyle
}

// Turn prints one transcript entry as it happens.
func (r *Renderer) Turn(t debate.Turn) {
	label := "opening"
	if t.Round > 0 {
		label = fmt.Sprintf("round %d", t.Round)
	}
	fmt.Fprintf(r.out, "%s %s\n%s\n%s\n",
		r.speakerStyle(t.Speaker).Render(t.Speaker+":"),
		roundStyle.Render("("+label+")"),
		contentStyle.Render(t.Content),
		dividerStyle.Render(strings.Repeat("─", 50)),
	)
}

// Report prints the terminal status, completed round count, and the
// transcript location.
func (r *Renderer) Report(res *debate.Result) {
	style, ok := statusStyles[res.Status]
	if !ok {
		style = roundStyle
	}
	fmt.Fprintf(r.out, "\n%s after %d completed rounds\n",
		style.Render(strings.ToUpper(string(res.Status))), res.Rounds)
	if res.Err != nil {
		fmt.Fprintf(r.out, "error: %v\n", res.Err)
	}
	if res.TranscriptPath != "" {
		fmt.Fprintf(r.out, "transcript: %s\n", res.TranscriptPath)
	}
}

// Verdict prints the judge's summary.
func (r *Renderer) Verdict(text string) {
	fmt.Fprintf(r.out, "\n%s\n", verdictStyle.Render("Judge: "+text))
}
