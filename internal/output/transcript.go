package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mj1618/arena-access/internal/announce"
	"github.com/mj1618/arena-access/internal/platform"
)

const (
	columnWidthFrame = 7
	columnWidthKind  = 10
)

// TranscriptStyle holds the styles used to render announcements.
type TranscriptStyle struct {
	Frame     lipgloss.Style
	Normal    lipgloss.Style
	High      lipgloss.Style
	Interrupt lipgloss.Style
	Verbose   lipgloss.Style
	Heading   lipgloss.Style
}

// DefaultTranscriptStyle uses the 16-color ANSI palette.
func DefaultTranscriptStyle() TranscriptStyle {
	return TranscriptStyle{
		Frame:     lipgloss.NewStyle().Width(columnWidthFrame).Foreground(lipgloss.Color("8")),
		Normal:    lipgloss.NewStyle(),
		High:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Interrupt: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Verbose:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Heading:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
}

// PlainTranscriptStyle renders without any escape sequences.
func PlainTranscriptStyle() TranscriptStyle {
	return TranscriptStyle{
		Frame:     lipgloss.NewStyle().Width(columnWidthFrame),
		Normal:    lipgloss.NewStyle(),
		High:      lipgloss.NewStyle(),
		Interrupt: lipgloss.NewStyle(),
		Verbose:   lipgloss.NewStyle(),
		Heading:   lipgloss.NewStyle(),
	}
}

// RenderTranscript renders one line per announcement: frame, kind, text.
func RenderTranscript(entries []announce.Entry, style TranscriptStyle) string {
	var b strings.Builder
	kindStyle := lipgloss.NewStyle().Width(columnWidthKind)
	for _, e := range entries {
		text := style.textStyle(e).Render(e.Text)
		frame := style.Frame.Render(fmt.Sprintf("#%d", e.Frame))
		kind := kindStyle.Render(kindLabel(e))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, frame, kind, text))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderHeading renders a section title such as a step header.
func RenderHeading(title string, style TranscriptStyle) string {
	return style.Heading.Render(title)
}

// FprintTranscript writes a rendered transcript to w.
func FprintTranscript(w io.Writer, entries []announce.Entry, style TranscriptStyle) error {
	_, err := io.WriteString(w, RenderTranscript(entries, style))
	return err
}

func (s TranscriptStyle) textStyle(e announce.Entry) lipgloss.Style {
	switch {
	case e.Kind == announce.KindInterrupt:
		return s.Interrupt
	case e.Kind == announce.KindVerbose:
		return s.Verbose
	case e.Priority == platform.PriorityHigh:
		return s.High
	default:
		return s.Normal
	}
}

func kindLabel(e announce.Entry) string {
	switch e.Kind {
	case announce.KindInterrupt:
		return "interrupt"
	case announce.KindVerbose:
		return "verbose"
	}
	if e.Priority == platform.PriorityHigh {
		return "high"
	}
	return ""
}
