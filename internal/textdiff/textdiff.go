// Package textdiff derives splice edits from two versions of a text and
// renders unified diffs for display.
package textdiff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/multisplice"
)

// Derive returns byte-offset edits that turn a into b. The edits are
// sorted, never overlap and apply to a Splicer over a in any order.
//
// A deletion directly followed by an insertion becomes one replacement.
func Derive(a, b string) []multisplice.Edit {
	if a == b {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(a, b, false))

	var (
		edits   []multisplice.Edit
		pos     int
		pending *multisplice.Edit
	)
	flush := func() {
		if pending != nil {
			edits = append(edits, *pending)
			pending = nil
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			pos += len(d.Text)
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &multisplice.Edit{Start: pos, End: pos}
			}
			pending.End += len(d.Text)
			pos += len(d.Text)
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &multisplice.Edit{Start: pos, End: pos}
			}
			pending.Text += d.Text
		}
	}
	flush()

	return edits
}

// Unified returns a unified diff of a and b with the given number of
// context lines. Equal inputs produce an empty string.
func Unified(name, a, b string, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// Styles colors the parts of a unified diff.
type Styles struct {
	Header    lipgloss.Style
	Hunk      lipgloss.Style
	Added     lipgloss.Style
	Removed   lipgloss.Style
	Unchanged lipgloss.Style
}

// Diff colors
var (
	ColorAdded   = lipgloss.Color("#10B981") // Emerald
	ColorRemoved = lipgloss.Color("#EF4444") // Red
	ColorHunk    = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted   = lipgloss.Color("#94A3B8") // Slate 400
)

// DefaultStyles returns the styles used by Colorize.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true),
		Hunk:      lipgloss.NewStyle().Foreground(ColorHunk),
		Added:     lipgloss.NewStyle().Foreground(ColorAdded),
		Removed:   lipgloss.NewStyle().Foreground(ColorRemoved),
		Unchanged: lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// Colorize colors a unified diff with DefaultStyles.
func Colorize(diff string) string {
	return DefaultStyles().Colorize(diff)
}

// Colorize colors each line of a unified diff by its leading marker.
// Colors are dropped when the output is not a terminal.
func (s Styles) Colorize(diff string) string {
	if diff == "" {
		return ""
	}

	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body, nl := strings.CutSuffix(line, "\n")

		var style lipgloss.Style
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			style = s.Header
		case strings.HasPrefix(body, "@@"):
			style = s.Hunk
		case strings.HasPrefix(body, "+"):
			style = s.Added
		case strings.HasPrefix(body, "-"):
			style = s.Removed
		default:
			style = s.Unchanged
		}

		sb.WriteString(style.Render(body))
		if nl {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
