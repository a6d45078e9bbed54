package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/blackconnect/internal/reformat"
	"github.com/five82/blackconnect/internal/state"
)

// File status labels shown as badges.
const (
	statusIdle        = "idle"
	statusWorking     = "working"
	statusReformatted = "reformatted"
	statusUnchanged   = "unchanged"
	statusCancelled   = "cancelled"
	statusFailed      = "failed"
)

const visibleNotifications = 5

// statusFor summarizes an entry's latest operation.
func statusFor(op *reformat.Operation) string {
	if op == nil {
		return statusIdle
	}
	select {
	case <-op.Done():
	default:
		return statusWorking
	}
	switch op.Phase() {
	case state.PhaseApplying:
		return statusReformatted
	case state.PhaseDiscarded:
		return statusCancelled
	}
	if outcome, ok := op.Outcome(); ok && outcome.Kind == reformat.KindNoChange {
		return statusUnchanged
	}
	return statusFailed
}

// View implements tea.Model.
func (m Model) View() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Header.Render(m.renderDaemon(styles)))
	b.WriteString("\n\n")

	if len(m.files) == 0 {
		b.WriteString(styles.MutedText.Render("  No supported files"))
		b.WriteString("\n")
	}
	for i, entry := range m.files {
		b.WriteString(m.renderFile(styles, i, entry))
		b.WriteString("\n")
	}

	if len(m.notes) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Panel.Render(m.renderNotes(styles)))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("  " + m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Footer.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderDaemon(styles Styles) string {
	snap := m.daemon
	target := snap.Endpoint
	if target == "" {
		target = m.endpoint
	}
	endpoint := styles.FaintText.Render(target)
	if n := m.inFlight(); n > 0 {
		endpoint += "  " + styles.AccentText.Render(fmt.Sprintf("%d in flight", n))
	}
	switch {
	case !snap.Checked():
		return styles.WarningText.Render("Connecting to blackd...") + "  " + endpoint
	case snap.Reachable:
		return styles.SuccessText.Render("blackd "+snap.Version) + "  " + endpoint
	case snap.IsOffline():
		return styles.DangerText.Render("blackd offline") + "  " + styles.MutedText.Render(firstLine(snap.LastError)) + "  " + endpoint
	default:
		return styles.WarningText.Render("blackd unreachable, retrying") + "  " + endpoint
	}
}

// inFlight counts operations the workflow still tracks.
func (m Model) inFlight() int {
	if m.workflow == nil {
		return 0
	}
	return len(m.workflow.Registry().Active())
}

func (m Model) renderFile(styles Styles, idx int, entry *fileEntry) string {
	status := statusFor(entry.op)
	badge := styles.StatusStyle(status).Render(fmt.Sprintf("%-11s", status))

	name := entry.buf.Name()
	if entry.buf.Dirty() {
		name += " *"
	}
	detail := ""
	if status == statusWorking {
		elapsed := time.Since(entry.op.Started()).Truncate(100 * time.Millisecond)
		detail = styles.FaintText.Render(fmt.Sprintf(" %s %s", entry.op.Phase(), elapsed))
	}
	if edits := len(entry.buf.History()); edits > 0 {
		detail += styles.FaintText.Render(fmt.Sprintf(" (%d undoable)", edits))
	}

	line := fmt.Sprintf(" %s %s%s", badge, name, detail)
	if idx == m.selected {
		return styles.Selected.Render(">" + line)
	}
	return " " + line
}

func (m Model) renderNotes(styles Styles) string {
	notes := m.notes
	if len(notes) > visibleNotifications {
		notes = notes[len(notes)-visibleNotifications:]
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, styles.DangerText.Render(n.Title)+" "+
			styles.FaintText.Render(n.DocumentID)+"\n  "+
			styles.Text.Render(strings.ReplaceAll(n.Message, "\n", "\n  ")))
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
