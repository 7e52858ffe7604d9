// Package confirm is the gate every edit and delete passes through: it
// presents the pending change and requires a reason and change category
// before the mutation may be dispatched.  When a delete subject still has
// dependent records the gate renders read-only and confirmation is blocked
// outright.
package confirm

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	nt "guichet/entity"
	"guichet/message"
	"guichet/piece"
	"guichet/style"
)

// Categories is the closed list of change categories offered by the gate.
// The leading blank forces an explicit choice.
var Categories = []string{"", "Error correction", "Data quality", "Policy change", "Other"}

type focusTarget int

const (
	focusReason focusTarget = iota
	focusCategory
	focusUrl
	focusConfirm
	focusCancel
)

// ConfirmPanel collects the audit fields for a suspended mutation.
type ConfirmPanel struct {
	request nt.ConfirmationRequest

	reason   piece.TextInput
	category piece.Operator
	refUrl   piece.TextInput
	focus    focusTarget

	width  int
	height int

	ctx    context.Context
	logger nt.Logger
}

func NewConfirmPanel(ctx context.Context, lgr nt.Logger) ConfirmPanel {
	return ConfirmPanel{
		ctx:    ctx,
		logger: lgr,
	}
}

func (pnl ConfirmPanel) Init() tea.Cmd {
	return nil
}

func (pnl ConfirmPanel) Update(msg tea.Msg) (ConfirmPanel, tea.Cmd) {

	switch msg := msg.(type) {

	case message.OpenConfirmMsg: // invoked, not routed msg
		pnl.request = msg.Request
		pnl.reason = piece.NewTextInput("", 200)
		pnl.category = piece.NewOperator(Categories, 0)
		pnl.refUrl = piece.NewTextInput("", 200)
		pnl.focus = focusReason
		if pnl.Blocked() {
			pnl.focus = focusCancel
		}

	case SizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height

	case tea.KeyPressMsg:
		return pnl.handleKey(msg)
	}

	return pnl, nil
}

// Blocked reports whether dependent records block this request outright.
func (pnl ConfirmPanel) Blocked() bool {
	return len(pnl.request.Blockers) > 0
}

// CanConfirm reports whether the confirm action is enabled: a non-empty
// reason and category, and no dependency block.
func (pnl ConfirmPanel) CanConfirm() bool {
	if pnl.Blocked() {
		return false
	}
	return strings.TrimSpace(pnl.reason.Value()) != "" && pnl.category.Value() != ""
}

// Audit returns the collected mutation metadata.
func (pnl ConfirmPanel) Audit() nt.Audit {
	return nt.Audit{
		Reason:       strings.TrimSpace(pnl.reason.Value()),
		Category:     pnl.category.Value(),
		ReferenceUrl: strings.TrimSpace(pnl.refUrl.Value()),
	}
}

func (pnl ConfirmPanel) handleKey(msg tea.KeyPressMsg) (ConfirmPanel, tea.Cmd) {

	switch msg.String() {

	case "esc":
		return pnl, declinedCmd()

	case "tab":
		pnl.focus = pnl.nextFocus(1)
		return pnl, nil

	case "shift+tab":
		pnl.focus = pnl.nextFocus(-1)
		return pnl, nil

	case "enter":
		switch pnl.focus {
		case focusCancel:
			return pnl, declinedCmd()
		case focusConfirm:
			if !pnl.CanConfirm() {
				return pnl, nil
			}
			kind := pnl.request.Kind
			audit := pnl.Audit()
			return pnl, func() tea.Msg {
				return message.ConfirmedMsg{Kind: kind, Audit: audit}
			}
		}
		return pnl, nil
	}

	if pnl.Blocked() {
		return pnl, nil
	}

	switch pnl.focus {
	case focusReason:
		updated, _ := pnl.reason.Update(msg)
		pnl.reason = updated.(piece.TextInput)
	case focusCategory:
		updated, _ := pnl.category.Update(msg)
		pnl.category = updated.(piece.Operator)
	case focusUrl:
		updated, _ := pnl.refUrl.Update(msg)
		pnl.refUrl = updated.(piece.TextInput)
	}

	return pnl, nil
}

func (pnl ConfirmPanel) nextFocus(dir int) focusTarget {
	if pnl.Blocked() {
		return focusCancel
	}
	targets := []focusTarget{focusReason, focusCategory, focusUrl, focusConfirm, focusCancel}
	for i, target := range targets {
		if target == pnl.focus {
			return targets[(i+dir+len(targets))%len(targets)]
		}
	}
	return focusReason
}

func declinedCmd() tea.Cmd {
	return func() tea.Msg {
		return message.DeclinedMsg{}
	}
}

func (pnl ConfirmPanel) View() string {
	var content strings.Builder

	content.WriteString(pnl.title() + "\n\n")

	for _, change := range pnl.request.Diff {
		content.WriteString(fmt.Sprintf("  %s: %q → %q\n", change.Field, change.From, change.To))
	}
	if len(pnl.request.Diff) > 0 {
		content.WriteString("\n")
	}

	if pnl.Blocked() {
		content.WriteString(style.BlockedStyle.Render("Blocked by dependent records:") + "\n")
		for _, blocker := range pnl.request.Blockers {
			content.WriteString("  " + blocker + "\n")
		}
		content.WriteString(style.MutedStyle.Render("\nResolve the dependencies before deleting.  Esc: close"))
	} else {
		content.WriteString(pnl.renderField("reason", pnl.reason.Render()+cursor(pnl.focus == focusReason), focusReason))
		content.WriteString(pnl.renderField("category", orDash(pnl.category.Render()), focusCategory))
		content.WriteString(pnl.renderField("reference url", pnl.refUrl.Render()+cursor(pnl.focus == focusUrl), focusUrl))
		content.WriteString("\n" + pnl.renderButtons())
		content.WriteString("\n" + style.MutedStyle.Render("Tab: next  ←→: category  Enter: press  Esc: cancel"))
	}

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Width(64)

	return dialogStyle.Render(content.String())
}

func (pnl ConfirmPanel) title() string {
	switch pnl.request.Kind {
	case nt.ConfirmDelete:
		return fmt.Sprintf("Delete %s?", pnl.request.Subject)
	case nt.ConfirmParticipation:
		return fmt.Sprintf("Change participation for %s?", pnl.request.Subject)
	case nt.ConfirmNavigation:
		return fmt.Sprintf("Discard unsaved changes to %s?", pnl.request.Subject)
	}
	return fmt.Sprintf("Save changes to %s?", pnl.request.Subject)
}

func (pnl ConfirmPanel) renderField(label, value string, target focusTarget) string {
	line := fmt.Sprintf("%-14s %s", label+":", value)
	if pnl.focus == target {
		line = style.SelectedStyle.Render(line)
	}
	return line + "\n"
}

func (pnl ConfirmPanel) renderButtons() string {

	confirmLabel := "[ confirm ]"
	if !pnl.CanConfirm() {
		confirmLabel = style.MutedStyle.Render("[ confirm ]")
	} else if pnl.focus == focusConfirm {
		confirmLabel = style.SelectedStyle.Render(confirmLabel)
	}

	cancelLabel := "[ cancel ]"
	if pnl.focus == focusCancel {
		cancelLabel = style.SelectedStyle.Render(cancelLabel)
	}

	return confirmLabel + "  " + cancelLabel
}

func cursor(focused bool) string {
	if focused {
		return "▏"
	}
	return ""
}

func orDash(text string) string {
	if text == "" {
		return "—"
	}
	return text
}
