package message

import tea "charm.land/bubbletea/v2"

// ErrorCmd wraps an error as a command.
func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// AlertCmd wraps an alert as a command.
func AlertCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return AlertMsg{Text: text}
	}
}
