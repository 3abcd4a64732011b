package tui

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// StatusMsg shows a transient confirmation in the footer
type StatusMsg struct {
	Text string
}
