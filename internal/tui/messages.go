package tui

import "github.com/avtomat-app/avtomat/internal/wizard"

// machineEventMsg carries a resolved wizard effect's event, tagged with
// the machine that issued it. Events for a machine the selector no
// longer owns are dropped.
type machineEventMsg struct {
	machine *wizard.Machine
	event   wizard.Event
}

// dialogDismissedMsg fires after a modal closes and its ack callback
// has run.
type dialogDismissedMsg struct{}
