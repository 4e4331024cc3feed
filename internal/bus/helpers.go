package bus

import (
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/wrangle/event"
)

// Report publishes a final result meant for stdout.
func Report(report string) {
	Publish(partybus.Event{
		Type:  event.CLIReport,
		Value: report,
	})
}

// Notify publishes auxiliary information meant for stderr.
func Notify(message string) {
	Publish(partybus.Event{
		Type:  event.CLINotification,
		Value: message,
	})
}
