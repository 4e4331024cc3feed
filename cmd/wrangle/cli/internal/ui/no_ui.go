package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/clio"
	"github.com/anchore/wrangle/event"
	"github.com/anchore/wrangle/internal/log"
)

var _ clio.UI = (*NoUI)(nil)

var notificationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("249")) // 249 = grey70

// NoUI collects report and notification events and writes them out at teardown, without any terminal
// interaction.
type NoUI struct {
	finalizeEvents []partybus.Event
	subscription   partybus.Unsubscribable
	quiet          bool
	out            io.Writer
	errOut         io.Writer
}

func None(quiet bool) *NoUI {
	return &NoUI{
		quiet:  quiet,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

func (n *NoUI) Setup(subscription partybus.Unsubscribable) error {
	n.subscription = subscription
	return nil
}

func (n *NoUI) Handle(e partybus.Event) error {
	switch e.Type {
	case event.CLIReport, event.CLINotification:
		// keep these for when the UI is torn down
		n.finalizeEvents = append(n.finalizeEvents, e)
	}
	return nil
}

func (n *NoUI) Teardown(_ bool) error {
	n.writeEvents()
	return nil
}

func (n *NoUI) writeEvents() {
	for _, e := range n.finalizeEvents {
		switch e.Type {
		case event.CLIReport:
			_, report, err := event.ParseCLIReport(e)
			if err != nil {
				log.WithFields("error", err).Warn("failed to gather final report")
				continue
			}
			// reports are always shown, even in quiet mode
			fmt.Fprint(n.out, terminate(report))

		case event.CLINotification:
			if n.quiet {
				continue
			}
			_, notification, err := event.ParseCLINotification(e)
			if err != nil {
				log.WithFields("error", err).Warn("failed to gather notification")
				continue
			}
			fmt.Fprintln(n.errOut, notificationStyle.Render(notification))
		}
	}
}

func terminate(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
