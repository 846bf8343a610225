package notify

import (
	"fmt"
	"strings"

	"github.com/gregdel/pushover"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/departures"
)

const (
	PriorityNormal = 0
	PriorityHigh   = 1
)

// Sender delivers a single message. *pushover.Pushover satisfies it.
type Sender interface {
	SendMessage(message *pushover.Message, recipient *pushover.Recipient) (*pushover.Response, error)
}

type Notifier struct {
	app       Sender
	recipient *pushover.Recipient
	logger    *logrus.Logger
}

func NewNotifier(token, userKey string, logger *logrus.Logger) *Notifier {
	return NewNotifierWithSender(pushover.New(token), userKey, logger)
}

func NewNotifierWithSender(app Sender, userKey string, logger *logrus.Logger) *Notifier {
	return &Notifier{
		app:       app,
		recipient: pushover.NewRecipient(userKey),
		logger:    logger,
	}
}

// SendBoard pushes the visible board for a station.
func (n *Notifier) SendBoard(code string, groups []departures.PlatformGroup) error {
	return n.push(code, "Departures from "+code, FormatBoard(groups), PriorityNormal)
}

// SendStatusChange alerts that a departure's status moved from old to new.
func (n *Notifier) SendStatusChange(code string, dep departures.Departure, old string) error {
	body := fmt.Sprintf("%s %s to %s (platform %s): %s -> %s",
		code, dep.Time, dep.Destination, dep.Platform, old, dep.Status)
	return n.push(code, "Departure Status Change", body, PriorityHigh)
}

func (n *Notifier) push(code, title, body string, priority int) error {
	msg := pushover.NewMessageWithTitle(body, title)
	msg.Priority = priority

	resp, err := n.app.SendMessage(msg, n.recipient)
	if err != nil {
		return fmt.Errorf("sending %s notification for %s: %w", title, code, err)
	}

	n.logger.WithFields(logrus.Fields{
		"crs":        code,
		"priority":   priority,
		"request_id": resp.ID,
	}).Debug("pushover notification sent")

	return nil
}

// FormatBoard renders groups as plain text lines for a notification body.
func FormatBoard(groups []departures.PlatformGroup) string {
	if len(groups) == 0 {
		return "No departures found."
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Platform %s\n", g.Platform)
		for _, d := range g.Departures {
			fmt.Fprintf(&b, "%s %s - %s\n", d.Time, d.Destination, d.Status)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
