package email

import (
	"fmt"
	"html"
)

// Message is a rendered notification ready for a Mailer.
type Message struct {
	Subject string
	HTML    string
}

// HeartbeatReminder is sent while an account is overdue but the grace
// period has not elapsed.
func HeartbeatReminder(name string) Message {
	return Message{
		Subject: "Heartbeat required",
		HTML: fmt.Sprintf(
			"<h1>Hello %s,</h1><p>We have not detected your heartbeat for a while. "+
				"Please log in and check in within the grace period to avoid triggering the legacy transmission.</p>",
			html.EscapeString(name)),
	}
}

// TransmissionTriggered is the final notice to the account owner.
func TransmissionTriggered(name string) Message {
	return Message{
		Subject: "Legacy transmission triggered",
		HTML: fmt.Sprintf(
			"<h1>Final notice</h1><p>The legacy transmission for %s has been triggered. "+
				"Your designated heirs will be notified shortly.</p>",
			html.EscapeString(name)),
	}
}

// HeirNotification carries the access link to one heir. The linked page
// serves only encrypted material; decrypting it still requires the
// passphrase the owner shared out of band.
func HeirNotification(ownerName, accessLink string) Message {
	return Message{
		Subject: fmt.Sprintf("Legacy access: a message from %s", ownerName),
		HTML: fmt.Sprintf(
			"<h1>Hello,</h1><p>%s has entrusted you with a digital legacy. "+
				"You can access the encrypted content here: <a href=%q>%s</a></p>",
			html.EscapeString(ownerName), accessLink, html.EscapeString(accessLink)),
	}
}
