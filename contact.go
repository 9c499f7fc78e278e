package moderator

import (
	"net/url"
	"strings"
)

// Default texts of the contact draft.
const (
	DefaultContactSubject = "Regarding your Lost & Found post"
	DefaultContactBody    = "Hello,\n\nThis is regarding your post on TrainTrack Lost & Found.\n\n— Staff"
)

// ContactTemplate is the subject and body pre-filled in a contact draft.
type ContactTemplate struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// DefaultContactTemplate returns the built-in contact texts.
func DefaultContactTemplate() ContactTemplate {
	return ContactTemplate{Subject: DefaultContactSubject, Body: DefaultContactBody}
}

var emailStripper = strings.NewReplacer(`"`, "", `'`, "", "<", "", ">", "")

// ComposeContact builds a mailto: link addressed to the poster of an item,
// for hand-off to the user's mail client.
func ComposeContact(email string, tmpl ContactTemplate) (string, error) {
	addr := strings.TrimSpace(emailStripper.Replace(email))
	if addr == "" {
		return "", ErrNoEmail
	}

	return "mailto:" + encodeComponent(addr) +
		"?subject=" + encodeComponent(tmpl.Subject) +
		"&body=" + encodeComponent(tmpl.Body), nil
}

// encodeComponent escapes s for a mailto: URL, where spaces must be %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
