// Package notify tells the user's contacts about new calendar events.
// Contacts live in a vCard file; delivery goes over MQTT so any
// subscriber (a phone automation, a home dashboard) can route the
// message onward.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/emersion/go-vcard"
)

// NotifyProperty is the vCard extension property selecting when a
// contact hears about new events.
const NotifyProperty = "X-DAYBOOK-NOTIFY"

// Notification modes.
const (
	ModeAlways    = "always"    // every calendar event
	ModeMentioned = "mentioned" // only when their name appears in the input
	ModeNever     = "never"
)

// Contact is one person who may be notified.
type Contact struct {
	Name string
	Mode string
}

// LoadContacts reads contacts from a vCard file. Cards without a
// NotifyProperty default to never. A missing file is not an error;
// notifications are simply disabled.
func LoadContacts(path string) ([]Contact, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open contacts file: %w", err)
	}
	defer f.Close()

	return ParseContacts(f)
}

// ParseContacts decodes every card in the stream.
func ParseContacts(r io.Reader) ([]Contact, error) {
	dec := vcard.NewDecoder(r)

	var contacts []Contact
	for {
		card, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode vcard: %w", err)
		}

		name := card.PreferredValue(vcard.FieldFormattedName)
		if name == "" {
			continue
		}

		mode := strings.ToLower(strings.TrimSpace(card.Value(NotifyProperty)))
		switch mode {
		case ModeAlways, ModeMentioned:
		default:
			mode = ModeNever
		}

		contacts = append(contacts, Contact{Name: name, Mode: mode})
	}
	return contacts, nil
}

// ShouldNotify applies the contact's mode against the raw input text.
// Mentioned-mode matches any single part of the contact's name,
// case-insensitively, the same loose rule a person would expect from
// "text Sam when I mention them". The explicit flag is the classifier's
// notify_partner signal; it satisfies mentioned mode without a name
// match but never overrides never.
func (c Contact) ShouldNotify(rawInput string, explicit bool) bool {
	switch c.Mode {
	case ModeAlways:
		return true
	case ModeMentioned:
		if explicit {
			return true
		}
		lower := strings.ToLower(rawInput)
		for _, part := range strings.Fields(strings.ToLower(c.Name)) {
			if strings.Contains(lower, part) {
				return true
			}
		}
	}
	return false
}
