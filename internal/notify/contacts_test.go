package notify

import (
	"strings"
	"testing"
)

const testVCards = `BEGIN:VCARD
VERSION:4.0
FN:Sam Rivera
X-DAYBOOK-NOTIFY:always
END:VCARD
BEGIN:VCARD
VERSION:4.0
FN:Jo Park
X-DAYBOOK-NOTIFY:mentioned
END:VCARD
BEGIN:VCARD
VERSION:4.0
FN:Quiet Person
END:VCARD
`

func TestParseContacts(t *testing.T) {
	contacts, err := ParseContacts(strings.NewReader(testVCards))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(contacts) != 3 {
		t.Fatalf("got %d contacts, want 3", len(contacts))
	}

	want := []Contact{
		{Name: "Sam Rivera", Mode: ModeAlways},
		{Name: "Jo Park", Mode: ModeMentioned},
		{Name: "Quiet Person", Mode: ModeNever},
	}
	for i, w := range want {
		if contacts[i] != w {
			t.Errorf("contacts[%d] = %+v, want %+v", i, contacts[i], w)
		}
	}
}

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		name     string
		contact  Contact
		input    string
		explicit bool
		want     bool
	}{
		{"always regardless of input", Contact{Name: "Sam", Mode: ModeAlways}, "dentist at noon", false, true},
		{"mentioned by first name", Contact{Name: "Jo Park", Mode: ModeMentioned}, "dinner with jo on friday", false, true},
		{"mentioned by last name", Contact{Name: "Jo Park", Mode: ModeMentioned}, "tell Park about the show", false, true},
		{"mentioned but absent", Contact{Name: "Jo Park", Mode: ModeMentioned}, "dentist at noon", false, false},
		{"mentioned via explicit flag", Contact{Name: "Jo Park", Mode: ModeMentioned}, "dentist at noon", true, true},
		{"never even when named", Contact{Name: "Quiet Person", Mode: ModeNever}, "lunch with quiet person", false, false},
		{"never even when explicit", Contact{Name: "Quiet Person", Mode: ModeNever}, "dentist at noon", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.contact.ShouldNotify(tt.input, tt.explicit); got != tt.want {
				t.Errorf("ShouldNotify(%q, %v) = %v, want %v", tt.input, tt.explicit, got, tt.want)
			}
		})
	}
}

func TestLoadContactsMissingFile(t *testing.T) {
	contacts, err := LoadContacts("/nonexistent/contacts.vcf")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if contacts != nil {
		t.Errorf("contacts = %v, want nil", contacts)
	}
}
