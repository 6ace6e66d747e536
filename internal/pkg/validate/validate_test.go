package validate

import "testing"

func TestEmail(t *testing.T) {
	valid := []string{"a@x.com", "user.name+tag@example.co.uk"}
	for _, v := range valid {
		if !Email(v) {
			t.Fatalf("expected %q valid", v)
		}
	}

	invalid := []string{"", "no-at-sign", "a@", "Display Name <a@x.com>", "  "}
	for _, v := range invalid {
		if Email(v) {
			t.Fatalf("expected %q invalid", v)
		}
	}
}

func TestPhone(t *testing.T) {
	valid := []string{"+2348012345678", "8012345678", "+14155552671"}
	for _, v := range valid {
		if !Phone(v) {
			t.Fatalf("expected %q valid", v)
		}
	}

	invalid := []string{"", "123", "+1-415-555", "phone", "1234567890123456"}
	for _, v := range invalid {
		if Phone(v) {
			t.Fatalf("expected %q invalid", v)
		}
	}
}
