package domain

import "testing"

func TestParseSendTime(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 8 * 60, false},
		{"00:00", 0, false},
		{"23:59", 23*60 + 59, false},
		{" 9:30 ", 9*60 + 30, false},
		{"", 0, true},
		{"8", 0, true},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"ab:cd", 0, true},
	}
	for _, c := range cases {
		got, err := ParseSendTime(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("%q: want error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: want %d, got %d", c.in, c.want, got)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(8 * 60); got != "08:00" {
		t.Errorf("want 08:00, got %s", got)
	}
	if got := FormatMinutes(23*60 + 59); got != "23:59" {
		t.Errorf("want 23:59, got %s", got)
	}
}

func TestValidateLanguage(t *testing.T) {
	for _, in := range []string{"en", "English", "ENGLISH"} {
		if got, err := ValidateLanguage(in); err != nil || got != LangEnglish {
			t.Errorf("%q: got %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"de", "German", "deutsch"} {
		if got, err := ValidateLanguage(in); err != nil || got != LangGerman {
			t.Errorf("%q: got %q, %v", in, got, err)
		}
	}
	if _, err := ValidateLanguage("fr"); err == nil {
		t.Error("fr: want error")
	}
}

func TestValidateTZ(t *testing.T) {
	if _, err := ValidateTZ("Europe/Berlin"); err != nil {
		t.Errorf("Europe/Berlin: %v", err)
	}
	if _, err := ValidateTZ("Nowhere/Nonsense"); err == nil {
		t.Error("bogus tz: want error")
	}
}
