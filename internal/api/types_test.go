package api

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", "", false},
		{"basic", ModeBasic, false},
		{"standard", ModeStandard, false},
		{"full", ModeFull, false},
		{"FULL", "", true},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModeDefaults(t *testing.T) {
	if got := Mode("").or(ModeFull); got != ModeFull {
		t.Errorf("empty mode should fall back, got %q", got)
	}
	if got := ModeBasic.or(ModeFull); got != ModeBasic {
		t.Errorf("explicit mode should win, got %q", got)
	}
	if got := VoterType("").or(VoterTypeActual); got != VoterTypeActual {
		t.Errorf("empty voter type should fall back, got %q", got)
	}
}

func TestPageQuery(t *testing.T) {
	tests := []struct {
		page int
		want string
	}{
		{1, "page=1"},
		{4, "page=4"},
		{0, "page=1"},
		{-3, "page=1"},
	}
	for _, tt := range tests {
		if got := pageQuery(tt.page).Encode(); got != tt.want {
			t.Errorf("pageQuery(%d) = %q, want %q", tt.page, got, tt.want)
		}
	}

	if got := pageModeQuery(2, ModeBasic).Encode(); got != "mode=basic&page=2" {
		t.Errorf("pageModeQuery = %q", got)
	}
}
