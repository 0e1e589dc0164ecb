package normalize

import "testing"

func TestStringNormalizers(t *testing.T) {
	tests := []struct {
		fn    string
		apply func(string) string
		in    string
		want  string
	}{
		{"Email", Email, "  Lea.Martin@Incuba.FR ", "lea.martin@incuba.fr"},
		{"Email", Email, "\t", ""},
		{"Name", Name, "  Léa \t  Martin ", "Léa Martin"},
		{"Name", Name, "Jean-Baptiste  DE  LA  Tour", "Jean-Baptiste DE LA Tour"},
		{"Name", Name, "", ""},
		{"Role", Role, " Mentor", "mentor"},
		{"Role", Role, "ADHERENT", "adherent"},
		{"Status", Status, "Disabled ", "disabled"},
		{"Status", Status, "   ", ""},
		{"QueryParam", QueryParam, "  Projet Alpha ", "Projet Alpha"},
		{"QueryParam", QueryParam, "7days", "7days"},
	}

	for _, tt := range tests {
		t.Run(tt.fn+"/"+tt.in, func(t *testing.T) {
			if got := tt.apply(tt.in); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.fn, tt.in, got, tt.want)
			}
		})
	}
}

func TestOrgID(t *testing.T) {
	hex := "65f0a1b2c3d4e5f6a7b8c9d0"
	tests := map[string]string{
		hex:             hex,
		"  " + hex + " ": hex,
		"all":           "",
		" ALL ":         "",
		"All":           "",
		"":              "",
	}
	for in, want := range tests {
		if got := OrgID(in); got != want {
			t.Errorf("OrgID(%q) = %q, want %q", in, got, want)
		}
	}
}
