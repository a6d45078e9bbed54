package ui

import "testing"

func TestThemeLookups(t *testing.T) {
	th := GetTheme("Dracula")

	if got := th.StatusColor("  failed "); got != th.StatusColors[statusFailed] {
		t.Fatalf("StatusColor = %q, want %q", got, th.StatusColors[statusFailed])
	}
	if got := th.StatusColor("unknown"); got != th.Muted {
		t.Fatalf("StatusColor unknown = %q, want %q", got, th.Muted)
	}
}

func TestGetTheme_UnknownFallsBackToDracula(t *testing.T) {
	if got := GetTheme("Solarized").Name; got != "Dracula" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Dracula", got)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames = %v, want 2 themes", names)
	}
	for _, name := range names {
		th := GetTheme(name)
		for _, status := range []string{statusIdle, statusWorking, statusReformatted, statusUnchanged, statusCancelled, statusFailed} {
			if th.StatusColors[status] == "" {
				t.Errorf("theme %s has no color for %s", name, status)
			}
		}
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("bogus"); got != "Dracula" {
		t.Fatalf("NextTheme(bogus) = %q, want Dracula", got)
	}
}
