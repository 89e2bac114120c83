package argument

import "testing"

func TestDetectFamily(t *testing.T) {
	cases := []struct {
		executable string
		argv       []string
		want       Family
	}{
		{"cl.exe", nil, FamilyMsvc},
		{`C:\VC\bin\cl.exe`, nil, FamilyMsvc},
		{"/usr/bin/clang++", nil, FamilyGcc},
		{"/usr/bin/gcc", nil, FamilyGcc},
		{"clang-cl.exe", nil, FamilyMsvc},
		{"clang-cl.exe", []string{"--driver-mode=gcc"}, FamilyGcc},
		{"clang", []string{"--driver-mode=cl"}, FamilyMsvc},
		{"python3", nil, FamilyUnknown},
	}

	for _, c := range cases {
		if got := DetectFamily(c.executable, c.argv); got != c.want {
			t.Errorf("DetectFamily(%q, %v) = %v, want %v", c.executable, c.argv, got, c.want)
		}
	}
}

func TestFamilyString(t *testing.T) {
	if FamilyMsvc.String() != "Msvc" {
		t.Errorf("unexpected Family.String(): %v", FamilyMsvc.String())
	}
	if FamilyUnknown.String() != "Unknown" {
		t.Errorf("unexpected Family.String(): %v", FamilyUnknown.String())
	}
}

func TestGrammarForUnknownIsNil(t *testing.T) {
	if GrammarFor(FamilyUnknown) != nil {
		t.Errorf("GrammarFor(FamilyUnknown) should be nil")
	}
}
