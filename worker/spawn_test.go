package worker

import "testing"

func TestIsRecursive(t *testing.T) {
	t.Setenv(ActiveGuardVar, "")
	if IsRecursive() {
		t.Errorf("expected IsRecursive() false when unset")
	}
	t.Setenv(ActiveGuardVar, "1")
	if !IsRecursive() {
		t.Errorf("expected IsRecursive() true when set to 1")
	}
}

func TestSplitEnv(t *testing.T) {
	cases := []struct {
		in        string
		wantName  string
		wantValue string
	}{
		{"FOO=bar", "FOO", "bar"},
		{"FOO=", "FOO", ""},
		{"FOO", "FOO", ""},
		{"FOO=bar=baz", "FOO", "bar=baz"},
	}
	for _, c := range cases {
		name, value := splitEnv(c.in)
		if name != c.wantName || value != c.wantValue {
			t.Errorf("splitEnv(%q) = (%q, %q), want (%q, %q)", c.in, name, value, c.wantName, c.wantValue)
		}
	}
}
