package coordinator

import "testing"

// CompileResult is a tagged union by convention (exactly one of Output
// or Error set); this only pins the zero-value shape so the schema
// stays a plain, serializable struct as it evolves.
func TestCompileResult_ZeroValue(t *testing.T) {
	var r CompileResult
	if r.Output != nil || r.Error != nil {
		t.Errorf("zero-value CompileResult should have neither Output nor Error set, got %+v", r)
	}
}
