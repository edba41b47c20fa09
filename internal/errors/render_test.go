package errors

import "testing"

func TestRender_MarksTheFailingLine(t *testing.T) {
	source := "let a = 1\nlet b = a + \nlet c = 3"
	ctx := Context{Start: 10, End: 22}
	err := New(ctx, 0, SyntaxError)

	out := Render(err, source, nil)

	for _, want := range []string{"In line 2:", "2| let b = a +", "^", "Error: "} {
		if !contains(out, want) {
			t.Errorf("Render() missing %q, got:\n%s", want, out)
		}
	}
}

func TestRender_Backtrace(t *testing.T) {
	source := "fn f() { return g() }"
	err := New(Context{Start: 0, End: len(source)}, 0, ZeroDivision)
	backtrace := []BacktraceItem{{Name: "g", Line: 1, Col: 18}}

	out := Render(err, source, backtrace)

	for _, want := range []string{"Backtrace:", "g called at", "root", "In function g:"} {
		if !contains(out, want) {
			t.Errorf("Render() missing %q, got:\n%s", want, out)
		}
	}
}

func TestRender_IterationLimitSuppressesMarkerAndBacktrace(t *testing.T) {
	err := New(Context{}, 0, IterationLimitReached)
	out := Render(err, "let x = 1", []BacktraceItem{{Name: "f", Line: 1, Col: 1}})
	if out != "Error: "+err.Error() {
		t.Fatalf("got %q", out)
	}
}

func TestLineColumn(t *testing.T) {
	text := "ab\ncd\nef"
	tests := []struct {
		pos      int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{6, 3, 1},
	}
	for _, tt := range tests {
		line, col := LineColumn(tt.pos, text)
		if line != tt.wantLine || col != tt.wantCol {
			t.Errorf("LineColumn(%d) = (%d,%d), want (%d,%d)", tt.pos, line, col, tt.wantLine, tt.wantCol)
		}
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
