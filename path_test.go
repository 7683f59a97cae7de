package jsonmodels

import "testing"

func TestPath_Render(t *testing.T) {
	cases := []struct {
		p    *path
		want string
	}{
		{rootPath, "$"},
		{rootPath.Field("name"), "$.name"},
		{rootPath.Field("items").Index(2).Field("dynamic"), "$.items[2].dynamic"},
		{rootPath.Index(0).Index(1), "$[0][1]"},
		{rootPath.Field("a b").Field("_ok9"), `$["a b"]._ok9`},
		{rootPath.Field("9lives"), `$["9lives"]`},
	}
	for _, c := range cases {
		if got := c.p.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestPath_SharedParents(t *testing.T) {
	items := rootPath.Field("items")
	a := items.Index(0)
	b := items.Index(1)
	if a.String() != "$.items[0]" || b.String() != "$.items[1]" {
		t.Fatalf("siblings interfere: %s %s", a, b)
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := Issues{
		{Path: "/a", Code: CodeInvalidType},
		{Path: "/b", Code: CodeUnknownKey},
		{Path: "/c", Code: CodeTooShort},
		{Path: "/d", Code: CodeTooLong},
	}
	want := "invalid_type at /a; unknown_key at /b; too_short at /c; ... (total 4)"
	if got := iss.Error(); got != want {
		t.Fatalf("got %q", got)
	}
	if got := (Issues{}).Error(); got != "" {
		t.Fatalf("empty issues: %q", got)
	}
}

func TestCodeForKeyword(t *testing.T) {
	cases := map[string]string{
		"type":                 CodeInvalidType,
		"required":             CodeRequired,
		"additionalProperties": CodeUnknownKey,
		"format":               CodeInvalidFormat,
		"enum":                 CodeInvalidEnum,
		"minimum":              CodeTooSmall,
		"exclusiveMaximum":     CodeTooBig,
		"minItems":             CodeTooShort,
		"maxLength":            CodeTooLong,
		"pattern":              CodePattern,
		"if":                   CodeInvalid,
	}
	for kw, want := range cases {
		if got := codeForKeyword(kw); got != want {
			t.Errorf("%s: got %s, want %s", kw, got, want)
		}
	}
}

func TestBuildError_Message(t *testing.T) {
	err := stampBuild(rootPath.Field("x"), ErrInvalidValue)
	if got := err.Error(); got != "build failed at $.x: invalid value" {
		t.Fatalf("got %q", got)
	}
	// an already stamped error keeps its innermost path
	if again := stampBuild(rootPath, err); again != err {
		t.Fatalf("outer frame re-stamped the error")
	}
}

func TestDuplicateKeys(t *testing.T) {
	src := []byte(`{"a": 1, "b": {"x": [1, {"k": 1, "k": 2}], "x": 3}, "a": 2}`)
	iss := duplicateKeys(src)
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues, got %v", iss)
	}
	want := []string{"/b/x/1", "/b", "/"}
	for i, w := range want {
		if iss[i].Path != w || iss[i].Code != CodeDuplicateKey {
			t.Errorf("issue %d = %+v, want path %s", i, iss[i], w)
		}
	}
	if iss := duplicateKeys([]byte(`{"a": [{"a": 1}, {"a": 2}]}`)); iss != nil {
		t.Fatalf("keys in sibling objects are not duplicates: %v", iss)
	}
	iss = duplicateKeys([]byte(`{"a/b": {"k": "x", "k": [true, null, 1.5]}}`))
	if len(iss) != 1 || iss[0].Path != "/a~1b" {
		t.Fatalf("escaped container pointer: %v", iss)
	}
}
