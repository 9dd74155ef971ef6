package script

import "testing"

func TestPreprocessSource(t *testing.T) {
	cases := map[string]struct {
		in, want string
	}{
		"output builtins":         {`(out-append V1) (out-extend V2)`, `(out_append V1) (out_extend V2)`},
		"chained hyphens":         {`(def sum-of-all 0)`, `(def sum_of_all 0)`},
		"binary minus":            {`(- 10 5)`, `(- 10 5)`},
		"minus inside a call":     {`(out-append (- x 1))`, `(out_append (- x 1))`},
		"negative literal":        {`(out-append -1)`, `(out_append -1)`},
		"digit before hyphen":     {`(def v2-scaled 1)`, `(def v2_scaled 1)`},
		"keyword":                 {`(out-append :done)`, `(out_append "done")`},
		"hyphenated keyword":      {`:per-vert`, `"per-vert"`},
		"assignment":              {`(x := 10)`, `(x := 10)`},
		"double semicolon":        {`;; keep :this`, `// keep :this`},
		"comment ends at newline": {"(a-b) ; c-d\n(e-f)", "(a_b) // c-d\n(e_f)"},
		"string untouched":        {`"x-y :z ;w"`, `"x-y :z ;w"`},
		"escaped quote":           {`"a \"b-c\"" d-e`, `"a \"b-c\"" d_e`},
		"raw string untouched":    {"`a-b ;c` d-e", "`a-b ;c` d_e"},
		"unterminated string":     {`"x-y`, `"x-y`},
		"empty":                   {"", ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := preprocessSource(tc.in); got != tc.want {
				t.Errorf("preprocessSource(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
