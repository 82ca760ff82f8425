package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultCount(t *testing.T) {
	res := NewResult(StatusFailed, Lines([]string{"a", "b", "c"}))
	assert.Equal(t, 3, res.Count())
	assert.Equal(t, StatusFailed, res.Status())
	assert.Equal(t, []string{"a", "b", "c"}, res.ViolationStrings())

	empty := NewResult(StatusNotInstalled, nil)
	assert.Equal(t, 0, empty.Count())
	assert.Empty(t, empty.Violations())
}

func TestResultIsImmutable(t *testing.T) {
	in := Lines([]string{"one"})
	res := NewResult(StatusFailed, in)
	in[0] = Line("changed")

	out := res.Violations()
	out[0] = Line("changed again")

	assert.Equal(t, []string{"one"}, res.ViolationStrings())
}

func TestJudge(t *testing.T) {
	assert.Equal(t, StatusPassed, Judge(nil).Status())
	assert.Equal(t, StatusFailed, Judge(Lines([]string{"x"})).Status())
}

func TestReportSetKeepsPosition(t *testing.T) {
	r := New()
	r.Set("first", Judge(nil))
	r.Set("second", Judge(nil))
	r.Set("first", Judge(Lines([]string{"late"})))

	assert.Equal(t, []string{"first", "second"}, r.Names())
	got, ok := r.Get("first")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, got.Status())
}

func TestReportMerge(t *testing.T) {
	primary := New()
	primary.Set("Lint Check", Judge(nil))
	client := New()
	client.Set("Client Lint Check", Judge(Lines([]string{"E1"})))
	client.Set("Lint Check", NewResult(StatusError, Lines([]string{"boom"})))

	primary.Merge(client)

	assert.Equal(t, []string{"Lint Check", "Client Lint Check"}, primary.Names())
	got, _ := primary.Get("Lint Check")
	assert.Equal(t, StatusError, got.Status())
}

func TestReportJSONRoundTrip(t *testing.T) {
	r := New()
	r.Set("Type Check", NewResult(StatusFailed, Lines([]string{"app.py:1: error"})))
	r.Set("Formatting Check", NewResult(StatusNotInstalled, nil))
	r.Set("Test Cases Pipeline", NewResult(StatusPassed, []Violation{
		Record(TestOutcome{File: "test_a.py", Status: StatusPassed, ElapsedTime: 0.25, Log: "1 passed"}),
		Record(TestOutcome{Error: "No tests folder found"}),
	}))

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, r.Names(), decoded.Names())
	r.Each(func(name string, want CheckResult) {
		got, ok := decoded.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want.Status(), got.Status(), name)
		assert.Equal(t, want.Count(), got.Count(), name)
		assert.Equal(t, want.Violations(), got.Violations(), name)
	})
}

func TestReportJSONShape(t *testing.T) {
	r := New()
	r.Set("Dependency Check", NewResult(StatusNotInstalled, nil))
	r.Set("Test Cases Pipeline", NewResult(StatusPassed, []Violation{Record(TestOutcome{Error: "No tests folder found"})}))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Dependency Check": {"status": "Tool Not Installed", "violations": [], "count": 0},
		"Test Cases Pipeline": {"status": "Passed", "violations": [{"error": "No tests folder found"}], "count": 1}
	}`, string(data))
}

func TestCheckResultRejectsCountMismatch(t *testing.T) {
	var res CheckResult
	err := json.Unmarshal([]byte(`{"status":"Failed","violations":["a"],"count":2}`), &res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCountMismatch))
}

func TestViolationString(t *testing.T) {
	assert.Equal(t, "plain", Line("plain").String())
	rec := Record(TestOutcome{File: "test_x.py", Status: StatusFailed, ElapsedTime: 0.25, Log: "1 failed"})
	assert.Equal(t, `{"file":"test_x.py","status":"Failed","elapsed_time":0.25,"log":"1 failed"}`, rec.String())
}

func TestViolationKeepsHTMLCharacters(t *testing.T) {
	rec := Record(TestOutcome{File: "test_x.py", Status: StatusFailed, Log: "<module> a&b"})
	assert.Equal(t, `{"file":"test_x.py","status":"Failed","elapsed_time":0,"log":"<module> a&b"}`, rec.String())

	data, err := json.Marshal(Line("<b>"))
	require.NoError(t, err)
	assert.Equal(t, `"\u003cb\u003e"`, string(data), "outer encoders still apply their own escaping")

	var back Violation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "<b>", back.String())
}

func TestTestOutcomeJSONFields(t *testing.T) {
	cases := []struct {
		name    string
		outcome TestOutcome
		want    string
	}{
		{"zero time and empty log", TestOutcome{File: "test_a.py", Status: StatusPassed}, `{"file":"test_a.py","status":"Passed","elapsed_time":0,"log":""}`},
		{"ui tool", TestOutcome{Tool: "Mocha", Status: StatusFailed, ElapsedTime: 1.5}, `{"tool":"Mocha","status":"Failed","elapsed_time":1.5,"log":""}`},
		{"launch error", TestOutcome{File: "test_b.py", Status: StatusError, Error: "boom"}, `{"file":"test_b.py","status":"Error","error":"boom"}`},
		{"missing folder", TestOutcome{Error: "No tests folder found"}, `{"error":"No tests folder found"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.outcome)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))

			var back TestOutcome
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tc.outcome, back)
		})
	}
}
