package diagnostic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndValidity(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("duplicate_destination", "destination written twice", "r2", "destination_path")
	assert.True(t, d.IsValid())

	d.AddError("unknown_transform", `unknown transform "toUppercase"`, "r1", "transform_type", "toUpperCase")
	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	assert.Len(t, d.Warnings, 1)
	assert.Equal(t, []string{"unknown_transform"}, d.Codes())

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		`[rule r1] transform_type: [unknown_transform] unknown transform "toUppercase" (did you mean "toUpperCase"?)`,
		err.Error())
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddError("x", "x", "", "")
	b.AddError("y", "y", "", "")
	b.AddInfo("z", "z", "", "")

	a.Merge(b)

	assert.Equal(t, []string{"x", "y"}, a.Codes())
	assert.Len(t, a.Infos, 1)
}

func TestDiagnostic_String(t *testing.T) {
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
	assert.Equal(t, "[c] m", Diagnostic{Code: "c", Message: "m"}.String())
	assert.Equal(t, "src: [c] m", Diagnostic{Code: "c", Message: "m", Field: "src"}.String())
}

func TestSeverity_JSON(t *testing.T) {
	var d Diagnostics
	d.AddError("bad", "broken", "r1", "")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"errors":[{"severity":"error","code":"bad","message":"broken","rule_id":"r1"}]}`,
		string(data))
	assert.Equal(t, "unknown", Severity(42).String())
}
