package tool

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValue(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
		argv []string
	}{
		{"empty", Record{Name: "CC"}, "", nil},
		{"path", Record{Name: "CC", Path: "/usr/bin/gcc"}, "/usr/bin/gcc", []string{"/usr/bin/gcc"}},
		{
			"args",
			Record{Name: "CC", Path: "/usr/bin/gcc", Args: []string{"-m64", "-O2"}},
			"/usr/bin/gcc -m64 -O2",
			[]string{"/usr/bin/gcc", "-m64", "-O2"},
		},
		{"args without path", Record{Name: "CC", Args: []string{"-m64"}}, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Value())
			assert.Equal(t, tt.argv, tt.rec.Argv())
		})
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StateUnset:     "unset",
		StateResolved:  "resolved",
		StateValidated: "validated",
		StateFailed:    "failed",
		State(42):      "unknown",
	} {
		assert.Equal(t, want, state.String())
	}

	assert.True(t, StateValidated.Final())
	assert.True(t, StateFailed.Final())
	assert.False(t, StateResolved.Final())
}

func TestRecordMarshal(t *testing.T) {
	rec := Record{
		Name:     "CC",
		Path:     "/usr/bin/gcc",
		Args:     []string{"-m64"},
		State:    StateValidated,
		Strategy: StrategySearch,
	}

	js, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"CC","path":"/usr/bin/gcc","args":["-m64"],"state":"validated","strategy":"search"}`,
		string(js),
	)

	ym, err := yaml.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(ym), "state: validated")
	assert.Contains(t, string(ym), "args: [-m64]")
}
