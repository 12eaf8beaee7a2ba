package compiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/compiler"
	"github.com/aretw0/cascade/pkg/domain"
)

const gameDefinition = `
name: game
states:
  - name: mode
    kind: root
    initial: menu
  - name: paused
    kind: substate
    parent: mode
    active_when: playing
    default: "no"
  - name: volume
    kind: substate
    parent: mode
    active_when: playing
    default: 5
    persistent: true
  - name: season
    kind: shift
    variants: [spring, summer, autumn, winter]
    initial: spring
    config:
      on_reenter: true
`

func TestParse(t *testing.T) {
	def, err := compiler.NewParser().Parse([]byte(gameDefinition))
	require.NoError(t, err)

	assert.Equal(t, "game", def.Name)
	require.Len(t, def.States, 4)
	assert.Equal(t, "mode", def.States[0].Name)
	assert.Equal(t, "substate", def.States[1].Kind)
	assert.Equal(t, "playing", def.States[1].ActiveWhen)
	assert.True(t, def.States[2].Persistent)
	require.NotNil(t, def.States[3].Config)
	require.NotNil(t, def.States[3].Config.OnReenter)
	assert.True(t, *def.States[3].Config.OnReenter)
}

func TestParse_Invalid(t *testing.T) {
	_, err := compiler.NewParser().Parse([]byte("states: {not: a list}"))
	assert.Error(t, err)

	_, err = compiler.NewParser().Parse([]byte("name: empty"))
	assert.Error(t, err, "definitions without states are rejected")
}

func TestCompile(t *testing.T) {
	def, err := compiler.NewParser().Parse([]byte(gameDefinition))
	require.NoError(t, err)

	eng := cascade.New()
	built, err := compiler.Compile(def, eng)
	require.NoError(t, err)
	require.Len(t, built, 4)

	ctx := context.Background()
	eng.Tick(ctx)

	cur, err := eng.Current(domain.Global(), built["mode"])
	require.NoError(t, err)
	assert.Equal(t, domain.Some("menu"), cur)

	cur, err = eng.Current(domain.Global(), built["paused"])
	require.NoError(t, err)
	assert.False(t, cur.Present, "substate starts absent while mode is menu")

	cur, err = eng.Current(domain.Global(), built["season"])
	require.NoError(t, err)
	assert.Equal(t, domain.Some("spring"), cur)

	// Flip to playing: both substates become live with their defaults.
	eng.Set(domain.Global(), built["mode"], domain.Some("playing"))
	eng.Tick(ctx)

	cur, err = eng.Current(domain.Global(), built["paused"])
	require.NoError(t, err)
	assert.Equal(t, domain.Some("no"), cur)

	cur, err = eng.Current(domain.Global(), built["volume"])
	require.NoError(t, err)
	assert.Equal(t, domain.Some(5), cur)
}

func TestCompile_Errors(t *testing.T) {
	p := compiler.NewParser()

	cases := []struct {
		name string
		yaml string
	}{
		{"unknown kind", "states:\n  - name: a\n    kind: mystery\n"},
		{"undeclared parent", "states:\n  - name: a\n    kind: substate\n    parent: missing\n    active_when: x\n"},
		{"missing active_when", "states:\n  - name: p\n  - name: a\n    kind: substate\n    parent: p\n"},
		{"shift without variants", "states:\n  - name: a\n    kind: shift\n"},
		{"duplicate name", "states:\n  - name: a\n  - name: a\n"},
		{"missing name", "states:\n  - kind: root\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def, err := p.Parse([]byte(tc.yaml))
			require.NoError(t, err)
			_, err = compiler.Compile(def, cascade.New())
			assert.Error(t, err)
		})
	}
}
