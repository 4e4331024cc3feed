package wrangle

import (
	"fmt"
	"testing"

	"github.com/scylladb/go-set/strset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueOf(t *testing.T, s State, name string) ToolValue {
	t.Helper()
	spec, ok := s.Tools.Get(name)
	require.True(t, ok, "tool %q not found", name)
	return spec.Value
}

func TestFold_emptyLayerChangesNothing(t *testing.T) {
	base := DefaultState()

	got := Fold(base, Layer{})
	assert.Equal(t, base, got)

	got = Fold(base, Layer{Origin: "/src/project/wrangle.yaml"})
	assert.Equal(t, base, got)
	assert.Equal(t, []string{DefaultsOrigin}, got.Sources)
	assert.Equal(t, base.Digest(), got.Digest())
}

func TestFold_isOrderSensitive(t *testing.T) {
	disable := Layer{Origin: "l1", Tools: []ToolEntry{{Name: "X", Value: Disable()}}}
	redefine := Layer{Origin: "l2", Tools: []ToolEntry{{Name: "X", Value: Run("run X")}}}

	forward := FoldAll(DefaultState(), disable, redefine)
	backward := FoldAll(DefaultState(), redefine, disable)

	assert.Equal(t, ToolValue{Options: ToolOptions{Command: &Command{Line: "run X"}}}, valueOf(t, forward, "X"))
	assert.Equal(t, Disable(), valueOf(t, backward, "X"))
	assert.NotEqual(t, forward.Digest(), backward.Digest())
}

func TestFold_options(t *testing.T) {
	base := DefaultState()

	got := Fold(base, Layer{Options: LayerOptions{Parallel: boolPtr(false)}})
	assert.Equal(t, Options{Parallel: false, ExitStatus: true, Skipped: false}, got.Options)

	got = Fold(got, Layer{Options: LayerOptions{Skipped: boolPtr(true)}})
	assert.Equal(t, Options{Parallel: false, ExitStatus: true, Skipped: true}, got.Options)

	assert.Equal(t, DefaultOptions(), base.Options, "input state must not be modified")
}

func TestFold_partialOverlay(t *testing.T) {
	base := State{Tools: NewRegistry(ToolSpec{
		Name:  "t",
		Value: ToolValue{Options: ToolOptions{Command: &Command{Line: "a"}, Order: intPtr(1)}},
	})}

	got := Fold(base, Layer{Tools: []ToolEntry{{Name: "t", Value: ToolValue{Options: ToolOptions{Order: intPtr(2)}}}}})

	assert.Equal(t, ToolValue{Options: ToolOptions{Command: &Command{Line: "a"}, Order: intPtr(2)}}, valueOf(t, got, "t"))
}

func TestFold_untouchedToolsKeepRelativeOrder(t *testing.T) {
	base := DefaultState()
	before := base.Tools.Names()

	got := FoldAll(base,
		Layer{Origin: "home", Tools: []ToolEntry{
			{Name: "zeta", Value: Run("zeta")},
			{Name: "vet", Value: Disable()},
		}},
		Layer{Origin: "project", Tools: []ToolEntry{
			{Name: "alpha", Value: Run("alpha")},
			{Name: "formatter", Value: ToolValue{Options: ToolOptions{Order: intPtr(5)}}},
			{Name: "zeta", Value: Disable()},
		}},
	)

	assert.Equal(t, append(before, "zeta", "alpha"), got.Tools.Names())

	formatter, ok := got.Tools.Get("formatter")
	require.True(t, ok)
	assert.Equal(t, "project", formatter.Origin)

	lint, ok := got.Tools.Get("lint")
	require.True(t, ok)
	assert.Equal(t, DefaultsOrigin, lint.Origin)

	assert.Equal(t, []string{DefaultsOrigin, "home", "project"}, got.Sources)
}

func TestFold_namesStayUnique(t *testing.T) {
	s := DefaultState()
	names := []string{"formatter", "a", "b", "a", "vet", "b", "c"}
	for i := 0; i < 20; i++ {
		var entries []ToolEntry
		for j, name := range names {
			v := Run(fmt.Sprintf("%d-%d", i, j))
			if (i+j)%3 == 0 {
				v = Disable()
			}
			entries = append(entries, ToolEntry{Name: name, Value: v})
		}
		s = Fold(s, Layer{Origin: fmt.Sprintf("layer-%d", i), Tools: entries})

		got := s.Tools.Names()
		require.Equal(t, len(got), strset.New(got...).Size(), "duplicate names after fold %d: %v", i, got)
	}
}

func TestFold_formatterResolution(t *testing.T) {
	defaults := DefaultState()
	require.True(t, valueOf(t, defaults, "formatter").Active())

	home := Layer{Origin: "home", Tools: []ToolEntry{{Name: "formatter", Value: Disable()}}}
	project := Layer{Origin: "project", Tools: []ToolEntry{{Name: "formatter", Value: Run("fmt --check")}}}

	got := FoldAll(defaults, home, project)

	assert.Equal(t, ToolValue{Options: ToolOptions{Command: &Command{Line: "fmt --check"}}}, valueOf(t, got, "formatter"))
}

func TestState_Digest(t *testing.T) {
	a := DefaultState()
	b := DefaultState()
	assert.Equal(t, a.Digest(), b.Digest())

	c := Fold(b, Layer{Options: LayerOptions{Skipped: boolPtr(true)}})
	assert.NotEqual(t, a.Digest(), c.Digest())

	// origins are provenance only
	d := Fold(a, Layer{Origin: "somewhere"})
	assert.Equal(t, a.Digest(), d.Digest())
}

func TestState_Digest_nestedOptions(t *testing.T) {
	plain := DefaultState()
	require.NotEmpty(t, plain.Digest())

	umbrella := Fold(plain, Layer{Origin: "l1", Tools: []ToolEntry{{
		Name: "ci",
		Value: ToolValue{Options: ToolOptions{
			Command: &Command{Line: "make ci"},
			Umbrella: &ToolOptions{
				Env:      map[string]string{"CI": "1"},
				Umbrella: &ToolOptions{Order: intPtr(3)},
			},
		}},
	}}})
	require.NotEmpty(t, umbrella.Digest())
	assert.NotEqual(t, plain.Digest(), umbrella.Digest())

	deeper := Fold(umbrella, Layer{Origin: "l2", Tools: []ToolEntry{{
		Name: "ci",
		Value: ToolValue{Options: ToolOptions{
			Umbrella: &ToolOptions{Umbrella: &ToolOptions{Order: intPtr(4)}},
		}},
	}}})
	assert.NotEqual(t, umbrella.Digest(), deeper.Digest())
	assert.Equal(t, umbrella.Digest(), Fold(umbrella, Layer{}).Digest())
}
