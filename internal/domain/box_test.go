package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/boxlabel/internal/domain"
)

// ---- helpers ---------------------------------------------------------------

// countingResolver answers with a scripted sequence and records every call.
type countingResolver struct {
	answers []bool
	calls   int
}

func (r *countingResolver) Resolve(domain.Tag, *domain.Box) (bool, error) {
	answer := r.answers[r.calls]
	r.calls++
	return answer, nil
}

var _ domain.BoundaryResolver = (*countingResolver)(nil)

func mustTag(t *testing.T, hole, name, start, end string) domain.Tag {
	t.Helper()
	tag, err := domain.NewTag(hole, name, start, end)
	require.NoError(t, err)
	return tag
}

func mustBox(t *testing.T, hole, name, start, end string, spec domain.BoxSpec) *domain.Box {
	t.Helper()
	box, err := domain.NewBox(hole, name, start, end, spec)
	require.NoError(t, err)
	return box
}

func names(tags []domain.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.Name())
	}
	return out
}

// ---- construction ----------------------------------------------------------

func TestNewBox_OK(t *testing.T) {
	box, err := domain.NewBox("H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: true})

	require.NoError(t, err)
	assert.Equal(t, "H1", box.Hole())
	assert.Equal(t, "B1", box.Name())
	assert.Equal(t, 0.0, box.StartingDepth())
	assert.Equal(t, 2.0, box.EndingDepth())
	assert.True(t, box.TagAtSampleStart())
	assert.Empty(t, box.Tags())
}

func TestNewBox_InvalidDepth(t *testing.T) {
	_, err := domain.NewBox("H1", "B1", "zero", "2.0", domain.BoxSpec{})

	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

// ---- AddTag policy ---------------------------------------------------------

func TestBox_AddTag_HoleMismatch(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "10.0", domain.BoxSpec{TagAtSampleStart: true})
	tag := mustTag(t, "H2", "T1", "5.0", "5.5")

	resolver := &countingResolver{}
	require.NoError(t, box.AddTag(tag, resolver))

	assert.Empty(t, box.Tags())
	assert.Zero(t, resolver.calls)
}

func TestBox_AddTag_SkippedName(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "10.0", domain.BoxSpec{
		SkippedTags:      map[string]struct{}{"T1": {}},
		TagAtSampleStart: true,
	})
	tag := mustTag(t, "H1", "T1", "5.0", "5.5")

	require.NoError(t, box.AddTag(tag, domain.FixedResolver(true)))

	assert.Empty(t, box.Tags())
}

func TestBox_AddTag_SkipBeatsForce(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "10.0", domain.BoxSpec{
		SkippedTags:      map[string]struct{}{"T1": {}},
		ForcedTags:       map[string]struct{}{"T1": {}},
		TagAtSampleStart: true,
	})
	tag := mustTag(t, "H1", "T1", "5.0", "5.5")

	require.NoError(t, box.AddTag(tag, domain.FixedResolver(true)))

	assert.Empty(t, box.Tags())
}

func TestBox_AddTag_ForcedBypassesDepth(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "10.0", domain.BoxSpec{
		ForcedTags:       map[string]struct{}{"T1": {}},
		TagAtSampleStart: true,
	})
	// Well outside the interval; forced tags skip the depth check entirely.
	tag := mustTag(t, "H1", "T1", "99.0", "99.5")

	resolver := &countingResolver{}
	require.NoError(t, box.AddTag(tag, resolver))

	assert.Equal(t, []string{"T1"}, names(box.Tags()))
	assert.Zero(t, resolver.calls)
}

func TestBox_AddTag_StrictInterior(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: true})
	tag := mustTag(t, "H1", "T1", "1.0", "1.2")

	resolver := &countingResolver{}
	require.NoError(t, box.AddTag(tag, resolver))

	assert.Equal(t, []string{"T1"}, names(box.Tags()))
	assert.Zero(t, resolver.calls, "interior tags must not prompt")
}

func TestBox_AddTag_OutsideInterval(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: true})

	resolver := &countingResolver{}
	require.NoError(t, box.AddTag(mustTag(t, "H1", "T1", "2.5", "3.0"), resolver))
	require.NoError(t, box.AddTag(mustTag(t, "H1", "T2", "-0.5", "0.2"), resolver))

	assert.Empty(t, box.Tags())
	assert.Zero(t, resolver.calls)
}

func TestBox_AddTag_BoundaryPromptsOnce(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		answer bool
		want   []string
	}{
		{"start boundary accepted", "0.0", true, []string{"T1"}},
		{"start boundary declined", "0.0", false, nil},
		{"end boundary accepted", "2.0", true, []string{"T1"}},
		{"end boundary declined", "2.0", false, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			box := mustBox(t, "H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: true})
			tag := mustTag(t, "H1", "T1", tc.start, "9.9")

			resolver := &countingResolver{answers: []bool{tc.answer}}
			require.NoError(t, box.AddTag(tag, resolver))

			assert.Equal(t, 1, resolver.calls, "boundary tags prompt exactly once")
			assert.Equal(t, tc.want, names(box.Tags()))
		})
	}
}

func TestBox_AddTag_MatchesEndingDepth(t *testing.T) {
	// With TagAtSampleStart false the ending depth is what must fall inside
	// the interval.
	box := mustBox(t, "H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: false})

	inside := mustTag(t, "H1", "T1", "99.0", "1.5")
	outside := mustTag(t, "H1", "T2", "1.0", "3.0")

	resolver := &countingResolver{}
	require.NoError(t, box.AddTag(inside, resolver))
	require.NoError(t, box.AddTag(outside, resolver))

	assert.Equal(t, []string{"T1"}, names(box.Tags()))
	assert.Zero(t, resolver.calls)
}

func TestBox_AddTag_ResolverError(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: true})
	tag := mustTag(t, "H1", "T1", "0.0", "0.5")

	boom := errors.New("terminal closed")
	failing := domain.ResolverFunc(func(domain.Tag, *domain.Box) (bool, error) {
		return false, boom
	})

	err := box.AddTag(tag, failing)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, box.Tags())
}

func TestBox_AddTag_Deterministic(t *testing.T) {
	// Same tag, same box spec, same answers: same outcome every time.
	tag := mustTag(t, "H1", "T1", "0.0", "0.5")
	for i := 0; i < 3; i++ {
		box := mustBox(t, "H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: true})
		resolver := &countingResolver{answers: []bool{true}}
		require.NoError(t, box.AddTag(tag, resolver))
		assert.Equal(t, []string{"T1"}, names(box.Tags()))
		assert.Equal(t, 1, resolver.calls)
	}
}

// ---- ordering --------------------------------------------------------------

func TestBox_SortTags(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "10.0", domain.BoxSpec{TagAtSampleStart: true})
	for _, start := range []string{"3.0", "1.0", "2.0"} {
		require.NoError(t, box.AddTag(mustTag(t, "H1", "T"+start, start, start), domain.FixedResolver(true)))
	}

	box.SortTags()

	assert.Equal(t, []string{"T1.0", "T2.0", "T3.0"}, names(box.Tags()))
}

func TestBox_SortTags_StableOnTies(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "10.0", domain.BoxSpec{TagAtSampleStart: true})
	require.NoError(t, box.AddTag(mustTag(t, "H1", "first", "2.0", "2.1"), domain.FixedResolver(true)))
	require.NoError(t, box.AddTag(mustTag(t, "H1", "second", "2.0", "2.2"), domain.FixedResolver(true)))
	require.NoError(t, box.AddTag(mustTag(t, "H1", "shallow", "1.0", "1.1"), domain.FixedResolver(true)))

	box.SortTags()

	assert.Equal(t, []string{"shallow", "first", "second"}, names(box.Tags()))
}

func TestSortBoxes_HoleThenDepth(t *testing.T) {
	a2 := mustBox(t, "A", "2", "5.0", "10.0", domain.BoxSpec{})
	b1 := mustBox(t, "B", "1", "0.0", "5.0", domain.BoxSpec{})
	a1 := mustBox(t, "A", "1", "0.0", "5.0", domain.BoxSpec{})

	boxes := []*domain.Box{a2, b1, a1}
	domain.SortBoxes(boxes)

	assert.Equal(t, []*domain.Box{a1, a2, b1}, boxes)
}

func TestSortBoxes_NaturalHoleOrder(t *testing.T) {
	h10 := mustBox(t, "Hole-10", "B", "0.0", "5.0", domain.BoxSpec{})
	h2 := mustBox(t, "Hole-2", "B", "0.0", "5.0", domain.BoxSpec{})

	boxes := []*domain.Box{h10, h2}
	domain.SortBoxes(boxes)

	assert.Equal(t, []*domain.Box{h2, h10}, boxes)
}

// ---- end-to-end scenario ---------------------------------------------------

func TestBox_BoundaryScenario(t *testing.T) {
	box := mustBox(t, "H1", "B1", "0.0", "2.0", domain.BoxSpec{TagAtSampleStart: true})

	t1 := mustTag(t, "H1", "T1", "0.0", "0.5")
	t2 := mustTag(t, "H1", "T2", "2.0", "2.5")
	t3 := mustTag(t, "H1", "T3", "1.0", "1.2")

	resolver := &countingResolver{answers: []bool{true, true}}
	for _, tag := range []domain.Tag{t1, t2, t3} {
		require.NoError(t, box.AddTag(tag, resolver))
	}
	box.SortTags()

	assert.Equal(t, 2, resolver.calls, "only the two boundary tags prompt")
	assert.Equal(t, []string{"T1", "T3", "T2"}, names(box.Tags()))
}
