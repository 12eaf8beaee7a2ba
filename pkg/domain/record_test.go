package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/cascade/pkg/domain"
)

func TestRecord_New(t *testing.T) {
	rec := domain.NewRecord(domain.Some("a"), nil)

	assert.Equal(t, domain.Some("a"), rec.Current())
	assert.Equal(t, domain.Some("a"), rec.Previous())
	assert.False(t, rec.IsUpdated())
	assert.True(t, rec.IsReentrant(), "fresh records count as reentrant")
	assert.False(t, rec.Pending().ShouldApply(), "nil payload defaults to the null update")
}

func TestRecord_CommitChange(t *testing.T) {
	rec := domain.NewRecord(domain.Some("a"), nil)
	rec.Commit(domain.Some("b"))

	assert.Equal(t, domain.Some("b"), rec.Current())
	assert.Equal(t, domain.Some("a"), rec.Previous())
	assert.False(t, rec.IsReentrant())
	assert.True(t, rec.IsUpdated())
	assert.Equal(t, domain.Some("a"), rec.ReentrantPrevious())
}

func TestRecord_CommitReentrant(t *testing.T) {
	rec := domain.NewRecord(domain.Some("a"), nil)
	rec.Commit(domain.Some("b"))
	rec.ResetUpdated()
	rec.Commit(domain.Some("b"))

	assert.Equal(t, domain.Some("b"), rec.Current())
	assert.Equal(t, domain.Some("a"), rec.Previous(), "previous keeps the last different value")
	assert.True(t, rec.IsReentrant())
	assert.True(t, rec.IsUpdated())
	assert.Equal(t, domain.Some("b"), rec.ReentrantPrevious(), "current stands in for a reentrant previous")
}

func TestRecord_OptionalTransitions(t *testing.T) {
	rec := domain.NewRecord(domain.None(), nil)
	rec.Commit(domain.Some("x"))
	assert.Equal(t, domain.Some("x"), rec.Current())
	assert.Equal(t, domain.None(), rec.Previous())

	rec.ResetUpdated()
	rec.Commit(domain.None())
	assert.Equal(t, domain.None(), rec.Current())
	assert.Equal(t, domain.Some("x"), rec.Previous())
	assert.False(t, rec.IsReentrant())
}

func TestRestoreRecord(t *testing.T) {
	rec := domain.RestoreRecord(domain.Some("b"), domain.Some("a"), nil)
	assert.Equal(t, domain.Some("b"), rec.Current())
	assert.Equal(t, domain.Some("a"), rec.Previous())
	assert.False(t, rec.IsReentrant())
	assert.False(t, rec.IsUpdated())

	settled := domain.RestoreRecord(domain.Some("a"), domain.Some("a"), nil)
	assert.True(t, settled.IsReentrant())
}

func TestRepr_Equal(t *testing.T) {
	assert.True(t, domain.Some("a").Equal(domain.Some("a")))
	assert.False(t, domain.Some("a").Equal(domain.Some("b")))
	assert.False(t, domain.Some("a").Equal(domain.None()))
	assert.True(t, domain.None().Equal(domain.None()))
}
