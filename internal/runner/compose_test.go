package runner

import (
	"testing"

	"github.com/Cyclone1070/mdq/internal/testing/mocks"
	"github.com/stretchr/testify/assert"
)

func TestAnd(t *testing.T) {
	t.Run("Both Non Empty", func(t *testing.T) {
		a := New().IsType("pdf")
		b := New().NameLike("tax")
		want := "(" + a.Expression() + " && " + b.Expression() + ")"

		got := a.And(b)

		assert.Same(t, a, got)
		assert.Equal(t, "("+want+")", a.Expression())
	})

	t.Run("Only Other Non Empty", func(t *testing.T) {
		a := New()
		b := New().IsDir(true)

		a.And(b)

		assert.Equal(t, "("+b.Expression()+")", a.Expression())
	})

	t.Run("Only Receiver Non Empty", func(t *testing.T) {
		a := New().IsDir(true)
		before := a.Expression()

		a.And(New())

		assert.Equal(t, before, a.Expression())
	})

	t.Run("Both Empty", func(t *testing.T) {
		a := New()
		a.And(New())
		assert.Equal(t, "", a.Expression())
	})

	t.Run("Other Is Not Mutated", func(t *testing.T) {
		a := New().IsType("a")
		b := New().IsType("b")
		before := b.Expression()

		a.And(b)

		assert.Equal(t, before, b.Expression())
	})
}

func TestOr(t *testing.T) {
	t.Run("Both Non Empty", func(t *testing.T) {
		a := New().IsType("pdf")
		b := New().IsType("doc")
		want := "((" + a.Expression() + " || " + b.Expression() + "))"

		a.Or(b)

		assert.Equal(t, want, a.Expression())
	})

	t.Run("Only Other Non Empty", func(t *testing.T) {
		b := New().IsType("doc")
		a := New().Or(b)
		assert.Equal(t, "("+b.Expression()+")", a.Expression())
	})

	t.Run("Only Receiver Non Empty", func(t *testing.T) {
		a := New().IsType("pdf")
		before := a.Expression()
		a.Or(New())
		assert.Equal(t, before, a.Expression())
	})

	t.Run("Both Empty", func(t *testing.T) {
		assert.Equal(t, "", New().Or(New()).Expression())
	})
}

func TestComposition_GroupHoldsSingleFragment(t *testing.T) {
	a := New().IsType("pdf")
	b := New().NameLike("tax")
	exprA, exprB := a.Expression(), b.Expression()

	a.And(b)
	assert.Equal(t, []string{"(" + exprA + " && " + exprB + ")"}, a.Fragments())

	c := New().Or(b)
	assert.Equal(t, []string{exprB}, c.Fragments())

	single := Merge([]*Runner{b}, false)
	assert.Equal(t, []string{exprB}, single.Fragments())
}

func TestAnd_ThenPredicateKeepsConjoining(t *testing.T) {
	a := New().IsType("pdf").And(New().IsDir(false))
	a.Size(LessThan, 10)

	want := `(((kMDItemFSName == "*.pdf"c) && (kMDItemContentType != "public.folder"))&&kMDItemFSSize < 10)`
	assert.Equal(t, want, a.Expression())
}

func TestMerge(t *testing.T) {
	t.Run("Empty List", func(t *testing.T) {
		assert.Equal(t, "", Merge(nil, true).Expression())
		assert.Equal(t, "", Merge([]*Runner{}, false).Expression())
	})

	t.Run("Single Runner Unchanged", func(t *testing.T) {
		r := New().IsType("pdf").Size(GreaterThan, 1)
		for _, isAnd := range []bool{true, false} {
			merged := Merge([]*Runner{r}, isAnd)
			assert.Equal(t, "("+r.Expression()+")", merged.Expression())
		}
	})

	t.Run("Dirs Or Files", func(t *testing.T) {
		merged := Merge([]*Runner{New().IsDir(true), New().IsDir(false)}, false)
		// Nesting follows the fold exactly: every operand keeps its own parentheses.
		want := `((((kMDItemContentType == "public.folder")) || (kMDItemContentType != "public.folder")))`
		assert.Equal(t, want, merged.Expression())
	})

	t.Run("Left To Right Fold", func(t *testing.T) {
		a, b, c := New().IsType("a"), New().IsType("b"), New().IsType("c")
		merged := Merge([]*Runner{a, b, c}, true)

		afterA := "(" + a.Expression() + ")"
		afterB := "((" + afterA + " && " + b.Expression() + "))"
		want := "((" + afterB + " && " + c.Expression() + "))"
		assert.Equal(t, want, merged.Expression())
	})

	t.Run("Skips Empty Runners", func(t *testing.T) {
		a := New().IsType("a")
		merged := Merge([]*Runner{New(), a, New()}, true)
		assert.Equal(t, "("+a.Expression()+")", merged.Expression())
	})

	t.Run("Fresh Runner", func(t *testing.T) {
		a := New().IsType("a")
		merged := Merge([]*Runner{a}, true)
		assert.NotSame(t, a, merged)
	})

	t.Run("Inherits Engine", func(t *testing.T) {
		engine := mocks.NewMockEngine()
		merged := Merge([]*Runner{New().IsType("a"), New(WithEngine(engine)).IsType("b")}, true)
		assert.Equal(t, engine, merged.engine)
	})
}
