package triples

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNTripleRendering(t *testing.T) {
	r := Resource("http://x/s", "http://x/p", "http://x/o")
	assert.Equal(t, "<http://x/s> <http://x/p> <http://x/o> .", r.NTriple())

	d := Data("http://x/s", "http://x/p", `say "hi"`)
	assert.Equal(t, `<http://x/s> <http://x/p> "say \"hi\"" .`, d.NTriple())
}

func TestBatchSortIsStableAndTotal(t *testing.T) {
	b := NewBatch(Addition)
	b.Add(
		Resource("http://x/b", "http://x/p", "http://x/1"),
		Resource("http://x/a", "http://x/q", "http://x/1"),
		Resource("http://x/a", "http://x/p", "http://x/2"),
		Resource("http://x/a", "http://x/p", "http://x/1"),
	)
	b.Sort()

	assert.Equal(t, []Statement{
		Resource("http://x/a", "http://x/p", "http://x/1"),
		Resource("http://x/a", "http://x/p", "http://x/2"),
		Resource("http://x/a", "http://x/q", "http://x/1"),
		Resource("http://x/b", "http://x/p", "http://x/1"),
	}, b.Statements)
}

func TestBatchMergeAndNTriples(t *testing.T) {
	a := NewBatch(Addition)
	a.Add(Resource("http://x/s", "http://x/p", "http://x/o"))
	other := NewBatch(Addition)
	other.Add(Data("http://x/s", "http://x/p", "v"))

	a.Merge(other)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t,
		"<http://x/s> <http://x/p> <http://x/o> .\n<http://x/s> <http://x/p> \"v\" .\n",
		a.NTriples())
}
