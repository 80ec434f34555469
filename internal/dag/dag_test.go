package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortestPathDirect(t *testing.T) {
	g := New([]Edge[string]{
		{From: 1, To: 2, Payload: "1->2"},
		{From: 1, To: 3, Payload: "1->3"},
		{From: 2, To: 3, Payload: "2->3"},
	}, 1, 3)

	path, ok := g.ShortestPath(1, 3)
	assert.True(t, ok)
	assert.Equal(t, []string{"1->3"}, path)
}

func TestShortestPathComposesShorterOverLonger(t *testing.T) {
	g := New([]Edge[string]{
		{From: 1, To: 2, Payload: "a"},
		{From: 2, To: 3, Payload: "b"},
		{From: 3, To: 4, Payload: "c"},
		{From: 1, To: 4, Payload: "direct"},
	}, 1, 4)

	path, ok := g.ShortestPath(1, 4)
	assert.True(t, ok)
	assert.Equal(t, []string{"direct"}, path)
}

func TestShortestPathSameVersion(t *testing.T) {
	g := New([]Edge[string]{}, 1, 1)
	path, ok := g.ShortestPath(1, 1)
	assert.True(t, ok)
	assert.Empty(t, path)
}

func TestShortestPathNoPath(t *testing.T) {
	g := New([]Edge[string]{{From: 1, To: 2, Payload: "a"}}, 1, 5)
	_, ok := g.ShortestPath(1, 5)
	assert.False(t, ok)
}

func TestShortestPathHighLessThanLow(t *testing.T) {
	g := New([]Edge[string]{{From: 1, To: 2, Payload: "a"}}, 0, 5)
	_, ok := g.ShortestPath(3, 1)
	assert.False(t, ok)
}

func TestNewDropsMalformedEdges(t *testing.T) {
	g := New([]Edge[string]{
		{From: 2, To: 1, Payload: "backwards"},
		{From: 1, To: 1, Payload: "self"},
		{From: 1, To: 2, Payload: "ok"},
	}, 1, 2)

	path, ok := g.ShortestPath(1, 2)
	assert.True(t, ok)
	assert.Equal(t, []string{"ok"}, path)
}

func TestNewDropsOutOfRangeEdges(t *testing.T) {
	g := New([]Edge[string]{
		{From: 0, To: 5, Payload: "too wide"},
		{From: 1, To: 2, Payload: "ok"},
	}, 1, 2)

	path, ok := g.ShortestPath(1, 2)
	assert.True(t, ok)
	assert.Equal(t, []string{"ok"}, path)
}
