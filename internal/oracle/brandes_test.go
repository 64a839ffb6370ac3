package oracle

import "testing"

func pathGraph5() *Graph {
	g := NewGraph(5)
	for i := 0; i < 4; i++ {
		g.AddEdge(i, i+1)
		g.AddEdge(i+1, i)
	}
	return g
}

func TestBetweennessPathGraphMatchesAnalyticFormula(t *testing.T) {
	bc := Betweenness(pathGraph5(), true)
	want := []float64{0, 3, 4, 3, 0}
	for v, w := range want {
		if diff := bc[v] - w; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("vertex %d: expected %v, got %v", v, w, bc[v])
		}
	}
}

func TestBetweennessTriangleIsZero(t *testing.T) {
	g := NewGraph(3)
	for _, e := range [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {0, 2}} {
		g.AddEdge(e[0], e[1])
	}
	bc := Betweenness(g, true)
	for v, b := range bc {
		if b != 0 {
			t.Fatalf("vertex %d: expected 0 in a triangle, got %v", v, b)
		}
	}
}

func TestBetweennessStarCenterDominates(t *testing.T) {
	g := NewGraph(5)
	for leaf := 1; leaf < 5; leaf++ {
		g.AddEdge(0, leaf)
		g.AddEdge(leaf, 0)
	}
	bc := Betweenness(g, false) // directed-pairs counting, per spec's star scenario
	if bc[0] != 12 {
		t.Fatalf("expected center bc=12 (directed pairs), got %v", bc[0])
	}
	for leaf := 1; leaf < 5; leaf++ {
		if bc[leaf] != 0 {
			t.Fatalf("leaf %d: expected bc=0, got %v", leaf, bc[leaf])
		}
	}
}
