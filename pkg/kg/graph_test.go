package kg

import (
	"testing"

	"healthmate-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildGraph(t *testing.T) {
	triples := []entity.Triple{
		tr("Lotus Soup", "recipe-has-effect", "calming"),
		tr("Lotus Soup", "recipe-has-ingredient", "lotus seed"),
		tr("Lotus Soup", "recipe-category", "lotus seed"), // multi-edge, same pair
	}

	g := BuildGraph(triples)

	assert.Equal(t, []string{"Lotus Soup", "calming", "lotus seed"}, g.Nodes())
	assert.Len(t, g.Edges(), 3)
}

func TestRenderEdgeList(t *testing.T) {
	triples := []entity.Triple{
		tr("Lotus Soup", "recipe-has-effect", "calming"),
		tr("Lotus Soup", "recipe-has-ingredient", "lotus seed"),
	}

	lines := RenderEdgeList(BuildGraph(triples))

	assert.Equal(t, []string{
		"Lotus Soup -[recipe-has-effect]-> calming",
		"Lotus Soup -[recipe-has-ingredient]-> lotus seed",
	}, lines)
}

func TestRenderEdgeListEmpty(t *testing.T) {
	assert.Empty(t, RenderEdgeList(BuildGraph(nil)))
}
