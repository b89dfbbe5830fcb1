package kg

import (
	"testing"

	"healthmate-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func tr(subject, relation, object string) entity.Triple {
	return entity.Triple{Subject: subject, Relation: relation, Object: object}
}

func TestRankSubjects(t *testing.T) {
	tests := []struct {
		name    string
		triples []entity.Triple
		topN    int
		want    []string
	}{
		{
			name: "frequency wins",
			triples: []entity.Triple{
				tr("A", "recipe-has-effect", "X"),
				tr("B", "recipe-has-effect", "X"),
				tr("B", "recipe-has-effect", "Y"),
			},
			topN: 50,
			want: []string{"B", "A"},
		},
		{
			name: "ties keep first-seen order",
			triples: []entity.Triple{
				tr("C", "recipe-has-effect", "X"),
				tr("A", "recipe-has-effect", "X"),
				tr("B", "recipe-has-effect", "X"),
			},
			topN: 50,
			want: []string{"C", "A", "B"},
		},
		{
			name: "truncates to topN",
			triples: []entity.Triple{
				tr("A", "r", "1"),
				tr("B", "r", "1"),
				tr("B", "r", "2"),
				tr("C", "r", "1"),
				tr("C", "r", "2"),
				tr("C", "r", "3"),
			},
			topN: 2,
			want: []string{"C", "B"},
		},
		{
			name:    "empty input",
			triples: nil,
			topN:    50,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankSubjects(tt.triples, tt.topN)
			assert.Equal(t, tt.want, got)
		})
	}
}
