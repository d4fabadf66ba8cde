package usecase

import (
	"testing"

	"github.com/labellens/backend/internal/domain"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"sugar", "", 5},
		{"", "salt", 4},
		{"sugar", "sugar", 0},
		{"suger", "sugar", 1},
		{"aspartme", "aspartame", 1},
		{"kitten", "sitting", 3},
		{"crème", "creme", 1},
	}

	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSuggestIngredients(t *testing.T) {
	ds := domain.NewDataset("test.csv", []domain.IngredientRecord{
		record("sugar", domain.OriginNatural, domain.ProcessingProcessed),
		record("cane sugar", domain.OriginNatural, domain.ProcessingProcessed),
		record("aspartame", domain.OriginArtificial, domain.ProcessingProcessed),
		record("salt", domain.OriginNatural, domain.ProcessingUnprocessed),
		record("malt", domain.OriginNatural, domain.ProcessingProcessed),
	})

	t.Run("OCR misspelling", func(t *testing.T) {
		got := SuggestIngredients(ds, "Aspartme", 2, 0)
		if len(got) != 1 || got[0].Name != "aspartame" || got[0].Distance != 1 {
			t.Fatalf("got %+v, want aspartame at distance 1", got)
		}
		if got[0].Classification.Origin != domain.OriginArtificial {
			t.Errorf("classification not carried: %+v", got[0])
		}
	})

	t.Run("ordered by distance then name", func(t *testing.T) {
		got := SuggestIngredients(ds, "sugr", 2, 0)
		if len(got) != 1 || got[0].Name != "sugar" {
			t.Fatalf("got %+v", got)
		}

		got = SuggestIngredients(ds, "smalt", 1, 0)
		if len(got) != 2 || got[0].Name != "malt" || got[1].Name != "salt" {
			t.Fatalf("got %+v, want malt then salt", got)
		}
	})

	t.Run("short terms only match exactly", func(t *testing.T) {
		if got := SuggestIngredients(ds, "slt", 2, 0); len(got) != 0 {
			t.Errorf("got %+v, want none", got)
		}
	})

	t.Run("limit", func(t *testing.T) {
		if got := SuggestIngredients(ds, "smalt", 1, 1); len(got) != 1 {
			t.Errorf("got %d suggestions, want 1", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := SuggestIngredients(ds, "  ", 2, 0); got != nil {
			t.Errorf("got %+v, want nil", got)
		}
		if got := SuggestIngredients(nil, "sugar", 2, 0); got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})
}
