package service

import (
	"reflect"
	"testing"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
)

func registryFixture() []entity.Supplier {
	return []entity.Supplier{
		{ID: "sup-001", Name: "Crestron Electronics", NormalizedName: "crestron electronics", ShortCode: "CE"},
		{ID: "sup-002", Name: "Snap One", NormalizedName: "snap one", ShortCode: "SO"},
		{ID: "sup-003", Name: "Lutron", NormalizedName: "lutron", ShortCode: "LUT"},
	}
}

// TestMatchNamesBuckets verifies names land in the right confidence bucket
func TestMatchNamesBuckets(t *testing.T) {
	suppliers := registryFixture()

	names := []string{
		"Crestron Electronics, Inc.", // suffix-only difference, exact after normalization
		"Lutrn",                      // one-char typo, above threshold
		"Ubiquiti Networks",          // nothing close in registry
	}
	result := MatchNames(names, suppliers, DefaultMatchThreshold)

	if len(result.Matched) != 2 {
		t.Fatalf("expected 2 matched, got %d", len(result.Matched))
	}
	if len(result.NeedsCreation) != 1 {
		t.Fatalf("expected 1 needs_creation, got %d", len(result.NeedsCreation))
	}
	if len(result.NeedsReview) != 0 {
		t.Fatalf("expected 0 needs_review, got %d", len(result.NeedsReview))
	}

	for _, m := range result.Matched {
		if m.Supplier == nil {
			t.Fatalf("matched entry %q has no supplier", m.CSVName)
		}
		if m.Confidence < DefaultMatchThreshold {
			t.Errorf("matched entry %q confidence %.2f below threshold", m.CSVName, m.Confidence)
		}
	}
	if result.NeedsCreation[0].CSVName != "Ubiquiti Networks" {
		t.Errorf("wrong needs_creation entry: %q", result.NeedsCreation[0].CSVName)
	}
}

// TestMatchNamesNeedsReview verifies mid-confidence names get suggestions, not a match
func TestMatchNamesNeedsReview(t *testing.T) {
	suppliers := registryFixture()

	// "Crestron Elec" vs "Crestron Electronics": same prefix, tail missing.
	// Similarity lands between the suggest floor and the auto threshold.
	result := MatchNames([]string{"Crestron Elec"}, suppliers, DefaultMatchThreshold)

	if len(result.NeedsReview) != 1 {
		t.Fatalf("expected 1 needs_review, got matched=%d review=%d creation=%d",
			len(result.Matched), len(result.NeedsReview), len(result.NeedsCreation))
	}
	m := result.NeedsReview[0]
	if m.Supplier != nil {
		t.Error("needs_review entry must not carry a resolved supplier")
	}
	if len(m.Suggestions) == 0 || len(m.Suggestions) > 3 {
		t.Fatalf("expected 1..3 suggestions, got %d", len(m.Suggestions))
	}
	if m.Suggestions[0].Supplier.ID != "sup-001" {
		t.Errorf("expected best suggestion sup-001, got %s", m.Suggestions[0].Supplier.ID)
	}
}

// TestMatchNamesDeterministic verifies double invocation yields identical output
func TestMatchNamesDeterministic(t *testing.T) {
	suppliers := registryFixture()
	names := []string{"Snap One", "Lutrn", "Crestron", "Acme Wire Co", "Snap One"}

	first := MatchNames(names, suppliers, DefaultMatchThreshold)
	second := MatchNames(names, suppliers, DefaultMatchThreshold)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input produced different results")
	}
}

// TestMatchNamesTieBreak verifies equal scores resolve to the smallest supplier id
func TestMatchNamesTieBreak(t *testing.T) {
	// Two registry entries equidistant from the query name.
	suppliers := []entity.Supplier{
		{ID: "sup-b", Name: "Vendor AB", NormalizedName: "vendor ab"},
		{ID: "sup-a", Name: "Vendor AC", NormalizedName: "vendor ac"},
	}

	result := MatchNames([]string{"Vendor AD"}, suppliers, 0.99)
	if len(result.NeedsReview) != 1 {
		t.Fatalf("expected needs_review, got matched=%d creation=%d", len(result.Matched), len(result.NeedsCreation))
	}
	sugg := result.NeedsReview[0].Suggestions
	if len(sugg) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(sugg))
	}
	if sugg[0].Confidence != sugg[1].Confidence {
		t.Fatalf("fixture broken, scores differ: %.3f vs %.3f", sugg[0].Confidence, sugg[1].Confidence)
	}
	if sugg[0].Supplier.ID != "sup-a" {
		t.Errorf("tie must resolve to smallest id, got %s first", sugg[0].Supplier.ID)
	}
}

// TestMatchNamesDedupe verifies duplicate input names produce one result entry
func TestMatchNamesDedupe(t *testing.T) {
	suppliers := registryFixture()
	result := MatchNames([]string{"Snap One", "Snap One", "Snap One"}, suppliers, DefaultMatchThreshold)

	total := len(result.Matched) + len(result.NeedsReview) + len(result.NeedsCreation)
	if total != 1 {
		t.Fatalf("expected 1 result for duplicated name, got %d", total)
	}
}

// TestMatchNamesPartition verifies the three buckets partition the distinct input set
func TestMatchNamesPartition(t *testing.T) {
	suppliers := registryFixture()
	names := []string{"Snap One", "Crestron", "Unknown Vendor 1", "Unknown Vendor 2", "Lutron"}

	result := MatchNames(names, suppliers, DefaultMatchThreshold)
	total := len(result.Matched) + len(result.NeedsReview) + len(result.NeedsCreation)
	if total != len(names) {
		t.Fatalf("buckets do not partition input: %d results for %d names", total, len(names))
	}
}

// TestMatchNamesEmptyRegistry verifies an empty registry sends everything to creation
func TestMatchNamesEmptyRegistry(t *testing.T) {
	result := MatchNames([]string{"Anything"}, nil, DefaultMatchThreshold)
	if len(result.NeedsCreation) != 1 {
		t.Fatalf("expected needs_creation with empty registry, got %+v", result)
	}
}
