package service

import (
	"testing"
	"time"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
)

// TestComputeTotals verifies shipping lines are stripped from the subtotal
// but kept in the grand total
func TestComputeTotals(t *testing.T) {
	lines := []entity.EquipmentLine{
		{Description: "Widget", PlannedQuantity: f64(10), UnitCost: f64(2)},
		{Description: "Shipping charge", PartNumber: "SHIP-01", PlannedQuantity: f64(1), UnitCost: f64(25)},
	}

	totals := ComputeTotals(lines)

	if totals.Subtotal != 20 {
		t.Errorf("subtotal = %.2f, want 20", totals.Subtotal)
	}
	if totals.ShippingCost != 25 {
		t.Errorf("shipping = %.2f, want 25", totals.ShippingCost)
	}
	if totals.TotalAmount != 45 {
		t.Errorf("total = %.2f, want 45", totals.TotalAmount)
	}
}

func TestComputeTotalsMultipleShippingLines(t *testing.T) {
	lines := []entity.EquipmentLine{
		{Description: "Keypad", Quantity: f64(2), UnitCost: f64(100)},
		{Description: "Ground shipping", Quantity: f64(1), UnitCost: f64(15)},
		{Description: "Expedited SHIPPING surcharge", Quantity: f64(1), UnitCost: f64(30)},
	}

	totals := ComputeTotals(lines)

	if totals.ShippingCost != 45 {
		t.Errorf("shipping = %.2f, want 45 (all shipping lines summed)", totals.ShippingCost)
	}
	if totals.Subtotal != 200 {
		t.Errorf("subtotal = %.2f, want 200", totals.Subtotal)
	}
}

// TestComputeTotalsMissingQuantity verifies order lines without any quantity
// count as one unit, unlike the grouping statistics which count them as zero
func TestComputeTotalsMissingQuantity(t *testing.T) {
	line := entity.EquipmentLine{Description: "Bracket", UnitCost: f64(7)}

	totals := ComputeTotals([]entity.EquipmentLine{line})
	if totals.TotalAmount != 7 {
		t.Errorf("total = %.2f, want 7 (missing quantity defaults to 1 on orders)", totals.TotalAmount)
	}
	if line.EffectiveQuantity() != 0 {
		t.Errorf("grouping quantity = %.2f, want 0", line.EffectiveQuantity())
	}
	if line.OrderQuantity() != 1 {
		t.Errorf("order quantity = %.2f, want 1", line.OrderQuantity())
	}
}

func TestIsShippingLine(t *testing.T) {
	tests := []struct {
		desc, pn string
		want     bool
	}{
		{"Shipping charge", "", true},
		{"FREIGHT & SHIPPING", "", true},
		{"Widget", "SHIP-900", true},
		{"Widget", "WDG-1", false},
		{"Dealership fee", "", true}, // substring match is deliberately loose
		{"Keypad", "", false},
	}
	for _, tt := range tests {
		line := entity.EquipmentLine{Description: tt.desc, PartNumber: tt.pn}
		if got := IsShippingLine(&line); got != tt.want {
			t.Errorf("IsShippingLine(desc=%q, pn=%q) = %v, want %v", tt.desc, tt.pn, got, tt.want)
		}
	}
}

// TestDeliveryLeadTime verifies the delivery date lands two weeks before the milestone
func TestDeliveryLeadTime(t *testing.T) {
	target := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got := target.AddDate(0, 0, -DeliveryLeadDays)
	if !got.Equal(want) {
		t.Errorf("delivery date = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestPOStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{entity.POStatusDraft, entity.POStatusSubmitted, true},
		{entity.POStatusDraft, entity.POStatusCancelled, true},
		{entity.POStatusDraft, entity.POStatusReceived, false},
		{entity.POStatusSubmitted, entity.POStatusReceived, true},
		{entity.POStatusSubmitted, entity.POStatusCancelled, true},
		{entity.POStatusSubmitted, entity.POStatusDraft, false},
		{entity.POStatusReceived, entity.POStatusCancelled, false},
		{entity.POStatusReceived, entity.POStatusDraft, false},
		{entity.POStatusCancelled, entity.POStatusDraft, false},
		{entity.POStatusCancelled, entity.POStatusSubmitted, false},
	}
	for _, tt := range tests {
		if got := entity.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestReorderLines(t *testing.T) {
	lines := []entity.EquipmentLine{{ID: "b"}, {ID: "a"}, {ID: "c"}}

	ordered := reorderLines(lines, []string{"a", "b", "c"})
	if len(ordered) != 3 || ordered[0].ID != "a" || ordered[1].ID != "b" || ordered[2].ID != "c" {
		t.Fatalf("reorder wrong: %+v", ordered)
	}

	// IDs absent from the result set are skipped, not zero-filled
	partial := reorderLines(lines[:2], []string{"c", "a"})
	if len(partial) != 1 || partial[0].ID != "a" {
		t.Fatalf("partial reorder wrong: %+v", partial)
	}
}
