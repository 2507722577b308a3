package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
	"github.com/wirehaus/wirehaus/internal/procurement/service"
	"github.com/wirehaus/wirehaus/internal/procurement/testutil"
)

func setupPOTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	poSvc := service.NewPOService(repos.PO, repos.Project, repos.Equipment, repos.Supplier)
	exportSvc := service.NewExportService(repos.PO, nil, "")
	h := NewPOHandler(poSvc, exportSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	pos := api.Group("/pos")
	pos.POST("", h.CreatePO)
	pos.GET("/:id", h.GetPO)
	pos.PUT("/:id", h.UpdatePO)
	pos.DELETE("/:id", h.DeletePO)
	pos.POST("/:id/submit", h.SubmitPO)
	pos.POST("/:id/receive", h.ReceivePO)
	pos.POST("/:id/cancel", h.CancelPO)
	pos.GET("/:id/export", h.ExportPO)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedPOTestData(t *testing.T, env *testutil.TestEnv) (projectID, supplierID string, equipmentIDs []string) {
	t.Helper()

	project := testutil.SeedProject(t, env.DB, "proj-po-001", "HV120", "Hillcrest Villa")
	supplier := testutil.SeedSupplier(t, env.DB, "sup-po-001", "Lutron Electronics", "lutron electronics", "LUT")

	qty10, qty1 := 10.0, 1.0
	cost2, cost25 := 2.0, 25.0
	lines := []entity.EquipmentLine{
		{
			ID: "eq-po-001", ProjectID: project.ID, SupplierName: supplier.Name,
			Description: "Widget", PlannedQuantity: &qty10, UnitCost: &cost2,
		},
		{
			ID: "eq-po-002", ProjectID: project.ID, SupplierName: supplier.Name,
			Description: "Shipping charge", PartNumber: "SHIP-01",
			PlannedQuantity: &qty1, UnitCost: &cost25,
		},
	}
	for i := range lines {
		if err := env.DB.Create(&lines[i]).Error; err != nil {
			t.Fatalf("Failed to seed equipment line: %v", err)
		}
	}

	// Trim milestone three weeks out, delivery should land two weeks before it
	target := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	milestone := &entity.ProjectMilestone{
		ID: "ms-po-001", ProjectID: project.ID,
		Stage: entity.MilestoneStageTrim, TargetDate: &target,
	}
	if err := env.DB.Create(milestone).Error; err != nil {
		t.Fatalf("Failed to seed milestone: %v", err)
	}

	return project.ID, supplier.ID, []string{"eq-po-001", "eq-po-002"}
}

func createDraftPO(t *testing.T, env *testutil.TestEnv, token, projectID, supplierID string, equipmentIDs []string) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{
		"project_id":      projectID,
		"supplier_id":     supplierID,
		"milestone_stage": entity.MilestoneStageTrim,
		"equipment_ids":   equipmentIDs,
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/pos", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

// TestPOCreateDraft tests draft creation with totals, numbering and delivery date
func TestPOCreateDraft(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	projectID, supplierID, equipmentIDs := seedPOTestData(t, env)

	data := createDraftPO(t, env, token, projectID, supplierID, equipmentIDs)
	po := data["po"].(map[string]interface{})

	if po["status"] != entity.POStatusDraft {
		t.Fatalf("expected draft status, got %v", po["status"])
	}
	if po["po_number"] != "LUT-HV120-001" {
		t.Fatalf("expected PO number LUT-HV120-001, got %v", po["po_number"])
	}
	// Widget 10 x 2 = 20 subtotal, shipping line 25 stripped into shipping cost
	if po["subtotal"].(float64) != 20 {
		t.Errorf("subtotal = %v, want 20", po["subtotal"])
	}
	if po["shipping_cost"].(float64) != 25 {
		t.Errorf("shipping = %v, want 25", po["shipping_cost"])
	}
	if po["total_amount"].(float64) != 45 {
		t.Errorf("total = %v, want 45", po["total_amount"])
	}

	// Delivery = milestone target minus lead time
	delivery, ok := po["requested_delivery_date"].(string)
	if !ok || !strings.HasPrefix(delivery, "2026-09-06") {
		t.Errorf("requested delivery date = %v, want 2026-09-06", po["requested_delivery_date"])
	}

	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["line_number"].(float64) != 1 {
		t.Errorf("first line number = %v, want 1", first["line_number"])
	}
}

// TestPOCreateWithoutMilestone tests that a missing milestone leaves the
// delivery date empty instead of failing the creation
func TestPOCreateWithoutMilestone(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	projectID, supplierID, equipmentIDs := seedPOTestData(t, env)

	// prewire stage has no milestone seeded
	body := map[string]interface{}{
		"project_id":      projectID,
		"supplier_id":     supplierID,
		"milestone_stage": entity.MilestoneStagePrewire,
		"equipment_ids":   equipmentIDs,
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/pos", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	po := resp["data"].(map[string]interface{})["po"].(map[string]interface{})
	if po["requested_delivery_date"] != nil {
		t.Fatalf("expected empty delivery date, got %v", po["requested_delivery_date"])
	}
}

// TestPOLifecycle tests the draft → submitted → received flow
func TestPOLifecycle(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	projectID, supplierID, equipmentIDs := seedPOTestData(t, env)

	data := createDraftPO(t, env, token, projectID, supplierID, equipmentIDs)
	poID := data["po"].(map[string]interface{})["id"].(string)

	// Submit
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/pos/"+poID+"/submit", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on submit, got %d: %s", w.Code, w.Body.String())
	}
	submitted := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if submitted["status"] != entity.POStatusSubmitted {
		t.Fatalf("expected submitted, got %v", submitted["status"])
	}
	if submitted["submitted_date"] == nil {
		t.Fatal("expected submitted_date to be set")
	}

	// Receive
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/pos/"+poID+"/receive", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on receive, got %d: %s", w2.Code, w2.Body.String())
	}
	received := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if received["status"] != entity.POStatusReceived {
		t.Fatalf("expected received, got %v", received["status"])
	}
}

// TestPOIllegalTransition tests that skipping submission is rejected
func TestPOIllegalTransition(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	projectID, supplierID, equipmentIDs := seedPOTestData(t, env)

	data := createDraftPO(t, env, token, projectID, supplierID, equipmentIDs)
	poID := data["po"].(map[string]interface{})["id"].(string)

	// draft → received is not allowed
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/pos/"+poID+"/receive", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for illegal transition, got %d: %s", w.Code, w.Body.String())
	}
}

// TestPODeleteDraftOnly tests that only draft orders can be deleted
func TestPODeleteDraftOnly(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	projectID, supplierID, equipmentIDs := seedPOTestData(t, env)

	data := createDraftPO(t, env, token, projectID, supplierID, equipmentIDs)
	poID := data["po"].(map[string]interface{})["id"].(string)

	// Submit, then deletion must be refused
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/pos/"+poID+"/submit", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on submit, got %d: %s", w.Code, w.Body.String())
	}
	w2 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/pos/"+poID, nil, token)
	if w2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 deleting submitted PO, got %d: %s", w2.Code, w2.Body.String())
	}

	// A fresh draft deletes fine
	data2 := createDraftPO(t, env, token, projectID, supplierID, equipmentIDs)
	poID2 := data2["po"].(map[string]interface{})["id"].(string)
	w3 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/pos/"+poID2, nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting draft, got %d: %s", w3.Code, w3.Body.String())
	}

	// Items are gone with it
	var count int64
	env.DB.Model(&entity.PurchaseOrderItem{}).Where("po_id = ?", poID2).Count(&count)
	if count != 0 {
		t.Fatalf("expected items removed with the order, found %d", count)
	}
}

// TestPOUpdateDraftOnly tests tax entry on drafts and refusal after submission
func TestPOUpdateDraftOnly(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	projectID, supplierID, equipmentIDs := seedPOTestData(t, env)

	data := createDraftPO(t, env, token, projectID, supplierID, equipmentIDs)
	poID := data["po"].(map[string]interface{})["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/pos/"+poID,
		map[string]interface{}{"tax_amount": 5.0}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := testutil.ParseResponse(w)["data"].(map[string]interface{})
	// 20 subtotal + 5 tax + 25 shipping
	if updated["total_amount"].(float64) != 50 {
		t.Fatalf("total after tax = %v, want 50", updated["total_amount"])
	}

	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/pos/"+poID+"/submit", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on submit, got %d", w2.Code)
	}
	w3 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/pos/"+poID,
		map[string]interface{}{"tax_amount": 9.0}, token)
	if w3.Code != http.StatusForbidden {
		t.Fatalf("expected 403 editing submitted PO, got %d: %s", w3.Code, w3.Body.String())
	}
}

// TestPOExportCSV tests the CSV download endpoint
func TestPOExportCSV(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	projectID, supplierID, equipmentIDs := seedPOTestData(t, env)

	data := createDraftPO(t, env, token, projectID, supplierID, equipmentIDs)
	poID := data["po"].(map[string]interface{})["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/pos/"+poID+"/export?format=csv", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("content type = %s, want text/csv", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "LUT-HV120-001") {
		t.Error("export body missing PO number")
	}
	if !strings.Contains(body, "Widget") {
		t.Error("export body missing item description")
	}
}

// TestPONotFound tests the 404 mapping
func TestPONotFound(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/pos/no-such-po", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
