package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"steelbid/testhelpers"
)

func TestHandleBidUpdate_ChangesName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Old Name", "commercial")

	body := `{"name": "New Name", "client_name": "Acme Fabricators"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bids/"+bid.Id, strings.NewReader(body))
	req.SetPathValue("bidId", bid.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBidUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	saved, err := app.FindRecordById("bids", bid.Id)
	if err != nil {
		t.Fatalf("bid disappeared: %v", err)
	}
	if got := saved.GetString("name"); got != "New Name" {
		t.Errorf("name = %q, want New Name", got)
	}
	if got := saved.GetString("client_name"); got != "Acme Fabricators" {
		t.Errorf("client_name = %q", got)
	}
}

func TestHandleBidUpdate_UnknownStatusRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Status Bid", "commercial")

	body := `{"status": "archived"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bids/"+bid.Id, strings.NewReader(body))
	req.SetPathValue("bidId", bid.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBidUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	saved, _ := app.FindRecordById("bids", bid.Id)
	if got := saved.GetString("status"); got != "draft" {
		t.Errorf("status = %q, want unchanged draft", got)
	}
}

func TestHandleBidUpdate_EmptyNameRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Keep Me", "commercial")

	body := `{"name": "   "}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bids/"+bid.Id, strings.NewReader(body))
	req.SetPathValue("bidId", bid.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBidUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if fields := fieldErrors(t, rec); fields["name"] == "" {
		t.Error("expected a name field error")
	}
}

func TestHandleBidUpdate_ClearsDueDate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Dated Bid", "commercial")
	bid.Set("bid_due_date", "2026-05-01 00:00:00.000Z")
	if err := app.Save(bid); err != nil {
		t.Fatalf("could not set due date: %v", err)
	}

	body := `{"bid_due_date": ""}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bids/"+bid.Id, strings.NewReader(body))
	req.SetPathValue("bidId", bid.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBidUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	saved, _ := app.FindRecordById("bids", bid.Id)
	if !saved.GetDateTime("bid_due_date").IsZero() {
		t.Error("bid_due_date should have been cleared")
	}
}

func TestHandleBidUpdate_IgnoresUnknownKeys(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bid := testhelpers.CreateTestBid(t, app, "Stable Bid", "commercial")

	body := `{"favorite_color": "blue"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bids/"+bid.Id, strings.NewReader(body))
	req.SetPathValue("bidId", bid.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBidUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleBidUpdate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/bids/missing123", strings.NewReader(`{"name": "X"}`))
	req.SetPathValue("bidId", "missing123")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBidUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
