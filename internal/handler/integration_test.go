package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ticketdesk/ticketdesk/internal/handler"
)

func TestIntegration_SignupTicketLifecycleLogout(t *testing.T) {
	auth, sessions, tickets, prefs := newTestServices(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, sessions, tickets, prefs, false)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}

	// 1. Register a new user; signup logs the user in.
	resp := postJSON(t, client, srv.URL+"/api/auth/register",
		`{"fullname":"Ada","email":"ada@x.com","password":"Secret123","agreeToTerms":true}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	// 2. The guarded profile route now answers.
	resp, err = client.Get(srv.URL + "/api/auth/me")
	if err != nil {
		t.Fatalf("GET /api/auth/me: %v", err)
	}
	var meBody struct {
		Session struct {
			ID       int64  `json:"id"`
			FullName string `json:"fullname"`
			Email    string `json:"email"`
		} `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meBody); err != nil {
		t.Fatalf("decode /me: %v", err)
	}
	resp.Body.Close()
	if meBody.Session.Email != "ada@x.com" || meBody.Session.FullName != "Ada" {
		t.Fatalf("unexpected session: %+v", meBody.Session)
	}

	// 3. Create a ticket.
	resp = postJSON(t, client, srv.URL+"/api/tickets",
		`{"title":"Fix bug","status":"open","description":"Dashboard crashes","priority":"high"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create ticket: expected 201, got %d", resp.StatusCode)
	}
	var createBody struct {
		Ticket struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			Status    string `json:"status"`
			CreatedAt string `json:"createdAt"`
		} `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&createBody); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	resp.Body.Close()
	if createBody.Ticket.ID == "" || createBody.Ticket.CreatedAt == "" {
		t.Fatalf("expected generated id and createdAt, got %+v", createBody.Ticket)
	}
	ticketID := createBody.Ticket.ID

	// 4. The list contains exactly that ticket.
	resp, err = client.Get(srv.URL + "/api/tickets")
	if err != nil {
		t.Fatalf("GET /api/tickets: %v", err)
	}
	var listBody struct {
		Tickets []struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"tickets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(listBody.Tickets) != 1 || listBody.Tickets[0].Title != "Fix bug" || listBody.Tickets[0].Status != "open" {
		t.Fatalf("unexpected ticket list: %+v", listBody.Tickets)
	}

	// 5. Close the ticket.
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/tickets/"+ticketID,
		strings.NewReader(`{"title":"Fix bug","status":"closed","description":"Dashboard crashes","priority":"high"}`))
	if err != nil {
		t.Fatalf("new PUT request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT ticket: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update ticket: expected 200, got %d", resp.StatusCode)
	}

	// 6. Stats reflect the closed ticket.
	resp, err = client.Get(srv.URL + "/api/tickets/stats")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	var statsBody struct {
		Stats struct {
			Total  int `json:"total"`
			Open   int `json:"open"`
			Closed int `json:"closed"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&statsBody); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	resp.Body.Close()
	if statsBody.Stats.Total != 1 || statsBody.Stats.Closed != 1 || statsBody.Stats.Open != 0 {
		t.Fatalf("unexpected stats: %+v", statsBody.Stats)
	}

	// 7. Save and read back preferences.
	req, err = http.NewRequest(http.MethodPut, srv.URL+"/api/settings",
		strings.NewReader(`{"theme":"dark","emailNotifications":false,"defaultPriority":"low"}`))
	if err != nil {
		t.Fatalf("new settings request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT settings: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update settings: expected 200, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/settings")
	if err != nil {
		t.Fatalf("GET settings: %v", err)
	}
	var prefsBody struct {
		Preferences struct {
			Theme string `json:"theme"`
		} `json:"preferences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&prefsBody); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	resp.Body.Close()
	if prefsBody.Preferences.Theme != "dark" {
		t.Fatalf("expected saved theme, got %+v", prefsBody.Preferences)
	}

	// 8. Delete the ticket; the list is empty again.
	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/tickets/"+ticketID, nil)
	if err != nil {
		t.Fatalf("new DELETE request: %v", err)
	}
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE ticket: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete ticket: expected 204, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/tickets")
	if err != nil {
		t.Fatalf("GET /api/tickets after delete: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode list after delete: %v", err)
	}
	resp.Body.Close()
	if len(listBody.Tickets) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", listBody.Tickets)
	}

	// 9. Logout; the guard denies every further request.
	resp = postJSON(t, client, srv.URL+"/api/auth/logout", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/tickets")
	if err != nil {
		t.Fatalf("GET /api/tickets after logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestIntegration_TicketsRequireSession(t *testing.T) {
	auth, sessions, tickets, prefs := newTestServices(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, sessions, tickets, prefs, false)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	// Without a session, every ticket operation is rejected and nothing is
	// stored.
	resp, err := http.Post(srv.URL+"/api/tickets", "application/json",
		strings.NewReader(`{"title":"Sneaky","status":"open"}`))
	if err != nil {
		t.Fatalf("POST /api/tickets: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// Register a user and verify their ticket list is still empty.
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}
	resp = postJSON(t, client, srv.URL+"/api/auth/register",
		`{"fullname":"Checker","email":"check@x.com","password":"Secret123","agreeToTerms":true}`)
	resp.Body.Close()

	resp, err = client.Get(srv.URL + "/api/tickets")
	if err != nil {
		t.Fatalf("GET /api/tickets: %v", err)
	}
	var listBody struct {
		Tickets []json.RawMessage `json:"tickets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(listBody.Tickets) != 0 {
		t.Fatalf("expected no tickets, got %d", len(listBody.Tickets))
	}
}
