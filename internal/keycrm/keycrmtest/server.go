// Package keycrmtest runs an in-memory stand-in for the KeyCRM open API.
package keycrmtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"fenix-certificates/internal/keycrm"
)

const APIKey = "test-key"

// Server serves /order and /users from memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	orders   map[int64]*keycrm.Order
	nextID   int64
	users    []keycrm.User
	pageSize int
	noLast   bool
	calls    map[string]int
	created  []keycrm.CreateOrderRequest
	failWith int
}

// NewServer starts a server that is closed with the test.
func NewServer(t testing.TB) *Server {
	s := &Server{
		orders: make(map[int64]*keycrm.Order),
		nextID: 100,
		calls:  make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Client returns a keycrm client pointed at the server.
func (s *Server) Client() *keycrm.Client {
	return &keycrm.Client{BaseURL: s.URL, APIKey: APIKey, Timeout: 5 * time.Second}
}

// AddOrder stores an order directly and returns its id.
func (s *Server) AddOrder(o keycrm.Order) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	s.orders[o.ID] = &o
	return o.ID
}

// Order returns a copy of a stored order.
func (s *Server) Order(id int64) (keycrm.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return keycrm.Order{}, false
	}
	return *o, true
}

// SetUsers replaces the directory, served pageSize entries per page. With
// omitLastPage the listing does not report last_page.
func (s *Server) SetUsers(users []keycrm.User, pageSize int, omitLastPage bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.pageSize = pageSize
	s.noLast = omitLastPage
}

// Created returns the create-order requests received so far.
func (s *Server) Created() []keycrm.CreateOrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]keycrm.CreateOrderRequest(nil), s.created...)
}

// FailWith makes every following request answer status (0 resets).
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Calls returns how many requests hit "METHOD /path".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route := r.Method + " " + r.URL.Path
	if strings.HasPrefix(r.URL.Path, "/order/") {
		route = r.Method + " /order/{id}"
	}
	s.calls[route]++

	if r.Header.Get("Authorization") != "Bearer "+APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
		return
	}
	if s.failWith != 0 {
		writeJSON(w, s.failWith, map[string]string{"message": "upstream failure"})
		return
	}

	switch route {
	case "POST /order":
		var req keycrm.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
			return
		}
		s.created = append(s.created, req)
		s.nextID++
		total := 0
		for _, p := range req.Products {
			total += p.Price * p.Quantity
		}
		o := &keycrm.Order{
			ID:             s.nextID,
			SourceUUID:     req.SourceUUID,
			ManagerComment: req.ManagerComment,
			TotalPrice:     float64(total),
			CreatedAt:      "2025-01-01 10:00:00",
		}
		s.orders[o.ID] = o
		writeJSON(w, http.StatusCreated, o)
	case "GET /order":
		uuid := r.URL.Query().Get("filter[source_uuid]")
		data := []keycrm.Order{}
		for _, o := range s.orders {
			if o.SourceUUID == uuid {
				data = append(data, *o)
				break
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": data, "last_page": 1})
	case "GET /order/{id}", "PATCH /order/{id}":
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/order/"), 10, 64)
		o, ok := s.orders[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
			return
		}
		if r.Method == http.MethodPatch {
			var req keycrm.UpdateOrderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
				return
			}
			o.ManagerComment = req.ManagerComment
		}
		writeJSON(w, http.StatusOK, o)
	case "GET /users":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		size := s.pageSize
		if size <= 0 {
			size = 50
		}
		start := (page - 1) * size
		data := []keycrm.User{}
		if start < len(s.users) {
			end := start + size
			if end > len(s.users) {
				end = len(s.users)
			}
			data = s.users[start:end]
		}
		body := map[string]interface{}{"data": data, "current_page": page}
		if !s.noLast {
			last := (len(s.users) + size - 1) / size
			if last < 1 {
				last = 1
			}
			body["last_page"] = last
		}
		writeJSON(w, http.StatusOK, body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
