package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/api/middleware"
	"github.com/rootline/rootline-backend/internal/genealogies"
	"github.com/rootline/rootline-backend/internal/persons"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
	"github.com/rootline/rootline-backend/pkg/pagination"
)

type stubGenealogyService struct {
	dto     *genealogies.GenealogyDTO
	page    *genealogies.ListPage
	err     error
	created genealogies.CreateGenealogyInput
	deleted uuid.UUID
}

func (s *stubGenealogyService) Create(ctx context.Context, ownerID uuid.UUID, input genealogies.CreateGenealogyInput) (*genealogies.GenealogyDTO, error) {
	s.created = input
	return s.dto, s.err
}

func (s *stubGenealogyService) Get(ctx context.Context, callerID, id uuid.UUID) (*genealogies.GenealogyDTO, error) {
	return s.dto, s.err
}

func (s *stubGenealogyService) List(ctx context.Context, callerID uuid.UUID, params pagination.Params) (*genealogies.ListPage, error) {
	return s.page, s.err
}

func (s *stubGenealogyService) Update(ctx context.Context, callerID, id uuid.UUID, input genealogies.UpdateGenealogyInput) (*genealogies.GenealogyDTO, error) {
	return s.dto, s.err
}

func (s *stubGenealogyService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

type stubPersonService struct {
	dto     *persons.PersonDTO
	list    []persons.PersonDTO
	err     error
	created persons.CreatePersonInput
	updated persons.UpdatePersonInput
	listed  uuid.UUID
}

func (s *stubPersonService) Create(ctx context.Context, callerID uuid.UUID, input persons.CreatePersonInput) (*persons.PersonDTO, error) {
	s.created = input
	return s.dto, s.err
}

func (s *stubPersonService) Get(ctx context.Context, callerID, id uuid.UUID) (*persons.PersonDTO, error) {
	return s.dto, s.err
}

func (s *stubPersonService) ListByGenealogy(ctx context.Context, callerID, genealogyID uuid.UUID, limit int) ([]persons.PersonDTO, error) {
	s.listed = genealogyID
	return s.list, s.err
}

func (s *stubPersonService) Update(ctx context.Context, callerID, id uuid.UUID, input persons.UpdatePersonInput) (*persons.PersonDTO, error) {
	s.updated = input
	return s.dto, s.err
}

func (s *stubPersonService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	return s.err
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func withPathID(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGenealogyCreate(t *testing.T) {
	svc := &stubGenealogyService{dto: &genealogies.GenealogyDTO{
		ID:      uuid.New(),
		Name:    "Garcia Family",
		Privacy: enums.PrivacyPublic,
	}}
	handler := GenealogyCreate(svc, nil)

	req := authedRequest(http.MethodPost, "/api/genealogies", []byte(`{"name":"Garcia Family","privacy":"public"}`))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.created.Privacy == nil || *svc.created.Privacy != enums.PrivacyPublic {
		t.Fatalf("expected parsed privacy got %+v", svc.created.Privacy)
	}

	var envelope struct {
		Data genealogies.GenealogyDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Garcia Family" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestGenealogyCreateInvalidPrivacy(t *testing.T) {
	handler := GenealogyCreate(&stubGenealogyService{}, nil)

	req := authedRequest(http.MethodPost, "/api/genealogies", []byte(`{"name":"Garcia Family","privacy":"everyone"}`))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGenealogyCreateRequiresAuth(t *testing.T) {
	handler := GenealogyCreate(&stubGenealogyService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/genealogies", bytes.NewReader([]byte(`{"name":"Garcia Family"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestGenealogyListRejectsBadLimit(t *testing.T) {
	handler := GenealogyList(&stubGenealogyService{page: &genealogies.ListPage{}}, nil)

	req := authedRequest(http.MethodGet, "/api/genealogies?limit=9999", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGenealogyGetInvalidID(t *testing.T) {
	handler := GenealogyGet(&stubGenealogyService{}, nil)

	req := withPathID(authedRequest(http.MethodGet, "/api/genealogies/not-a-uuid", nil), "id", "not-a-uuid")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGenealogyGetNotFound(t *testing.T) {
	svc := &stubGenealogyService{err: pkgerrors.New(pkgerrors.CodeNotFound, "genealogy not found")}
	handler := GenealogyGet(svc, nil)

	req := withPathID(authedRequest(http.MethodGet, "/api/genealogies/x", nil), "id", uuid.NewString())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestGenealogyDelete(t *testing.T) {
	svc := &stubGenealogyService{}
	handler := GenealogyDelete(svc, nil)

	id := uuid.New()
	req := withPathID(authedRequest(http.MethodDelete, "/api/genealogies/x", nil), "id", id.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.deleted != id {
		t.Fatalf("expected delete of %s got %s", id, svc.deleted)
	}
}

func TestGenealogyPersons(t *testing.T) {
	svc := &stubPersonService{list: []persons.PersonDTO{{ID: uuid.New(), Name: "Ancestor"}}}
	handler := GenealogyPersons(svc, nil)

	req := withPathID(authedRequest(http.MethodGet, "/api/genealogies/x/persons", nil), "id", uuid.NewString())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []persons.PersonDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "Ancestor" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}
