package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jojimjohn/pbm-contracts/internal/config"
	"github.com/jojimjohn/pbm-contracts/internal/model"
	"github.com/jojimjohn/pbm-contracts/internal/repository"
	"github.com/jojimjohn/pbm-contracts/internal/service"
)

type memContractRepo struct {
	contracts map[uuid.UUID]model.Contract
}

func (m *memContractRepo) List(_ context.Context) ([]model.Contract, error) {
	out := make([]model.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		out = append(out, c)
	}
	return out, nil
}

func (m *memContractRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (m *memContractRepo) NextSequence(_ context.Context, _ string, _ int) (int, error) {
	return len(m.contracts) + 1, nil
}

func (m *memContractRepo) Create(_ context.Context, input repository.ContractWrite) (uuid.UUID, error) {
	id := uuid.New()
	m.contracts[id] = model.Contract{
		ID:             id,
		ContractNumber: input.Payload.ContractNumber,
		SupplierID:     input.Payload.SupplierID,
		Title:          input.Payload.Title,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Status:         model.ContractStatus(input.Payload.Status),
		Currency:       input.Payload.Currency,
		CreatedBy:      input.CreatedBy,
	}
	return id, nil
}

func (m *memContractRepo) Update(_ context.Context, id uuid.UUID, input repository.ContractWrite, _ model.StagedDeletions) error {
	if _, ok := m.contracts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := m.contracts[id]
	c.Title = input.Payload.Title
	m.contracts[id] = c
	return nil
}

func (m *memContractRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.contracts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.contracts, id)
	return nil
}

type memSupplierRepo struct{}

func (m *memSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	return []model.Supplier{{ID: uuid.New(), Name: "Al Noor Trading", Code: "ALN"}}, nil
}

func (m *memSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	return &model.Supplier{ID: id, Name: "Al Noor Trading"}, nil
}

func (m *memSupplierRepo) ListLocations(_ context.Context, supplierID uuid.UUID) ([]model.SupplierLocation, error) {
	return []model.SupplierLocation{{ID: uuid.New(), SupplierID: supplierID, LocationName: "Muscat Depot"}}, nil
}

type memMaterialRepo struct{}

func (m *memMaterialRepo) List(_ context.Context, _ string) ([]model.Material, error) {
	return nil, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(_ model.RateCard) ([]byte, error) {
	return []byte("doc"), nil
}

func newTestRouter(repo *memContractRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		Contracts: config.ContractsConfig{
			ValidStatuses:   []string{"draft", "active", "expired", "terminated", "pending"},
			NumberPrefix:    "CT",
			DefaultCurrency: "OMR",
			FallbackUnit:    "liters",
		},
	}
	svc := service.NewContractService(repo, &memSupplierRepo{}, &memMaterialRepo{}, stubGenerator{}, stubGenerator{}, cfg)
	handler := NewHandler(svc, zerolog.Nop())

	stubAuth := func(c *gin.Context) {
		c.Set("principal", model.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: "manager"})
		c.Next()
	}

	router := gin.New()
	handler.Register(router, stubAuth)
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var env envelope
	if recorder.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(recorder.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal envelope: %v (%s)", err, recorder.Body.String())
		}
	}
	return recorder, env
}

func contractPayload() model.ContractPayload {
	return model.ContractPayload{
		ContractNumber: "CT-2026-0001",
		SupplierID:     uuid.New(),
		StartDate:      "2026-01-01",
		EndDate:        "2026-12-31",
		Status:         "active",
		Locations: []model.LocationPayload{
			{
				ID:           uuid.New(),
				LocationName: "Muscat Depot",
				Materials: []model.RatePayload{
					{
						MaterialID:       uuid.New(),
						RateType:         model.RateTypeFixed,
						ContractRate:     0.25,
						PaymentDirection: model.PaymentDirectionWeReceive,
						Unit:             "liters",
					},
				},
			},
		},
	}
}

func TestCreateContractEndpoint(t *testing.T) {
	repo := &memContractRepo{contracts: map[uuid.UUID]model.Contract{}}
	router := newTestRouter(repo)

	recorder, env := doJSON(t, router, http.MethodPost, "/contracts", contractPayload())

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if !env.Success {
		t.Fatalf("expected success envelope: %s", recorder.Body.String())
	}

	var data contractResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.ContractNumber != "CT-2026-0001" {
		t.Fatalf("unexpected contract number %q", data.ContractNumber)
	}
	if len(repo.contracts) != 1 {
		t.Fatalf("contract not persisted")
	}
}

func TestCreateContractValidationFailure(t *testing.T) {
	router := newTestRouter(&memContractRepo{contracts: map[uuid.UUID]model.Contract{}})

	payload := contractPayload()
	payload.SupplierID = uuid.Nil
	recorder, env := doJSON(t, router, http.MethodPost, "/contracts", payload)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}
	if env.Success {
		t.Fatalf("expected failure envelope")
	}
	if env.Error == "" {
		t.Fatalf("expected error message")
	}
}

func TestValidateEndpoint(t *testing.T) {
	router := newTestRouter(&memContractRepo{contracts: map[uuid.UUID]model.Contract{}})

	recorder, env := doJSON(t, router, http.MethodPost, "/contracts/validate", model.ContractPayload{})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var data struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.Valid || len(data.Errors) == 0 {
		t.Fatalf("empty payload must be invalid with messages, got %+v", data)
	}
	if data.Errors[0] != "Supplier is required" {
		t.Fatalf("expected ordered messages, got %v", data.Errors)
	}
}

func TestGetContractNotFound(t *testing.T) {
	router := newTestRouter(&memContractRepo{contracts: map[uuid.UUID]model.Contract{}})

	recorder, env := doJSON(t, router, http.MethodGet, "/contracts/"+uuid.NewString(), nil)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	if env.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestGetContractBadID(t *testing.T) {
	router := newTestRouter(&memContractRepo{contracts: map[uuid.UUID]model.Contract{}})

	recorder, _ := doJSON(t, router, http.MethodGet, "/contracts/not-a-uuid", nil)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestNextNumberEndpoint(t *testing.T) {
	router := newTestRouter(&memContractRepo{contracts: map[uuid.UUID]model.Contract{}})

	recorder, env := doJSON(t, router, http.MethodGet, "/contracts/next-number", nil)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var data struct {
		ContractNumber string `json:"contractNumber"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	want := fmt.Sprintf("CT-%d-0001", time.Now().Year())
	if data.ContractNumber != want {
		t.Fatalf("expected %q, got %q", want, data.ContractNumber)
	}
}

func TestListSuppliersEndpoint(t *testing.T) {
	router := newTestRouter(&memContractRepo{contracts: map[uuid.UUID]model.Contract{}})

	recorder, env := doJSON(t, router, http.MethodGet, "/suppliers", nil)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var data []supplierResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(data) != 1 || data[0].Name != "Al Noor Trading" {
		t.Fatalf("unexpected suppliers %+v", data)
	}
}
