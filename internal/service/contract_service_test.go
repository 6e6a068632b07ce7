package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jojimjohn/pbm-contracts/internal/config"
	"github.com/jojimjohn/pbm-contracts/internal/model"
	"github.com/jojimjohn/pbm-contracts/internal/repository"
)

type fakeContractRepo struct {
	contracts map[uuid.UUID]model.Contract
	nextSeq   int
	staged    []model.StagedDeletions
	createErr error
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: map[uuid.UUID]model.Contract{}, nextSeq: 1}
}

func (f *fakeContractRepo) List(_ context.Context) ([]model.Contract, error) {
	out := make([]model.Contract, 0, len(f.contracts))
	for _, c := range f.contracts {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContractRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeContractRepo) NextSequence(_ context.Context, _ string, _ int) (int, error) {
	return f.nextSeq, nil
}

func (f *fakeContractRepo) Create(_ context.Context, input repository.ContractWrite) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	id := uuid.New()
	f.contracts[id] = materialize(id, input)
	return id, nil
}

func (f *fakeContractRepo) Update(_ context.Context, id uuid.UUID, input repository.ContractWrite, staged model.StagedDeletions) error {
	if _, ok := f.contracts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.staged = append(f.staged, staged)
	f.contracts[id] = materialize(id, input)
	return nil
}

func (f *fakeContractRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.contracts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.contracts, id)
	return nil
}

func materialize(id uuid.UUID, input repository.ContractWrite) model.Contract {
	c := model.Contract{
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
	for _, loc := range input.Payload.Locations {
		for _, m := range loc.Materials {
			c.Rates = append(c.Rates, model.ContractRate{
				ID:               uuid.New(),
				ContractID:       id,
				LocationID:       loc.ID,
				LocationName:     loc.LocationName,
				MaterialID:       m.MaterialID,
				RateType:         m.RateType,
				ContractRate:     m.ContractRate,
				PaymentDirection: m.PaymentDirection,
				Unit:             m.Unit,
			})
		}
	}
	return c
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]model.Supplier
}

func (f *fakeSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(f.suppliers))
	for _, s := range f.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeSupplierRepo) ListLocations(_ context.Context, _ uuid.UUID) ([]model.SupplierLocation, error) {
	return nil, nil
}

type fakeMaterialRepo struct{}

func (f *fakeMaterialRepo) List(_ context.Context, _ string) ([]model.Material, error) {
	return nil, nil
}

type fakeGenerator struct {
	content []byte
	err     error
}

func (f *fakeGenerator) Generate(_ model.RateCard) ([]byte, error) {
	return f.content, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Contracts: config.ContractsConfig{
			ValidStatuses:   []string{"draft", "active", "expired", "terminated", "pending"},
			NumberPrefix:    "CT",
			DefaultCurrency: "OMR",
			FallbackUnit:    "liters",
		},
	}
}

func newTestService(contracts *fakeContractRepo, suppliers *fakeSupplierRepo) *ContractService {
	if suppliers == nil {
		suppliers = &fakeSupplierRepo{suppliers: map[uuid.UUID]model.Supplier{}}
	}
	svc := NewContractService(
		contracts,
		suppliers,
		&fakeMaterialRepo{},
		&fakeGenerator{content: []byte("xlsx")},
		&fakeGenerator{content: []byte("pdf")},
		testConfig(),
	)
	svc.now = func() time.Time {
		return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func manager() model.Principal {
	return model.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: "manager"}
}

func validPayload() model.ContractPayload {
	return model.ContractPayload{
		ContractNumber: "CT-2026-0003",
		SupplierID:     uuid.New(),
		StartDate:      "2026-01-01",
		EndDate:        "2026-12-31",
		Status:         "active",
		Currency:       "OMR",
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

func TestCreatePermissionDenied(t *testing.T) {
	svc := newTestService(newFakeContractRepo(), nil)
	staff := model.Principal{UserID: uuid.New(), Role: "staff"}

	_, err := svc.Create(context.Background(), staff, validPayload())

	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	repo := newFakeContractRepo()
	svc := newTestService(repo, nil)
	payload := validPayload()
	payload.SupplierID = uuid.Nil

	_, err := svc.Create(context.Background(), manager(), payload)

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "Supplier is required") {
		t.Fatalf("validation messages missing from error: %v", err)
	}
	if len(repo.contracts) != 0 {
		t.Fatalf("invalid payload must not be persisted")
	}
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newFakeContractRepo(), nil)
	payload := validPayload()
	payload.Status = "archived"

	_, err := svc.Create(context.Background(), manager(), payload)

	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateGeneratesNumberWhenBlank(t *testing.T) {
	repo := newFakeContractRepo()
	repo.nextSeq = 12
	svc := newTestService(repo, nil)
	payload := validPayload()
	payload.ContractNumber = ""
	payload.Title = ""

	created, err := svc.Create(context.Background(), manager(), payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ContractNumber != "CT-2026-0012" {
		t.Fatalf("expected generated number CT-2026-0012, got %q", created.ContractNumber)
	}
	if created.Title != "Contract CT-2026-0012" {
		t.Fatalf("title must default from the generated number, got %q", created.Title)
	}
}

func TestCreateEnforcesFreeRate(t *testing.T) {
	repo := newFakeContractRepo()
	svc := newTestService(repo, nil)
	payload := validPayload()
	payload.Locations[0].Materials[0].RateType = model.RateTypeFree
	payload.Locations[0].Materials[0].ContractRate = 999

	created, err := svc.Create(context.Background(), manager(), payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Rates[0].ContractRate != 0 {
		t.Fatalf("free rate must be stored as zero, got %v", created.Rates[0].ContractRate)
	}
}

func TestNextContractNumberFormat(t *testing.T) {
	repo := newFakeContractRepo()
	repo.nextSeq = 3
	svc := newTestService(repo, nil)

	number, err := svc.NextContractNumber(context.Background())
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if number != "CT-2026-0003" {
		t.Fatalf("unexpected number %q", number)
	}
}

func TestUpdateForwardsStagedDeletions(t *testing.T) {
	repo := newFakeContractRepo()
	svc := newTestService(repo, nil)

	created, err := svc.Create(context.Background(), manager(), validPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	staged := model.StagedDeletions{
		Locations: []uuid.UUID{uuid.New()},
		Materials: []uuid.UUID{uuid.New()},
	}
	if _, err := svc.Update(context.Background(), manager(), created.ID, validPayload(), staged); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(repo.staged) != 1 {
		t.Fatalf("expected one staged deletion set")
	}
	if len(repo.staged[0].Locations) != 1 || len(repo.staged[0].Materials) != 1 {
		t.Fatalf("staged deletions not forwarded: %+v", repo.staged[0])
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(newFakeContractRepo(), nil)

	_, err := svc.Update(context.Background(), manager(), uuid.New(), validPayload(), model.StagedDeletions{})

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteNotFoundAndPermission(t *testing.T) {
	svc := newTestService(newFakeContractRepo(), nil)

	if err := svc.Delete(context.Background(), manager(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	staff := model.Principal{UserID: uuid.New(), Role: "staff"}
	if err := svc.Delete(context.Background(), staff, uuid.New()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestCreateRejectsBlankUnit(t *testing.T) {
	repo := newFakeContractRepo()
	svc := newTestService(repo, nil)
	payload := validPayload()
	payload.Locations[0].Materials[0].Unit = ""

	_, err := svc.Create(context.Background(), manager(), payload)

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "Unit is required for Muscat Depot row 1") {
		t.Fatalf("blank unit must surface as a validation message, got %v", err)
	}
	if len(repo.contracts) != 0 {
		t.Fatalf("payload with a blank unit must not be persisted")
	}
}

func TestCreateRejectsUnknownRateEnums(t *testing.T) {
	svc := newTestService(newFakeContractRepo(), nil)

	payload := validPayload()
	payload.Locations[0].Materials[0].RateType = "banana"
	if _, err := svc.Create(context.Background(), manager(), payload); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown rate type: expected ErrInvalidInput, got %v", err)
	}

	payload = validPayload()
	payload.Locations[0].Materials[0].PaymentDirection = "sideways"
	if _, err := svc.Create(context.Background(), manager(), payload); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown payment direction: expected ErrInvalidInput, got %v", err)
	}

	// Blank values take the editor defaults instead of failing.
	payload = validPayload()
	payload.Locations[0].Materials[0].RateType = ""
	payload.Locations[0].Materials[0].PaymentDirection = ""
	created, err := svc.Create(context.Background(), manager(), payload)
	if err != nil {
		t.Fatalf("blank enums must default, got %v", err)
	}
	if created.Rates[0].RateType != model.RateTypeFixed {
		t.Fatalf("blank rate type must default to fixed, got %q", created.Rates[0].RateType)
	}
	if created.Rates[0].PaymentDirection != model.PaymentDirectionWeReceive {
		t.Fatalf("blank direction must default to we_receive, got %q", created.Rates[0].PaymentDirection)
	}
}

func TestValidateReportsBlankUnit(t *testing.T) {
	svc := newTestService(newFakeContractRepo(), nil)
	payload := validPayload()
	payload.Locations[0].Materials[0].Unit = ""

	errs := svc.Validate(payload)

	found := false
	for _, msg := range errs {
		if msg == "Unit is required for Muscat Depot row 1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("blank unit must be reported, got %v", errs)
	}
}

func TestValidateReturnsOrderedMessages(t *testing.T) {
	svc := newTestService(newFakeContractRepo(), nil)

	errs := svc.Validate(model.ContractPayload{})

	if len(errs) == 0 {
		t.Fatalf("empty payload must fail validation")
	}
	if errs[0] != "Supplier is required" {
		t.Fatalf("expected supplier error first, got %q", errs[0])
	}
}

func TestExportExcelBuildsFileName(t *testing.T) {
	repo := newFakeContractRepo()
	suppliers := &fakeSupplierRepo{suppliers: map[uuid.UUID]model.Supplier{}}
	svc := newTestService(repo, suppliers)

	payload := validPayload()
	suppliers.suppliers[payload.SupplierID] = model.Supplier{ID: payload.SupplierID, Name: "Al Noor Trading"}

	created, err := svc.Create(context.Background(), manager(), payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.ExportExcel(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.FileName != "contract-CT-2026-0003-rates.xlsx" {
		t.Fatalf("unexpected file name %q", result.FileName)
	}
	if string(result.Content) != "xlsx" {
		t.Fatalf("generator content not returned")
	}
}

func TestWrapWriteErrorDetectsDuplicate(t *testing.T) {
	err := wrapWriteError(errors.New(`ERROR: duplicate key value violates unique constraint "uq_contract_number"`))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	other := errors.New("connection reset")
	if wrapped := wrapWriteError(other); wrapped != other {
		t.Fatalf("unrelated errors must pass through")
	}
}
