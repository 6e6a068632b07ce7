package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jojimjohn/pbm-contracts/internal/config"
	"github.com/jojimjohn/pbm-contracts/internal/draft"
	"github.com/jojimjohn/pbm-contracts/internal/model"
	"github.com/jojimjohn/pbm-contracts/internal/repository"
)

type ContractRepository interface {
	List(ctx context.Context) ([]model.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	NextSequence(ctx context.Context, prefix string, year int) (int, error)
	Create(ctx context.Context, input repository.ContractWrite) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, input repository.ContractWrite, staged model.StagedDeletions) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SupplierRepository interface {
	List(ctx context.Context) ([]model.Supplier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListLocations(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierLocation, error)
}

type MaterialRepository interface {
	List(ctx context.Context, businessType string) ([]model.Material, error)
}

type ExcelGenerator interface {
	Generate(card model.RateCard) ([]byte, error)
}

type PDFGenerator interface {
	Generate(card model.RateCard) ([]byte, error)
}

type ContractService struct {
	contracts ContractRepository
	suppliers SupplierRepository
	materials MaterialRepository
	excel     ExcelGenerator
	pdf       PDFGenerator
	cfg       *config.Config
	now       func() time.Time
}

func NewContractService(
	contracts ContractRepository,
	suppliers SupplierRepository,
	materials MaterialRepository,
	excel ExcelGenerator,
	pdf PDFGenerator,
	cfg *config.Config,
) *ContractService {
	return &ContractService{
		contracts: contracts,
		suppliers: suppliers,
		materials: materials,
		excel:     excel,
		pdf:       pdf,
		cfg:       cfg,
		now:       time.Now,
	}
}

// FallbackUnit is the unit applied when hydrating stored rate rows that
// predate the unit column; edit sessions opened on this service should
// pass it to the draft hydration.
func (s *ContractService) FallbackUnit() string {
	return s.cfg.Contracts.FallbackUnit
}

func (s *ContractService) List(ctx context.Context) ([]model.Contract, error) {
	return s.contracts.List(ctx)
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

// NextContractNumber suggests the next number in the CT-<year>-<seq>
// scheme. The suggestion is editable by the user; uniqueness is enforced
// on write.
func (s *ContractService) NextContractNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	seq, err := s.contracts.NextSequence(ctx, s.cfg.Contracts.NumberPrefix, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", s.cfg.Contracts.NumberPrefix, year, seq), nil
}

// Validate runs the draft validator over a submitted payload and returns
// the ordered blocker list. The editor runs the same rules client-side;
// this is the server's defense against stale or bypassed clients.
func (s *ContractService) Validate(payload model.ContractPayload) []string {
	return draft.Validate(draft.FromPayload(payload))
}

func (s *ContractService) Create(ctx context.Context, principal model.Principal, payload model.ContractPayload) (*model.Contract, error) {
	if !principal.CanManageContracts() {
		return nil, ErrPermissionDenied
	}

	d, err := s.prepare(ctx, payload)
	if err != nil {
		return nil, err
	}

	id, err := s.contracts.Create(ctx, repository.ContractWrite{
		Payload:   draft.ToPayload(*d),
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		CreatedBy: principal.UserID,
	})
	if err != nil {
		return nil, wrapWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *ContractService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, payload model.ContractPayload, staged model.StagedDeletions) (*model.Contract, error) {
	if !principal.CanManageContracts() {
		return nil, ErrPermissionDenied
	}

	d, err := s.prepare(ctx, payload)
	if err != nil {
		return nil, err
	}

	err = s.contracts.Update(ctx, id, repository.ContractWrite{
		Payload:   draft.ToPayload(*d),
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		CreatedBy: principal.UserID,
	}, staged)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *ContractService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.CanManageContracts() {
		return ErrPermissionDenied
	}
	if err := s.contracts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// prepare turns a submitted payload into a validated draft: status and
// currency defaults, a generated contract number when blank, then the
// full validator.
func (s *ContractService) prepare(ctx context.Context, payload model.ContractPayload) (*draft.ContractDraft, error) {
	if payload.Status == "" {
		payload.Status = string(model.ContractStatusDraft)
	}
	if !s.statusAllowed(payload.Status) {
		return nil, fmt.Errorf("%w: unknown contract status %q", ErrInvalidInput, payload.Status)
	}
	if payload.Currency == "" {
		payload.Currency = s.cfg.Contracts.DefaultCurrency
	}
	if strings.TrimSpace(payload.ContractNumber) == "" {
		number, err := s.NextContractNumber(ctx)
		if err != nil {
			return nil, err
		}
		payload.ContractNumber = number
	}
	if err := checkRateEnums(payload); err != nil {
		return nil, err
	}

	d := draft.FromPayload(payload)
	if errs := draft.Validate(d); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, "\n"))
	}
	return &d, nil
}

// checkRateEnums rejects rate types and payment directions outside the
// database enums. Blank values are allowed; the draft hydration fills in
// the editor defaults.
func checkRateEnums(payload model.ContractPayload) error {
	for _, loc := range payload.Locations {
		for _, m := range loc.Materials {
			if m.RateType != "" && !m.RateType.Valid() {
				return fmt.Errorf("%w: unknown rate type %q", ErrInvalidInput, m.RateType)
			}
			if m.PaymentDirection != "" && !m.PaymentDirection.Valid() {
				return fmt.Errorf("%w: unknown payment direction %q", ErrInvalidInput, m.PaymentDirection)
			}
		}
	}
	return nil
}

func (s *ContractService) statusAllowed(status string) bool {
	for _, valid := range s.cfg.Contracts.ValidStatuses {
		if status == valid {
			return true
		}
	}
	return false
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *ContractService) ExportExcel(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	card, err := s.buildRateCard(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*card)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contract-%s-rates.xlsx", sanitizeFileName(card.Contract.ContractNumber)),
		Content:  content,
	}, nil
}

func (s *ContractService) ExportPDF(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	card, err := s.buildRateCard(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*card)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contract-%s.pdf", sanitizeFileName(card.Contract.ContractNumber)),
		Content:  content,
	}, nil
}

func (s *ContractService) buildRateCard(ctx context.Context, id uuid.UUID) (*model.RateCard, error) {
	contract, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier, err := s.suppliers.GetByID(ctx, contract.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	card := model.RateCard{Contract: *contract, Supplier: *supplier}
	index := make(map[uuid.UUID]int, len(contract.Rates))
	for _, rate := range contract.Rates {
		pos, ok := index[rate.LocationID]
		if !ok {
			card.Locations = append(card.Locations, model.RateCardLocation{
				LocationID:   rate.LocationID,
				LocationName: rate.LocationName,
				LocationCode: rate.LocationCode,
			})
			pos = len(card.Locations) - 1
			index[rate.LocationID] = pos
		}
		card.Locations[pos].Rates = append(card.Locations[pos].Rates, rate)
	}
	return &card, nil
}

func (s *ContractService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *ContractService) ListSupplierLocations(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierLocation, error) {
	return s.suppliers.ListLocations(ctx, supplierID)
}

func (s *ContractService) ListMaterials(ctx context.Context, businessType string) ([]model.Material, error) {
	return s.materials.List(ctx, businessType)
}

func wrapWriteError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
		return fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
	}
	return err
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
