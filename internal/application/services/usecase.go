package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/hidrosur/comercial-api/internal/application/dto"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/repository"
	"github.com/hidrosur/comercial-api/internal/domain/schedule"
)

const dateLayout = "2006-01-02"

// UseCase gestiona las obligaciones de servicio recurrente: alta manual,
// atención (avance del cronograma), observaciones y estado derivado.
type UseCase struct {
	contractRepo repository.ServiceContractRepository
	clientRepo   repository.ClientRepository
	productRepo  repository.ProductRepository
	tx           TxRunner
	log          zerolog.Logger
}

// NewUseCase construye el caso de uso de servicios.
func NewUseCase(
	contractRepo repository.ServiceContractRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	tx TxRunner,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		productRepo:  productRepo,
		tx:           tx,
		log:          log,
	}
}

// CreateObligation da de alta un contrato manual (instalaciones previas
// al sistema o equipos no vendidos aquí). La primera fecha de servicio
// es la fecha de inicio más el intervalo.
func (uc *UseCase) CreateObligation(ctx context.Context, in dto.CreateContractRequest) (*dto.ContractResponse, error) {
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.IntervalMonths < 1 {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	contract := &entity.ServiceContract{
		ID:              uuid.New().String(),
		ClientID:        in.ClientID,
		ProductID:       in.ProductID,
		UnitIndex:       1,
		StartDate:       start,
		NextServiceDate: schedule.NextServiceDate(start, in.IntervalMonths),
		IntervalMonths:  in.IntervalMonths,
		CreatedAt:       time.Now(),
	}
	if err := uc.contractRepo.Create(contract); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("contract_id", contract.ID).
		Str("client_id", contract.ClientID).
		Int("intervalo_meses", contract.IntervalMonths).
		Msg("contrato de servicio creado")

	return uc.toResponse(contract, time.Now()), nil
}

// Attend registra una atención: fija la última fecha de servicio, avanza
// la próxima un intervalo desde la fecha de atención (no desde la fecha
// que tocaba) y deja una nota de cambio. Cronograma y nota se escriben
// en la misma transacción.
func (uc *UseCase) Attend(ctx context.Context, contractID, userID string, in dto.AttendContractRequest) (*dto.ContractResponse, error) {
	contract, err := uc.contractRepo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}

	attended := time.Now()
	if in.Date != "" {
		if attended, err = time.Parse(dateLayout, in.Date); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}

	contract.LastServiceDate = &attended
	contract.NextServiceDate = schedule.AddMonths(attended, contract.IntervalMonths)

	note := &entity.ServiceContractNote{
		ID:         uuid.New().String(),
		ContractID: contract.ID,
		Note:       in.Note,
		Changed:    true,
		CreatedAt:  time.Now(),
		CreatedBy:  userID,
	}
	if note.Note == "" {
		note.Note = "Servicio atendido el " + attended.Format(dateLayout)
	}

	err = uc.tx.Run(ctx, func(contractRepo repository.ServiceContractRepository) error {
		if err := contractRepo.UpdateSchedule(contract); err != nil {
			return err
		}
		return contractRepo.CreateNote(note)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("contract_id", contract.ID).
		Str("atendido_el", attended.Format(dateLayout)).
		Str("proximo", contract.NextServiceDate.Format(dateLayout)).
		Msg("contrato atendido")

	return uc.toResponse(contract, time.Now()), nil
}

// AddObservation deja una nota libre en el historial sin tocar el
// cronograma.
func (uc *UseCase) AddObservation(ctx context.Context, contractID, userID string, in dto.ContractNoteRequest) (*dto.ContractNoteResponse, error) {
	if in.Note == "" {
		return nil, domain.ErrInvalidInput
	}
	contract, err := uc.contractRepo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}

	note := &entity.ServiceContractNote{
		ID:         uuid.New().String(),
		ContractID: contract.ID,
		Note:       in.Note,
		Changed:    false,
		CreatedAt:  time.Now(),
		CreatedBy:  userID,
	}
	if err := uc.contractRepo.CreateNote(note); err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

// Status devuelve el estado derivado de un contrato a una fecha dada
// (hoy si no se indica). Nunca se lee de la base: siempre se calcula.
func (uc *UseCase) Status(ctx context.Context, contractID string, asOf time.Time) (*dto.ContractStatusResponse, error) {
	contract, err := uc.contractRepo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}
	daysLeft := schedule.DaysLeft(contract.NextServiceDate, asOf)
	return &dto.ContractStatusResponse{
		ContractID:      contract.ID,
		NextServiceDate: contract.NextServiceDate.Format(dateLayout),
		DaysLeft:        daysLeft,
		Status:          schedule.StatusFor(daysLeft),
	}, nil
}

// List devuelve los contratos ordenados por próxima fecha de servicio
// ascendente (los vencidos primero), cada uno con su estado derivado.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ContractResponse, error) {
	contracts, err := uc.contractRepo.ListOrderedByNextDate(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]*dto.ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, uc.toResponse(c, now))
	}
	return out, nil
}

// GetContract devuelve un contrato con su estado derivado.
func (uc *UseCase) GetContract(ctx context.Context, contractID string) (*dto.ContractResponse, error) {
	contract, err := uc.contractRepo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(contract, time.Now()), nil
}

// NoteHistory devuelve el historial completo del contrato, atenciones y
// observaciones, de más reciente a más antigua.
func (uc *UseCase) NoteHistory(ctx context.Context, contractID string) ([]*dto.ContractNoteResponse, error) {
	contract, err := uc.contractRepo.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}
	notes, err := uc.contractRepo.ListNotes(contractID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ContractNoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out, nil
}

func (uc *UseCase) toResponse(c *entity.ServiceContract, asOf time.Time) *dto.ContractResponse {
	daysLeft := schedule.DaysLeft(c.NextServiceDate, asOf)
	resp := &dto.ContractResponse{
		ID:              c.ID,
		ClientID:        c.ClientID,
		ProductID:       c.ProductID,
		SaleID:          c.SaleID,
		UnitIndex:       c.UnitIndex,
		StartDate:       c.StartDate.Format(dateLayout),
		NextServiceDate: c.NextServiceDate.Format(dateLayout),
		IntervalMonths:  c.IntervalMonths,
		DaysLeft:        daysLeft,
		Status:          schedule.StatusFor(daysLeft),
	}
	if c.LastServiceDate != nil {
		resp.LastServiceDate = c.LastServiceDate.Format(dateLayout)
	}
	return resp
}

func toNoteResponse(n *entity.ServiceContractNote) *dto.ContractNoteResponse {
	return &dto.ContractNoteResponse{
		ID:        n.ID,
		Note:      n.Note,
		Changed:   n.Changed,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
