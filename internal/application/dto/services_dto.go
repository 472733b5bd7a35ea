package dto

// CreateContractRequest body para POST /api/service-contracts.
type CreateContractRequest struct {
	ClientID       string `json:"client_id" validate:"required"`
	ProductID      string `json:"product_id" validate:"required"`
	StartDate      string `json:"start_date" validate:"required"` // YYYY-MM-DD
	IntervalMonths int    `json:"interval_months" validate:"required,min=1"`
}

// AttendContractRequest body para POST /api/service-contracts/:id/attend.
type AttendContractRequest struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD, hoy por defecto
	Note string `json:"note,omitempty"`
}

// ContractNoteRequest body para POST /api/service-contracts/:id/notes.
type ContractNoteRequest struct {
	Note string `json:"note" validate:"required"`
}

// ContractStatusResponse estado derivado de un contrato a una fecha.
type ContractStatusResponse struct {
	ContractID      string `json:"contract_id"`
	NextServiceDate string `json:"next_service_date"`
	DaysLeft        int    `json:"days_left"`
	Status          string `json:"status"`
}

// ContractResponse un contrato con su estado derivado.
type ContractResponse struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	ProductID       string `json:"product_id"`
	SaleID          string `json:"sale_id,omitempty"`
	UnitIndex       int    `json:"unit_index,omitempty"`
	StartDate       string `json:"start_date"`
	LastServiceDate string `json:"last_service_date,omitempty"`
	NextServiceDate string `json:"next_service_date"`
	IntervalMonths  int    `json:"interval_months"`
	DaysLeft        int    `json:"days_left"`
	Status          string `json:"status"`
}

// ContractNoteResponse una entrada del historial del contrato.
type ContractNoteResponse struct {
	ID        string `json:"id"`
	Note      string `json:"note"`
	Changed   bool   `json:"changed"`
	CreatedAt string `json:"created_at"`
}
