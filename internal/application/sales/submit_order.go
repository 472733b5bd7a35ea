package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/application/dto"
	appinventory "github.com/hidrosur/comercial-api/internal/application/inventory"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/repository"
	"github.com/hidrosur/comercial-api/internal/domain/schedule"
)

const dateLayout = "2006-01-02"

// UseCase es la máquina de confirmación de ventas: valida la orden
// propuesta contra saldos y reglas de negocio y, si la acepta, persiste
// cabecera, líneas, movimientos de salida y contratos de servicio como
// una sola unidad lógica (saga con compensación explícita, sin
// transacción distribuida del store remoto).
type UseCase struct {
	saleRepo     repository.SaleRepository
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	clientRepo   repository.ClientRepository
	contractRepo repository.ServiceContractRepository
	cache        appinventory.BalanceCache // opcional
	log          zerolog.Logger
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	saleRepo repository.SaleRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	contractRepo repository.ServiceContractRepository,
	cache appinventory.BalanceCache,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		saleRepo:     saleRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		clientRepo:   clientRepo,
		contractRepo: contractRepo,
		cache:        cache,
		log:          log,
	}
}

// SubmitOrder confirma una venta. Toda validación ocurre antes de
// cualquier escritura; el commit es todo-o-nada vía saga.
func (uc *UseCase) SubmitOrder(ctx context.Context, userID string, in dto.SubmitOrderRequest) (*dto.SaleResponse, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	// Reglas de comprobante y crédito: rechazo antes de cualquier escritura
	if in.DocType == entity.DocTypeFactura && !client.HasValidRUC() {
		return nil, domain.ErrInvalidDocumentType
	}
	switch in.PaymentTerms {
	case entity.PaymentTermsCash:
	case entity.PaymentTermsCredit:
		if !client.CanBuyOnCredit() {
			return nil, domain.ErrInvalidDocumentType
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	// Descarga inmediata: contado siempre; crédito solo con pago recibido
	releaseNow := in.PaymentTerms == entity.PaymentTermsCash ||
		(in.PaymentTerms == entity.PaymentTermsCredit && in.PayNow)

	saleDate := time.Now()
	if in.Date != "" {
		if saleDate, err = time.Parse(dateLayout, in.Date); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	var dueDate *time.Time
	if in.PaymentTerms == entity.PaymentTermsCredit && in.DueDate != "" {
		d, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		dueDate = &d
	}

	// Demanda agregada por producto concreto: líneas planas más hijas de
	// kit, sumando duplicados entre líneas y entre kits distintos.
	demand := map[string]decimal.Decimal{}
	productIDs := map[string]struct{}{}
	for _, line := range in.Lines {
		if line.ProductID == "" || !line.Qty.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		productIDs[line.ProductID] = struct{}{}
		if line.IsKit {
			if len(line.Components) == 0 {
				return nil, domain.ErrIncompleteKit
			}
			for _, c := range line.Components {
				if c.ProductID == "" || !c.Quantity.GreaterThan(decimal.Zero) {
					return nil, domain.ErrInvalidInput
				}
				demand[c.ProductID] = demand[c.ProductID].Add(c.Quantity)
				productIDs[c.ProductID] = struct{}{}
			}
		} else {
			demand[line.ProductID] = demand[line.ProductID].Add(line.Qty)
		}
	}

	ids := make([]string, 0, len(productIDs))
	for id := range productIDs {
		ids = append(ids, id)
	}
	products, err := uc.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if products[id] == nil {
			return nil, domain.ErrNotFound
		}
	}
	for _, line := range in.Lines {
		if line.IsKit && !products[line.ProductID].IsKit {
			return nil, domain.ErrInvalidInput
		}
	}

	if releaseNow {
		if err := uc.checkAvailability(demand); err != nil {
			return nil, err
		}
	}

	// Total: solo líneas planas e hijas de kit (las padre son documentales)
	total := decimal.Zero
	for _, line := range in.Lines {
		if line.IsKit {
			for _, c := range line.Components {
				total = total.Add(c.Quantity.Mul(c.UnitPrice))
			}
			continue
		}
		item := entity.SaleItem{Qty: line.Qty, UnitPrice: line.UnitPrice, DiscountPct: line.DiscountPct}
		total = total.Add(item.ExtendedPrice())
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		ClientID:      in.ClientID,
		Date:          saleDate,
		DueDate:       dueDate,
		DocType:       in.DocType,
		DocNumber:     in.DocNumber,
		PaymentStatus: entity.PaymentStatusPending,
		Total:         total.Round(2),
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if releaseNow {
		sale.PaymentStatus = entity.PaymentStatusPaid
		paidAt := now
		sale.PaidAt = &paidAt
	}

	items := buildItems(sale.ID, in.Lines)

	steps := []sagaStep{
		{
			Name: "crear cabecera",
			Run: func(ctx context.Context) error {
				return uc.saleRepo.Create(sale)
			},
			Compensate: func(ctx context.Context) error {
				return uc.saleRepo.Delete(sale.ID)
			},
		},
		{
			Name: "crear líneas",
			Run: func(ctx context.Context) error {
				for _, it := range items {
					if err := uc.saleRepo.CreateItem(it); err != nil {
						return err
					}
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return uc.saleRepo.DeleteItems(sale.ID)
			},
		},
	}
	if releaseNow {
		steps = append(steps,
			uc.releaseStockStep(sale, demand),
			uc.createContractsStep(sale, items, products),
		)
	}

	if err := runSaga(ctx, uc.log, steps); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("estado", sale.PaymentStatus).
		Str("total", sale.Total.String()).
		Bool("descarga_stock", releaseNow).
		Msg("venta confirmada")

	return toSaleResponse(sale, items), nil
}

// checkAvailability verifica demanda <= saldo para cada producto; el
// primer faltante rechaza la orden completa.
func (uc *UseCase) checkAvailability(demand map[string]decimal.Decimal) error {
	ids := make([]string, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	balances, err := uc.movementRepo.BalancesOf(ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		available := balances[id]
		if available.LessThan(demand[id]) {
			return &domain.StockShortageError{
				ProductID: id,
				Requested: demand[id],
				Available: available,
			}
		}
	}
	return nil
}

// releaseStockStep apenda un OUT por producto de la demanda agregada,
// re-verificando el saldo en el momento del commit para acortar la
// ventana entre chequeo y escritura. La referencia de origen a la venta
// es la clave de idempotencia: un reintento no duplica movimientos.
func (uc *UseCase) releaseStockStep(sale *entity.Sale, demand map[string]decimal.Decimal) sagaStep {
	return sagaStep{
		Name: "descargar stock",
		Run: func(ctx context.Context) error {
			exists, err := uc.movementRepo.ExistsByOrigin(entity.OriginModuleSale, sale.ID)
			if err != nil {
				return err
			}
			if exists {
				return nil // replay tras caída: los movimientos ya están
			}
			if err := uc.checkAvailability(demand); err != nil {
				return err
			}
			now := time.Now()
			for productID, qty := range demand {
				mov := &entity.StockMovement{
					ID:        uuid.New().String(),
					ProductID: productID,
					Date:      sale.Date,
					Type:      entity.MovementTypeOUT,
					Quantity:  qty,
					Note:      "Venta " + sale.DocType + " " + sale.DocNumber,
					Origin: entity.MovementOrigin{
						Module:  entity.OriginModuleSale,
						RefType: "sale",
						RefID:   sale.ID,
					},
					CreatedAt: now,
					CreatedBy: sale.CreatedBy,
				}
				if err := uc.movementRepo.Create(mov); err != nil {
					return err
				}
			}
			if uc.cache != nil {
				ids := make([]string, 0, len(demand))
				for id := range demand {
					ids = append(ids, id)
				}
				uc.cache.Invalidate(ctx, ids...)
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if err := uc.movementRepo.DeleteByOrigin(entity.OriginModuleSale, sale.ID); err != nil {
				return err
			}
			if uc.cache != nil {
				ids := make([]string, 0, len(demand))
				for id := range demand {
					ids = append(ids, id)
				}
				uc.cache.Invalidate(ctx, ids...)
			}
			return nil
		},
	}
}

// createContractsStep genera un contrato de servicio por unidad vendida
// de cada línea plana con producto de servicio recurrente. Las hijas de
// kit no generan contratos.
func (uc *UseCase) createContractsStep(sale *entity.Sale, items []*entity.SaleItem, products map[string]*entity.Product) sagaStep {
	return sagaStep{
		Name: "crear contratos de servicio",
		Run: func(ctx context.Context) error {
			now := time.Now()
			for _, it := range items {
				if it.IsKitParent || it.ParentLineID != nil {
					continue
				}
				product := products[it.ProductID]
				if product == nil || !product.ServiceRecurring {
					continue
				}
				months := product.ServiceIntervalMonths
				if months <= 0 {
					months = 12
				}
				units := int(it.Qty.IntPart())
				if units < 1 {
					units = 1
				}
				for k := 1; k <= units; k++ {
					contract := &entity.ServiceContract{
						ID:              uuid.New().String(),
						ClientID:        sale.ClientID,
						ProductID:       it.ProductID,
						SaleID:          sale.ID,
						UnitIndex:       k,
						StartDate:       sale.Date,
						NextServiceDate: schedule.NextServiceDate(sale.Date, months),
						IntervalMonths:  months,
						CreatedAt:       now,
					}
					if err := uc.contractRepo.Create(contract); err != nil {
						return err
					}
				}
			}
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return uc.contractRepo.DeleteBySale(sale.ID)
		},
	}
}

// buildItems arma las líneas persistibles: una plana por línea normal;
// un padre documental (precio 0) más hijas con parent_line_id por kit.
func buildItems(saleID string, lines []dto.SubmitOrderLine) []*entity.SaleItem {
	var items []*entity.SaleItem
	for _, line := range lines {
		if line.IsKit {
			parent := &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      saleID,
				ProductID:   line.ProductID,
				Qty:         line.Qty,
				UnitPrice:   decimal.Zero,
				IsKitParent: true,
			}
			items = append(items, parent)
			for _, c := range line.Components {
				parentID := parent.ID
				items = append(items, &entity.SaleItem{
					ID:           uuid.New().String(),
					SaleID:       saleID,
					ProductID:    c.ProductID,
					Qty:          c.Quantity,
					UnitPrice:    c.UnitPrice,
					ParentLineID: &parentID,
				})
			}
			continue
		}
		items = append(items, &entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      saleID,
			ProductID:   line.ProductID,
			Qty:         line.Qty,
			UnitPrice:   line.UnitPrice,
			DiscountPct: line.DiscountPct,
		})
	}
	return items
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		ClientID:      sale.ClientID,
		Date:          sale.Date.Format(dateLayout),
		DocType:       sale.DocType,
		DocNumber:     sale.DocNumber,
		PaymentStatus: sale.PaymentStatus,
		Total:         sale.Total,
	}
	if sale.DueDate != nil {
		resp.DueDate = sale.DueDate.Format(dateLayout)
	}
	if sale.PaidAt != nil {
		resp.PaidAt = sale.PaidAt.Format(dateLayout)
	}
	for _, it := range items {
		item := dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			DiscountPct: it.DiscountPct,
			IsKitParent: it.IsKitParent,
		}
		if it.ParentLineID != nil {
			item.ParentLineID = *it.ParentLineID
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// GetSale devuelve cabecera y líneas de una venta.
func (uc *UseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}
