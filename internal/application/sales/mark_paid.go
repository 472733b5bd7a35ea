package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/application/dto"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
)

// MarkOrderPaid completa una venta a crédito que quedó pendiente: marca
// la cabecera como pagada y, si el stock aún no fue descargado, registra
// las salidas y genera los contratos de servicio. La transición es
// a-lo-sumo-una-vez: una venta ya pagada rechaza el segundo intento y la
// referencia de origen evita movimientos duplicados en un replay.
func (uc *UseCase) MarkOrderPaid(ctx context.Context, saleID string, in dto.MarkPaidRequest) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.PaymentStatus == entity.PaymentStatusPaid {
		return nil, domain.ErrAlreadyPaid
	}

	paidAt := time.Now()
	if in.PaidDate != "" {
		if paidAt, err = time.Parse(dateLayout, in.PaidDate); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}

	items, err := uc.saleRepo.ListItems(saleID)
	if err != nil {
		return nil, err
	}

	// Demanda agregada: líneas planas e hijas de kit (las padre son
	// documentales y no consumen stock).
	demand := map[string]decimal.Decimal{}
	productIDs := map[string]struct{}{}
	for _, it := range items {
		if it.IsKitParent {
			continue
		}
		demand[it.ProductID] = demand[it.ProductID].Add(it.Qty)
		productIDs[it.ProductID] = struct{}{}
	}
	ids := make([]string, 0, len(productIDs))
	for id := range productIDs {
		ids = append(ids, id)
	}
	products, err := uc.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	// Si la venta ya descargó stock al confirmarse (crédito con pago
	// inicial) solo queda la transición de estado.
	released, err := uc.movementRepo.ExistsByOrigin(entity.OriginModuleSale, sale.ID)
	if err != nil {
		return nil, err
	}
	if !released {
		// Re-validación contra el saldo de hoy, no el de la confirmación
		if err := uc.checkAvailability(demand); err != nil {
			return nil, err
		}
	}

	prevStatus := sale.PaymentStatus
	prevPaidAt := sale.PaidAt

	steps := []sagaStep{
		{
			Name: "marcar pagado",
			Run: func(ctx context.Context) error {
				sale.PaymentStatus = entity.PaymentStatusPaid
				sale.PaidAt = &paidAt
				return uc.saleRepo.UpdatePaymentStatus(sale)
			},
			Compensate: func(ctx context.Context) error {
				sale.PaymentStatus = prevStatus
				sale.PaidAt = prevPaidAt
				return uc.saleRepo.UpdatePaymentStatus(sale)
			},
		},
	}
	if !released {
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
		Str("pagado_el", paidAt.Format(dateLayout)).
		Bool("descarga_stock", !released).
		Msg("venta marcada como pagada")

	return toSaleResponse(sale, items), nil
}
