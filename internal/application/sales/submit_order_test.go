package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrosur/comercial-api/internal/application/dto"
	"github.com/hidrosur/comercial-api/internal/application/sales"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con inyección de fallas
// ──────────────────────────────────────────────────────────────────────────────

type memMovementRepo struct {
	movements   []*entity.StockMovement
	failCreate  error
	failAtCall  int // si > 0, Create solo falla en la n-ésima invocación
	createCalls int
}

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.createCalls++
	if r.failCreate != nil && (r.failAtCall == 0 || r.createCalls == r.failAtCall) {
		return r.failCreate
	}
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) BalanceOf(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movements {
		if m.ProductID == productID {
			total = total.Add(m.SignedQuantity())
		}
	}
	return total, nil
}

func (r *memMovementRepo) BalancesOf(productIDs []string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, id := range productIDs {
		b, _ := r.BalanceOf(id)
		out[id] = b
	}
	return out, nil
}

func (r *memMovementRepo) ExistsByOrigin(module, refID string) (bool, error) {
	for _, m := range r.movements {
		if m.Origin.Module == module && m.Origin.RefID == refID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMovementRepo) DeleteByOrigin(module, refID string) error {
	var kept []*entity.StockMovement
	for _, m := range r.movements {
		if !(m.Origin.Module == module && m.Origin.RefID == refID) {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDs(ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

type memClientRepo struct {
	clients map[string]*entity.Client
}

func (r *memClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.clients[id], nil
}

type memSaleRepo struct {
	sales map[string]*entity.Sale
	items map[string][]*entity.SaleItem
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: map[string]*entity.Sale{}, items: map[string][]*entity.SaleItem{}}
}

func (r *memSaleRepo) Create(s *entity.Sale) error {
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSaleRepo) UpdatePaymentStatus(s *entity.Sale) error {
	stored, ok := r.sales[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.PaymentStatus = s.PaymentStatus
	stored.PaidAt = s.PaidAt
	return nil
}

func (r *memSaleRepo) Delete(id string) error {
	delete(r.sales, id)
	return nil
}

func (r *memSaleRepo) CreateItem(it *entity.SaleItem) error {
	cp := *it
	r.items[it.SaleID] = append(r.items[it.SaleID], &cp)
	return nil
}

func (r *memSaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	return r.items[saleID], nil
}

func (r *memSaleRepo) DeleteItems(saleID string) error {
	delete(r.items, saleID)
	return nil
}

type memContractRepo struct {
	contracts   []*entity.ServiceContract
	notes       []*entity.ServiceContractNote
	failCreate  error
	failAtCall  int // si > 0, Create solo falla en la n-ésima invocación
	createCalls int
}

func (r *memContractRepo) Create(c *entity.ServiceContract) error {
	r.createCalls++
	if r.failCreate != nil && (r.failAtCall == 0 || r.createCalls == r.failAtCall) {
		return r.failCreate
	}
	cp := *c
	r.contracts = append(r.contracts, &cp)
	return nil
}

func (r *memContractRepo) GetByID(id string) (*entity.ServiceContract, error) {
	for _, c := range r.contracts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memContractRepo) UpdateSchedule(c *entity.ServiceContract) error {
	for _, stored := range r.contracts {
		if stored.ID == c.ID {
			stored.LastServiceDate = c.LastServiceDate
			stored.NextServiceDate = c.NextServiceDate
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memContractRepo) ListOrderedByNextDate(limit, offset int) ([]*entity.ServiceContract, error) {
	return r.contracts, nil
}

func (r *memContractRepo) DeleteBySale(saleID string) error {
	var kept []*entity.ServiceContract
	for _, c := range r.contracts {
		if c.SaleID != saleID {
			kept = append(kept, c)
		}
	}
	r.contracts = kept
	return nil
}

func (r *memContractRepo) CreateNote(n *entity.ServiceContractNote) error {
	cp := *n
	r.notes = append(r.notes, &cp)
	return nil
}

func (r *memContractRepo) ListNotes(contractID string) ([]*entity.ServiceContractNote, error) {
	var out []*entity.ServiceContractNote
	for _, n := range r.notes {
		if n.ContractID == contractID {
			out = append(out, n)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *sales.UseCase
	movements *memMovementRepo
	sales     *memSaleRepo
	contracts *memContractRepo
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedMovement(r *memMovementRepo, productID, qty string) {
	r.movements = append(r.movements, &entity.StockMovement{
		ProductID: productID,
		Type:      entity.MovementTypeIN,
		Quantity:  dec(qty),
	})
}

// Catálogo: purificador recurrente anual, repuesto simple y un kit con
// dos componentes.
func newFixture() *fixture {
	movements := &memMovementRepo{}
	saleRepo := newMemSaleRepo()
	contracts := &memContractRepo{}
	products := &memProductRepo{products: map[string]*entity.Product{
		"purif": {ID: "purif", SKU: "PUR-1", ListPrice: dec("500"), ServiceRecurring: true, ServiceIntervalMonths: 12},
		"rep":   {ID: "rep", SKU: "REP-1", ListPrice: dec("20")},
		"kit":   {ID: "kit", SKU: "KIT-1", IsKit: true},
	}}
	clients := &memClientRepo{clients: map[string]*entity.Client{
		"c-normal": {ID: "c-normal", Type: entity.ClientTypeNormal, DNI: "12345678"},
		"c-dist":   {ID: "c-dist", Type: entity.ClientTypeDistributor, RUC: "20123456789"},
	}}

	uc := sales.NewUseCase(saleRepo, movements, products, clients, contracts, nil, zerolog.Nop())
	return &fixture{uc: uc, movements: movements, sales: saleRepo, contracts: contracts}
}

func flatLine(productID, qty, price string) dto.SubmitOrderLine {
	return dto.SubmitOrderLine{ProductID: productID, Qty: dec(qty), UnitPrice: dec(price)}
}

// ──────────────────────────────────────────────────────────────────────────────
// SubmitOrder
// ──────────────────────────────────────────────────────────────────────────────

// Venta al contado: descarga stock, queda pagada y genera un contrato por
// unidad vendida del producto recurrente.
func TestSubmitOrder_ContadoDescargaYGeneraContratos(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "purif", "10")

	got, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Date:         "2025-03-10",
		Lines:        []dto.SubmitOrderLine{flatLine("purif", "2", "500")},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus, "contado queda pagado de inmediato")
	assert.True(t, got.Total.Equal(dec("1000")), "total 2 x 500")

	// Un solo OUT agregado por producto, con referencia a la venta
	outs := 0
	for _, m := range f.movements.movements {
		if m.Type == entity.MovementTypeOUT {
			outs++
			assert.True(t, m.Quantity.Equal(dec("2")))
			assert.Equal(t, entity.OriginModuleSale, m.Origin.Module)
			assert.Equal(t, got.ID, m.Origin.RefID)
		}
	}
	assert.Equal(t, 1, outs, "debe haber exactamente un OUT por producto")

	balance, _ := f.movements.BalanceOf("purif")
	assert.True(t, balance.Equal(dec("8")), "10 - 2 = 8")

	// Dos unidades vendidas: dos contratos con índice 1 y 2
	require.Len(t, f.contracts.contracts, 2)
	assert.Equal(t, 1, f.contracts.contracts[0].UnitIndex)
	assert.Equal(t, 2, f.contracts.contracts[1].UnitIndex)
	next := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, next, f.contracts.contracts[0].NextServiceDate, "próximo servicio un intervalo después de la venta")
}

// Venta a crédito sin pago inicial: no descarga stock ni genera contratos.
func TestSubmitOrder_CreditoSinPagoNoDescarga(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "purif", "10")

	got, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-dist",
		DocType:      entity.DocTypeFactura,
		PaymentTerms: entity.PaymentTermsCredit,
		DueDate:      "2025-04-10",
		Lines:        []dto.SubmitOrderLine{flatLine("purif", "3", "450")},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, "2025-04-10", got.DueDate)

	balance, _ := f.movements.BalanceOf("purif")
	assert.True(t, balance.Equal(dec("10")), "el stock no se toca hasta el pago")
	assert.Empty(t, f.contracts.contracts, "sin entrega no hay contratos")
}

// Crédito con pago inicial recibido descarga de inmediato.
func TestSubmitOrder_CreditoConPagoDescarga(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "rep", "5")

	got, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-dist",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCredit,
		PayNow:       true,
		Lines:        []dto.SubmitOrderLine{flatLine("rep", "2", "20")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)

	balance, _ := f.movements.BalanceOf("rep")
	assert.True(t, balance.Equal(dec("3")))
}

// Solo distribuidores compran a crédito.
func TestSubmitOrder_CreditoSoloDistribuidor(t *testing.T) {
	f := newFixture()
	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCredit,
		Lines:        []dto.SubmitOrderLine{flatLine("rep", "1", "20")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)
}

// Factura exige cliente con RUC válido de 11 dígitos.
func TestSubmitOrder_FacturaSinRUCFalla(t *testing.T) {
	f := newFixture()
	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeFactura,
		PaymentTerms: entity.PaymentTermsCash,
		Lines:        []dto.SubmitOrderLine{flatLine("rep", "1", "20")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)
}

// Un faltante de stock rechaza la orden completa sin escribir nada.
func TestSubmitOrder_StockInsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "purif", "1")

	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Lines:        []dto.SubmitOrderLine{flatLine("purif", "2", "500")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, "purif", shortage.ProductID)
	assert.True(t, shortage.Requested.Equal(dec("2")))
	assert.True(t, shortage.Available.Equal(dec("1")))

	assert.Empty(t, f.sales.sales, "no debe quedar cabecera")
	assert.Empty(t, f.contracts.contracts)
}

// Falla a mitad del commit: la compensación deshace cabecera y líneas,
// nunca queda una venta a medio aplicar.
func TestSubmitOrder_FallaEnContratosCompensaTodo(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "purif", "10")
	f.contracts.failCreate = errors.New("db caída")

	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Lines:        []dto.SubmitOrderLine{flatLine("purif", "2", "500")},
	})
	require.Error(t, err)

	assert.Empty(t, f.sales.sales, "la cabecera debe haberse compensado")
	assert.Empty(t, f.sales.items, "las líneas deben haberse compensado")
	balance, _ := f.movements.BalanceOf("purif")
	assert.True(t, balance.Equal(dec("10")), "los OUT deben haberse compensado")
}

// El paso de descarga falla a mitad, con el OUT del primer producto ya
// escrito: la compensación del propio paso lo borra, no puede quedar un
// movimiento huérfano bajando el saldo de un producto.
func TestSubmitOrder_FallaEnSegundoMovimientoNoDejaOUTHuerfano(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "purif", "10")
	seedMovement(f.movements, "rep", "5")
	f.movements.failCreate = errors.New("db caída")
	f.movements.failAtCall = 2

	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Lines: []dto.SubmitOrderLine{
			flatLine("purif", "2", "500"),
			flatLine("rep", "1", "20"),
		},
	})
	require.Error(t, err)
	assert.GreaterOrEqual(t, f.movements.createCalls, 2, "el paso debe haber escrito antes de fallar")

	outs := 0
	for _, m := range f.movements.movements {
		if m.Type == entity.MovementTypeOUT {
			outs++
		}
	}
	assert.Equal(t, 0, outs, "no debe sobrevivir ningún OUT")
	purifBalance, _ := f.movements.BalanceOf("purif")
	repBalance, _ := f.movements.BalanceOf("rep")
	assert.True(t, purifBalance.Equal(dec("10")), "saldo intacto tras el rollback")
	assert.True(t, repBalance.Equal(dec("5")), "saldo intacto tras el rollback")

	assert.Empty(t, f.sales.sales, "la cabecera debe haberse compensado")
	assert.Empty(t, f.sales.items, "las líneas deben haberse compensado")
	assert.Empty(t, f.contracts.contracts)
}

// El paso de contratos falla en el segundo de dos contratos: el primero
// ya persistido también se borra junto con cabecera, líneas y OUT.
func TestSubmitOrder_FallaEnSegundoContratoCompensaTodo(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "purif", "10")
	f.contracts.failCreate = errors.New("db caída")
	f.contracts.failAtCall = 2

	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Lines:        []dto.SubmitOrderLine{flatLine("purif", "2", "500")},
	})
	require.Error(t, err)
	assert.Equal(t, 2, f.contracts.createCalls, "dos unidades intentan dos contratos")

	assert.Empty(t, f.contracts.contracts, "el contrato ya escrito debe haberse compensado")
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.sales.items)
	balance, _ := f.movements.BalanceOf("purif")
	assert.True(t, balance.Equal(dec("10")), "los OUT deben haberse compensado")
}

// Línea kit: padre documental con precio cero, hijas con parent_line_id,
// demanda agregada por producto concreto y sin contratos para las hijas.
func TestSubmitOrder_KitPadreDocumentalHijasConcretas(t *testing.T) {
	f := newFixture()
	seedMovement(f.movements, "purif", "10")
	seedMovement(f.movements, "rep", "10")

	got, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Lines: []dto.SubmitOrderLine{
			{
				ProductID: "kit", Qty: dec("1"), IsKit: true,
				Components: []dto.ResolvedComponent{
					{ProductID: "purif", Quantity: dec("1"), UnitPrice: dec("480")},
					{ProductID: "rep", Quantity: dec("2"), UnitPrice: dec("20")},
				},
			},
			flatLine("rep", "1", "20"),
		},
	})
	require.NoError(t, err)

	assert.True(t, got.Total.Equal(dec("540")), "480 + 2*20 + 20; el padre no aporta")

	var parent *dto.SaleItemResponse
	children := 0
	for i := range got.Items {
		it := &got.Items[i]
		if it.IsKitParent {
			parent = it
		} else if it.ParentLineID != "" {
			children++
		}
	}
	require.NotNil(t, parent, "debe haber una línea padre del kit")
	assert.True(t, parent.UnitPrice.IsZero(), "la línea padre es documental")
	assert.Equal(t, 2, children)

	// Demanda agregada: rep aparece en el kit (2) y como línea plana (1)
	repBalance, _ := f.movements.BalanceOf("rep")
	assert.True(t, repBalance.Equal(dec("7")), "10 - (2+1) = 7")

	outsRep := 0
	for _, m := range f.movements.movements {
		if m.Type == entity.MovementTypeOUT && m.ProductID == "rep" {
			outsRep++
			assert.True(t, m.Quantity.Equal(dec("3")), "un solo OUT con la demanda sumada")
		}
	}
	assert.Equal(t, 1, outsRep)

	// El purificador entró como hija de kit: no genera contrato
	assert.Empty(t, f.contracts.contracts, "las hijas de kit no generan contratos")
}

func TestSubmitOrder_ClienteInexistenteFalla(t *testing.T) {
	f := newFixture()
	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "no-existe",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Lines:        []dto.SubmitOrderLine{flatLine("rep", "1", "20")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitOrder_CantidadNoPositivaFalla(t *testing.T) {
	f := newFixture()
	_, err := f.uc.SubmitOrder(context.Background(), "user-1", dto.SubmitOrderRequest{
		ClientID:     "c-normal",
		DocType:      entity.DocTypeBoleta,
		PaymentTerms: entity.PaymentTermsCash,
		Lines:        []dto.SubmitOrderLine{flatLine("rep", "0", "20")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
