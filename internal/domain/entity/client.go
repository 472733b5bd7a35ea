package entity

import (
	"regexp"
	"time"
)

// Tipos de cliente. Solo los distribuidores pueden comprar a crédito.
const (
	ClientTypeNormal      = "normal"
	ClientTypeDistributor = "distribuidor"
)

var rucPattern = regexp.MustCompile(`^\d{11}$`)

// Client es la referencia mínima al directorio de clientes que el motor
// necesita: tipo (elegibilidad de crédito) e identificadores tributarios.
type Client struct {
	ID        string
	Name      string
	Type      string
	DNI       string
	RUC       string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// CanBuyOnCredit indica si el cliente puede comprar a crédito.
func (c *Client) CanBuyOnCredit() bool {
	return c.Type == ClientTypeDistributor
}

// HasValidRUC indica si el cliente tiene RUC válido (11 dígitos),
// requisito para emitir factura.
func (c *Client) HasValidRUC() bool {
	return rucPattern.MatchString(c.RUC)
}
