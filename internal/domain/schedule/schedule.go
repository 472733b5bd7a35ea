// Package schedule contiene la aritmética de calendario de los contratos
// de servicio recurrente. Todo se compara como días calendario (fechas
// truncadas en UTC), nunca como instantes, para evitar corrimientos de
// zona horaria.
package schedule

import (
	"time"

	"github.com/hidrosur/comercial-api/internal/domain/entity"
)

// Umbral en días para considerar un contrato "por vencer".
const DueSoonDays = 30

// dateUTC trunca un instante a su fecha calendario en UTC.
func dateUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysLeft devuelve los días calendario que faltan para la próxima fecha
// de servicio. Negativo = vencido.
func DaysLeft(next, today time.Time) int {
	diff := dateUTC(next).Sub(dateUTC(today))
	return int(diff / (24 * time.Hour))
}

// StatusFor deriva el estado a partir de los días restantes. Se recalcula
// en cada lectura; nunca se persiste.
func StatusFor(daysLeft int) string {
	switch {
	case daysLeft < 0:
		return entity.ContractStatusOverdue
	case daysLeft <= DueSoonDays:
		return entity.ContractStatusDueSoon
	default:
		return entity.ContractStatusPending
	}
}

// AddMonths suma meses calendario a una fecha (truncada en UTC).
func AddMonths(date time.Time, months int) time.Time {
	return dateUTC(date).AddDate(0, months, 0)
}

// NextServiceDate calcula la primera fecha de servicio de un contrato
// recién creado: fecha de venta o instalación más el intervalo.
func NextServiceDate(startDate time.Time, intervalMonths int) time.Time {
	return AddMonths(startDate, intervalMonths)
}
