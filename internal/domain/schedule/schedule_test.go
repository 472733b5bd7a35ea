package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Un contrato anual que arranca el 2024-01-10 vence el 2025-01-10.
func TestNextServiceDate_DoceMeses(t *testing.T) {
	got := schedule.NextServiceDate(date(2024, time.January, 10), 12)
	assert.Equal(t, date(2025, time.January, 10), got)
}

func TestNextServiceDate_SeisMeses(t *testing.T) {
	got := schedule.NextServiceDate(date(2024, time.August, 31), 6)
	// AddDate normaliza fin de mes: 31 de febrero no existe
	assert.Equal(t, date(2025, time.March, 3), got)
}

// Al 2025-01-05 faltan 5 días para el 2025-01-10: por vencer.
func TestDaysLeft_CincoDias(t *testing.T) {
	got := schedule.DaysLeft(date(2025, time.January, 10), date(2025, time.January, 5))
	assert.Equal(t, 5, got)
	assert.Equal(t, entity.ContractStatusDueSoon, schedule.StatusFor(got))
}

func TestDaysLeft_MismoDiaEsCero(t *testing.T) {
	got := schedule.DaysLeft(date(2025, time.January, 10), date(2025, time.January, 10))
	assert.Equal(t, 0, got)
	assert.Equal(t, entity.ContractStatusDueSoon, schedule.StatusFor(got))
}

func TestDaysLeft_VencidoEsNegativo(t *testing.T) {
	got := schedule.DaysLeft(date(2025, time.January, 10), date(2025, time.January, 15))
	assert.Equal(t, -5, got)
	assert.Equal(t, entity.ContractStatusOverdue, schedule.StatusFor(got))
}

// La comparación es por día calendario UTC, no por instante: una hora de
// la tarde no descuenta un día.
func TestDaysLeft_IgnoraLaHora(t *testing.T) {
	next := time.Date(2025, time.January, 10, 1, 0, 0, 0, time.UTC)
	today := time.Date(2025, time.January, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 5, schedule.DaysLeft(next, today))
}

func TestStatusFor_Umbrales(t *testing.T) {
	assert.Equal(t, entity.ContractStatusOverdue, schedule.StatusFor(-1))
	assert.Equal(t, entity.ContractStatusDueSoon, schedule.StatusFor(0))
	assert.Equal(t, entity.ContractStatusDueSoon, schedule.StatusFor(30))
	assert.Equal(t, entity.ContractStatusPending, schedule.StatusFor(31))
}

// Atender el 2025-01-20 un contrato anual lo reprograma al 2026-01-20:
// el intervalo corre desde la atención real, no desde la fecha que tocaba.
func TestAddMonths_DesdeLaAtencionReal(t *testing.T) {
	got := schedule.AddMonths(date(2025, time.January, 20), 12)
	assert.Equal(t, date(2026, time.January, 20), got)
}
