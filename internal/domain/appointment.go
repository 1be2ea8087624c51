// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"strconv"
	"strings"
	"time"
)

// Status de agendamento relevantes para as métricas
const (
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCanceled  = "canceled"
)

// Campos de agendamento aceitos em projeções
const (
	AppointmentFieldDate          = "date"
	AppointmentFieldStatus        = "status"
	AppointmentFieldService       = "service"
	AppointmentFieldTotalAmount   = "total_amount"
	AppointmentFieldCustomerEmail = "customer_email"
	AppointmentFieldStartTime     = "start_time"
)

// AppointmentFields lista todos os campos conhecidos, na ordem usada quando nenhuma projeção é informada
var AppointmentFields = []string{
	AppointmentFieldDate,
	AppointmentFieldStatus,
	AppointmentFieldService,
	AppointmentFieldTotalAmount,
	AppointmentFieldCustomerEmail,
	AppointmentFieldStartTime,
}

// Appointment é um agendamento lido da fonte de dados. Nunca é alterado pelo motor de métricas.
type Appointment struct {
	Date          string   `json:"date"`
	Status        string   `json:"status"`
	Service       *string  `json:"service"`
	TotalAmount   *float64 `json:"total_amount"`
	CustomerEmail *string  `json:"customer_email"`
	StartTime     *string  `json:"start_time"` // HH:MM
}

// AppointmentQuery descreve o filtro aplicado na busca de agendamentos
type AppointmentQuery struct {
	Date            string // igualdade (YYYY-MM-DD)
	DateFrom        string // maior ou igual (YYYY-MM-DD)
	Status          string
	Fields          []string
	OrderByDateDesc bool
	Limit           uint64
}

// Amount retorna o valor do agendamento, tratando ausência como zero
func (a Appointment) Amount() float64 {
	if a.TotalAmount == nil {
		return 0
	}
	return *a.TotalAmount
}

// Day converte a data do agendamento; registros com data inválida retornam false
func (a Appointment) Day() (time.Time, bool) {
	raw := strings.TrimSpace(a.Date)
	if len(raw) > len(time.DateOnly) {
		raw = raw[:len(time.DateOnly)]
	}

	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// Hour extrai a hora (HH) do horário de início
func (a Appointment) Hour() (int, bool) {
	if a.StartTime == nil || *a.StartTime == "" {
		return 0, false
	}

	head, _, _ := strings.Cut(*a.StartTime, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return hour, true
}

// Email retorna o e-mail do cliente quando informado
func (a Appointment) Email() (string, bool) {
	if a.CustomerEmail == nil || *a.CustomerEmail == "" {
		return "", false
	}
	return *a.CustomerEmail, true
}

// ServiceName retorna o nome do serviço quando informado
func (a Appointment) ServiceName() (string, bool) {
	if a.Service == nil || strings.TrimSpace(*a.Service) == "" {
		return "", false
	}
	return *a.Service, true
}

func (a Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

func (a Appointment) IsCanceled() bool {
	return a.Status == AppointmentStatusCanceled
}

// ValidateAppointmentFields rejeita projeções com campos desconhecidos
func ValidateAppointmentFields(fields []string) error {
	return validateFields(fields, AppointmentFields)
}
