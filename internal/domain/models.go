// package domain/models.go
package domain

import (
	"time"
)

// Source indica de onde veio um registro de cliente.
type Source string

// Origens possíveis de um ClientRecord.
const (
	SourceManual   Source = "manual"
	SourceImported Source = "imported"
)

// Field identifica uma coluna canônica do cadastro de clientes.
type Field string

// Campos canônicos que toda ingestão preenche ou deixa ausentes.
const (
	FieldNationalID      Field = "nationalId"
	FieldName            Field = "name"
	FieldAmount          Field = "amount"
	FieldDueDate         Field = "dueDate"
	FieldPhone           Field = "phone"
	FieldNegotiationType Field = "negotiationType"
	FieldStatus          Field = "status"
	FieldNotes           Field = "notes"
)

// CanonicalFields lista os campos canônicos na ordem de resolução.
var CanonicalFields = []Field{
	FieldNationalID,
	FieldName,
	FieldAmount,
	FieldDueDate,
	FieldPhone,
	FieldNegotiationType,
	FieldStatus,
	FieldNotes,
}

// ClientRecord é a unidade canônica do sistema.
// PromiseDate é apenas uma sobreposição derivada da base de promessas.
type ClientRecord struct {
	ID              string     `json:"id"`
	NationalID      string     `json:"nationalId"`
	Name            string     `json:"name"`
	Amount          Amount     `json:"amount"`
	DueDate         *time.Time `json:"dueDateUtc,omitempty"`
	Phone           string     `json:"phone"`
	NegotiationType string     `json:"negotiationType"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes"`
	PromiseDate     *time.Time `json:"promiseDateUtc,omitempty"`
	Source          Source     `json:"source"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// PromiseSnapshot guarda os dados do cliente no momento em que a promessa foi salva.
type PromiseSnapshot struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
	Amount     Amount `json:"amount"`
}

// PromisePayload é a promessa de pagamento vinculada a uma IdentityKey.
type PromisePayload struct {
	PromiseDate *time.Time      `json:"promiseDateUtc,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Note        string          `json:"note"`
	Snapshot    PromiseSnapshot `json:"snapshot"`
}

// ImportBatch descreve a última importação de planilha.
type ImportBatch struct {
	FileName   string           `json:"fileName"`
	SheetName  string           `json:"sheetName"`
	HeaderRow  int              `json:"headerRow"`
	Mapping    map[Field]string `json:"mapping"`
	RowCount   int              `json:"rowCount"`
	ImportedAt time.Time        `json:"importedAt"`
}

// ClientView é um ClientRecord acompanhado da classificação temporal calculada.
type ClientView struct {
	ClientRecord
	IdentityKey string `json:"identityKey"`
	DueStatus   string `json:"dueStatus"`
	DaysLate    int    `json:"daysLate"`
}

// Summary agrega contagens e valores do conjunto de trabalho.
type Summary struct {
	Total        int    `json:"total"`
	Manual       int    `json:"manual"`
	Imported     int    `json:"imported"`
	Paid         int    `json:"paid"`
	DueToday     int    `json:"dueToday"`
	Overdue      int    `json:"overdue"`
	Late1To5     int    `json:"late1To5"`
	Breach       int    `json:"breach"`
	Upcoming     int    `json:"upcoming"`
	NoDueDate    int    `json:"noDueDate"`
	WithPromise  int    `json:"withPromise"`
	AmountTotal  Amount `json:"amountTotal"`
	AmountOpen   Amount `json:"amountOpen"`
	AmountLate   Amount `json:"amountLate"`
	ReferenceDay string `json:"referenceDay"`
}
