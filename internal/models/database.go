package models

// GORM models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// StringArray for PostgreSQL text[] support
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	return fmt.Sprintf("{%s}", strings.Join(s, ",")), nil
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}

	switch v := value.(type) {
	case string:
		v = strings.Trim(v, "{}")
		if v == "" {
			*s = StringArray{}
			return nil
		}
		*s = StringArray(strings.Split(v, ","))
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	return nil
}

// JSONMap for PostgreSQL jsonb support (case custom_fields)
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), m)
	case []byte:
		return json.Unmarshal(v, m)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
}

// Base model with common fields
type BaseModel struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project represents a legal case/matter
type Project struct {
	BaseModel
	CaseNumber     string     `json:"case_number" gorm:"unique;not null"`
	Title          string     `json:"title" gorm:"not null"`
	CaseType       string     `json:"case_type"` // Personal Injury, Corporate, Family Law, Employment, Real Estate
	Status         string     `json:"status" gorm:"default:'Open';check:status IN ('Open','Closed','Pending','On Hold')"`
	Phase          string     `json:"phase"` // Discovery, Trial, Settlement, Pre-Trial, Appeal
	Priority       string     `json:"priority"`
	Jurisdiction   string     `json:"jurisdiction"`
	CourtName      string     `json:"court_name"`
	FilingDate     *time.Time `json:"filing_date" gorm:"type:date"`
	EstimatedValue float64    `json:"estimated_value" gorm:"type:decimal(14,2)"`
	Description    string     `json:"description" gorm:"type:text"`
	CustomFields   JSONMap    `json:"custom_fields" gorm:"type:jsonb"`

	// Associations
	Documents []Document `json:"documents,omitempty" gorm:"foreignKey:ProjectID"`
	Contacts  []Contact  `json:"contacts,omitempty" gorm:"many2many:project_contacts"`
}

// Contact represents a person connected to one or more cases
type Contact struct {
	BaseModel
	FirstName    string `json:"first_name" gorm:"not null"`
	LastName     string `json:"last_name" gorm:"not null"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ContactType  string `json:"contact_type"` // Attorney, Client, Opposing Counsel, Witness, Expert
	Organization string `json:"organization"`
	Title        string `json:"title"`
	BarNumber    string `json:"bar_number"`
	Specialty    string `json:"specialty"`
}

// ProjectContact is the projects<->contacts junction with a role
type ProjectContact struct {
	ProjectID string    `json:"project_id" gorm:"type:uuid;primaryKey"`
	ContactID string    `json:"contact_id" gorm:"type:uuid;primaryKey"`
	Role      string    `json:"role"` // Lead Attorney, Plaintiff, Defendant, Expert Witness
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// Document represents a filed or received case document with searchable content
type Document struct {
	BaseModel
	ProjectID    string      `json:"project_id" gorm:"type:uuid;not null;index"`
	Title        string      `json:"title" gorm:"not null"`
	DocumentType string      `json:"document_type"` // Pleading, Discovery, Correspondence, Evidence, Contract, Motion
	Content      string      `json:"content" gorm:"type:text"`
	Status       string      `json:"status" gorm:"default:'Draft'"`
	FileSizeKB   int         `json:"file_size_kb"`
	DateFiled    *time.Time  `json:"date_filed" gorm:"type:date"`
	DateReceived *time.Time  `json:"date_received" gorm:"type:date"`
	Tags         StringArray `json:"tags" gorm:"type:text[]"`

	// Associations
	Project Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

// TimeEntry represents billable attorney time on a case
type TimeEntry struct {
	BaseModel
	ProjectID    string    `json:"project_id" gorm:"type:uuid;not null;index"`
	Attorney     string    `json:"attorney" gorm:"type:uuid"`
	Date         time.Time `json:"date" gorm:"type:date"`
	Hours        float64   `json:"hours" gorm:"type:decimal(6,2)"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description" gorm:"type:text"`
	HourlyRate   float64   `json:"hourly_rate" gorm:"type:decimal(10,2)"`
	TotalAmount  float64   `json:"total_amount" gorm:"type:decimal(12,2)"`
	IsBillable   bool      `json:"is_billable" gorm:"default:true"`
}

// Expense represents a case expense
type Expense struct {
	BaseModel
	ProjectID   string    `json:"project_id" gorm:"type:uuid;not null;index"`
	Date        time.Time `json:"date" gorm:"type:date"`
	ExpenseType string    `json:"expense_type"`
	Description string    `json:"description" gorm:"type:text"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2)"`
	Vendor      string    `json:"vendor"`
	IsBillable  bool      `json:"is_billable" gorm:"default:true"`
}

// Invoice represents a client invoice for a case
type Invoice struct {
	BaseModel
	ProjectID     string     `json:"project_id" gorm:"type:uuid;not null;index"`
	InvoiceNumber string     `json:"invoice_number" gorm:"unique;not null"`
	Status        string     `json:"status" gorm:"default:'Draft';check:status IN ('Draft','Sent','Paid','Overdue','Cancelled')"`
	IssueDate     *time.Time `json:"issue_date" gorm:"type:date"`
	DueDate       *time.Time `json:"due_date" gorm:"type:date"`
	PaidDate      *time.Time `json:"paid_date" gorm:"type:date"`
	Amount        float64    `json:"amount" gorm:"type:decimal(14,2)"`
}

// QueryLog captures one routed query for analytics/audit
type QueryLog struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	QueryText      string    `json:"query_text" gorm:"not null"`
	UserSession    string    `json:"user_session"`
	Intent         string    `json:"intent"`
	Confidence     float64   `json:"confidence"`
	RowsReturned   int       `json:"rows_returned" gorm:"default:0"`
	SQLText        string    `json:"sql_text" gorm:"type:text"`
	ErrorText      string    `json:"error_text"`
	ResponseTimeMs int       `json:"response_time_ms"`
	UserAgent      string    `json:"user_agent"`
	IPAddress      string    `json:"ip_address" gorm:"type:inet"`
	AskedAt        time.Time `json:"asked_at" gorm:"default:NOW()"`
	CreatedAt      time.Time `json:"created_at"`
}

// SystemHealth represents service health monitoring
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at" gorm:"default:NOW()"`
}

// CaseStatistics is an aggregate snapshot used by the conversational handler
type CaseStatistics struct {
	Total    int            `json:"total"`
	ByType   map[string]int `json:"by_type"`
	ByStatus map[string]int `json:"by_status"`
}

// Repository interfaces

type ProjectRepository interface {
	GetByCaseNumber(caseNumber string) (*Project, error)
	GetByCaseNumbers(caseNumbers []string) ([]Project, error)
	SearchByTitleOrNumber(term string, limit int) ([]Project, error)
	GetStatistics() (*CaseStatistics, error)
}

type ContactRepository interface {
	SearchByName(term string, limit int) ([]Contact, error)
}

type DocumentRepository interface {
	SearchByCaseNumbers(caseNumbers []string, limit int) ([]Document, error)
	FullTextSearch(terms string, limit int) ([]Document, error)
	GetForCases(caseNumbers []string, limit int) ([]Document, error)
}

type QueryExecutor interface {
	RunReadOnly(sql string) ([]map[string]interface{}, error)
}

type QueryLogRepository interface {
	Create(log *QueryLog) error
	GetRecent(limit int) ([]QueryLog, error)
}

type SystemHealthRepository interface {
	UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error
	GetAllServicesHealth() ([]SystemHealth, error)
}

// TableName methods for custom table names
func (Project) TableName() string        { return "projects" }
func (Contact) TableName() string        { return "contacts" }
func (ProjectContact) TableName() string { return "project_contacts" }
func (Document) TableName() string       { return "documents" }
func (TimeEntry) TableName() string      { return "time_entries" }
func (Expense) TableName() string        { return "expenses" }
func (Invoice) TableName() string        { return "invoices" }
func (QueryLog) TableName() string       { return "query_logs" }
func (SystemHealth) TableName() string   { return "system_health" }

// Model validation methods
func (p *Project) Validate() error {
	if p.CaseNumber == "" {
		return fmt.Errorf("case number is required")
	}
	if p.Title == "" {
		return fmt.Errorf("case title is required")
	}
	return nil
}

func (d *Document) Validate() error {
	if d.ProjectID == "" {
		return fmt.Errorf("project ID is required")
	}
	if d.Title == "" {
		return fmt.Errorf("document title is required")
	}
	return nil
}

func (q *QueryLog) Validate() error {
	if q.QueryText == "" {
		return fmt.Errorf("query text is required")
	}
	if q.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	return nil
}

// GORM hooks
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	return p.Validate()
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	return d.Validate()
}

func (q *QueryLog) BeforeCreate(tx *gorm.DB) error {
	return q.Validate()
}
