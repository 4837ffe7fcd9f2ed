package repository

import (
	"errors"
	"fmt"

	"github.com/loisapp/lois/internal/models"
	"github.com/loisapp/lois/internal/sqlsafe"
	"gorm.io/gorm"
)

// ProjectRepositoryImpl implements ProjectRepository
type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) models.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) GetByCaseNumber(caseNumber string) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("case_number = ?", caseNumber).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) GetByCaseNumbers(caseNumbers []string) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("case_number IN ?", caseNumbers).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) SearchByTitleOrNumber(term string, limit int) ([]models.Project, error) {
	var projects []models.Project
	pattern := "%" + term + "%"
	err := r.db.Where("title ILIKE ? OR case_number ILIKE ?", pattern, pattern).
		Order("case_number").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) GetStatistics() (*models.CaseStatistics, error) {
	type row struct {
		CaseType string
		Status   string
		Count    int
	}

	var rows []row
	err := r.db.Model(&models.Project{}).
		Select("case_type, status, COUNT(*) as count").
		Group("case_type, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.CaseStatistics{
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}
	for _, r := range rows {
		stats.Total += r.Count
		stats.ByType[r.CaseType] += r.Count
		stats.ByStatus[r.Status] += r.Count
	}
	return stats, nil
}

// ContactRepositoryImpl implements ContactRepository
type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) models.ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

func (r *ContactRepositoryImpl) SearchByName(term string, limit int) ([]models.Contact, error) {
	var contacts []models.Contact
	pattern := "%" + term + "%"
	err := r.db.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&contacts).Error
	return contacts, err
}

// DocumentRepositoryImpl implements DocumentRepository
type DocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) models.DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

// SearchByCaseNumbers returns document metadata for the given cases, newest
// filings first.
func (r *DocumentRepositoryImpl) SearchByCaseNumbers(caseNumbers []string, limit int) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.Joins("JOIN projects ON projects.id = documents.project_id").
		Where("projects.case_number IN ?", caseNumbers).
		Preload("Project").
		Order("documents.date_filed DESC NULLS LAST").
		Limit(limit).
		Find(&documents).Error
	return documents, err
}

// FullTextSearch runs a websearch-syntax full-text query over document content.
func (r *DocumentRepositoryImpl) FullTextSearch(terms string, limit int) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.Where(
		"to_tsvector('english', content) @@ websearch_to_tsquery('english', ?)", terms).
		Preload("Project").
		Limit(limit).
		Find(&documents).Error
	return documents, err
}

// GetForCases returns documents including content, for analysis prompts.
func (r *DocumentRepositoryImpl) GetForCases(caseNumbers []string, limit int) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.Joins("JOIN projects ON projects.id = documents.project_id").
		Where("projects.case_number IN ?", caseNumbers).
		Preload("Project").
		Order("documents.date_filed DESC NULLS LAST").
		Limit(limit).
		Find(&documents).Error
	return documents, err
}

// ExecutorImpl implements QueryExecutor. It is the execution boundary: it
// re-applies the SELECT-only and denylist checks itself and does not trust
// the generation side to have done so.
type ExecutorImpl struct {
	db *gorm.DB
}

func NewExecutor(db *gorm.DB) models.QueryExecutor {
	return &ExecutorImpl{db: db}
}

func (r *ExecutorImpl) RunReadOnly(sql string) ([]map[string]interface{}, error) {
	if err := sqlsafe.Validate(sql); err != nil {
		return nil, fmt.Errorf("query rejected: %w", err)
	}

	var rows []map[string]interface{}
	if err := r.db.Raw(sql).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return rows, nil
}

// QueryLogRepositoryImpl implements QueryLogRepository
type QueryLogRepositoryImpl struct {
	db *gorm.DB
}

func NewQueryLogRepository(db *gorm.DB) models.QueryLogRepository {
	return &QueryLogRepositoryImpl{db: db}
}

func (r *QueryLogRepositoryImpl) Create(log *models.QueryLog) error {
	return r.db.Create(log).Error
}

func (r *QueryLogRepositoryImpl) GetRecent(limit int) ([]models.QueryLog, error) {
	var logs []models.QueryLog
	err := r.db.Order("asked_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// SystemHealthRepositoryImpl implements SystemHealthRepository
type SystemHealthRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemHealthRepository(db *gorm.DB) models.SystemHealthRepository {
	return &SystemHealthRepositoryImpl{db: db}
}

func (r *SystemHealthRepositoryImpl) UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error {
	return r.db.Exec(`
		INSERT INTO system_health (service_name, status, response_time_ms, error_message, checked_at)
		VALUES (?, ?, ?, ?, NOW())
	`, serviceName, status, responseTime, errorMsg).Error
}

func (r *SystemHealthRepositoryImpl) GetAllServicesHealth() ([]models.SystemHealth, error) {
	var health []models.SystemHealth
	err := r.db.Raw(`
		SELECT DISTINCT ON (service_name) *
		FROM system_health
		ORDER BY service_name, checked_at DESC
	`).Scan(&health).Error
	return health, err
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	Project      models.ProjectRepository
	Contact      models.ContactRepository
	Document     models.DocumentRepository
	Executor     models.QueryExecutor
	QueryLog     models.QueryLogRepository
	SystemHealth models.SystemHealthRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		Project:      NewProjectRepository(db),
		Contact:      NewContactRepository(db),
		Document:     NewDocumentRepository(db),
		Executor:     NewExecutor(db),
		QueryLog:     NewQueryLogRepository(db),
		SystemHealth: NewSystemHealthRepository(db),
	}
}
