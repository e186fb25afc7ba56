package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "sirh/internal/platform/crypto"
)

var ErrNotFound = errors.New("document not found")
var ErrUnknownType = errors.New("unknown document type")

type Service struct {
	DB     *pgxpool.Pool
	Dir    string
	Cipher *cryptoutil.Cipher
}

func NewService(db *pgxpool.Pool, dir string, cipher *cryptoutil.Cipher) *Service {
	return &Service{DB: db, Dir: dir, Cipher: cipher}
}

// Store writes the rendered document to disk (sealed when a cipher is
// configured) and records it against the employee.
func (s *Service) Store(ctx context.Context, tenantID, employeeID, docType, fileName string, content []byte) (Document, error) {
	dir := filepath.Join(s.Dir, tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Document{}, err
	}

	stored := content
	if s.Cipher != nil && s.Cipher.Configured() {
		var err error
		stored, err = s.Cipher.Seal(content)
		if err != nil {
			return Document{}, err
		}
	}

	var doc Document
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (tenant_id, employee_id, doc_type, file_name, file_path)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, tenantID, employeeID, docType, fileName, "").Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return Document{}, err
	}

	path := filepath.Join(dir, doc.ID+".pdf")
	if err := os.WriteFile(path, stored, 0o600); err != nil {
		return Document{}, err
	}
	if _, err := s.DB.Exec(ctx, "UPDATE documents SET file_path = $1 WHERE id = $2", path, doc.ID); err != nil {
		return Document{}, err
	}

	doc.EmployeeID = employeeID
	doc.Type = docType
	doc.FileName = fileName
	doc.FilePath = path
	return doc, nil
}

func (s *Service) List(ctx context.Context, tenantID, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, doc_type, file_name, file_path, created_at
    FROM documents
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY created_at DESC
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.EmployeeID, &doc.Type, &doc.FileName, &doc.FilePath, &doc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// Content loads and, when needed, unseals a stored document.
func (s *Service) Content(ctx context.Context, tenantID, documentID string) (Document, []byte, error) {
	var doc Document
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, doc_type, file_name, file_path, created_at
    FROM documents
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, documentID).Scan(&doc.ID, &doc.EmployeeID, &doc.Type, &doc.FileName, &doc.FilePath, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, nil, ErrNotFound
	}
	if err != nil {
		return Document{}, nil, err
	}

	content, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return Document{}, nil, err
	}
	if s.Cipher != nil && s.Cipher.Configured() {
		content, err = s.Cipher.Open(content)
		if err != nil {
			return Document{}, nil, err
		}
	}
	return doc, content, nil
}

// GenerateForEmployee renders a certificate-style document from the
// employee's current record and stores it. The final payslip is not
// produced here, it belongs to the termination settlement.
func (s *Service) GenerateForEmployee(ctx context.Context, tenantID, employeeID, docType string) (Document, []byte, error) {
	data, err := s.certificateData(ctx, tenantID, employeeID)
	if err != nil {
		return Document{}, nil, err
	}

	var content []byte
	var prefix string
	switch docType {
	case TypeWorkCertificate:
		content, err = WorkCertificate(data)
		prefix = "certificat_travail"
	case TypeCNPSAttestation:
		content, err = CNPSAttestation(data)
		prefix = "attestation_cnps"
	default:
		return Document{}, nil, ErrUnknownType
	}
	if err != nil {
		return Document{}, nil, err
	}

	fileName := fmt.Sprintf("%s_%s_%s.pdf", prefix, data.LastName, data.FirstName)
	doc, err := s.Store(ctx, tenantID, employeeID, docType, fileName, content)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, content, nil
}

func (s *Service) certificateData(ctx context.Context, tenantID, employeeID string) (CertificateData, error) {
	var data CertificateData
	var endDate *time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT t.name, e.first_name, e.last_name, e.position, e.department,
           COALESCE(e.cnps_number, ''), e.hire_date, e.termination_date
    FROM employees e
    JOIN tenants t ON t.id = e.tenant_id
    WHERE e.tenant_id = $1 AND e.id = $2
  `, tenantID, employeeID).Scan(&data.CompanyName, &data.FirstName, &data.LastName,
		&data.Position, &data.Department, &data.CNPSNumber, &data.HireDate, &endDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return CertificateData{}, ErrNotFound
	}
	if err != nil {
		return CertificateData{}, err
	}
	if endDate != nil {
		data.EndDate = *endDate
	} else {
		data.EndDate = time.Now()
	}
	return data, nil
}
