package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lms-insight-api/pkg/errors"
	"github.com/noah-isme/lms-insight-api/pkg/export"
	"github.com/noah-isme/lms-insight-api/pkg/storage"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult captures successful export metadata.
type ExportResult struct {
	RelativePath string    `json:"path"`
	Token        string    `json:"token"`
	Format       string    `json:"format"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ExportService renders built datasets into downloadable files behind
// signed URLs.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(store fileStorage, signer *storage.SignedURLSigner, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{storage: store, csv: csv, pdf: pdf, signer: signer, logger: logger}
}

// Generate renders the dataset in the requested format, stores the file and
// returns a signed download token.
func (s *ExportService) Generate(dataset *Dataset, format string) (*ExportResult, error) {
	if dataset == nil {
		return nil, fmt.Errorf("dataset nil")
	}

	tabular := toTabular(dataset)

	var payload []byte
	var err error
	var ext string
	switch format {
	case FormatPDF:
		title := fmt.Sprintf("%s dataset (%s)", dataset.Model, dataset.Mode)
		payload, err = s.pdf.Render(tabular, title)
		ext = "pdf"
	case FormatCSV, "":
		payload, err = s.csv.Render(tabular)
		ext = "csv"
		format = FormatCSV
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	relPath := fmt.Sprintf("%s/%s.%s", dataset.Model, dataset.BuildID, ext)
	if _, err := s.storage.Save(relPath, payload); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(dataset.BuildID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign export url: %w", err)
	}

	s.logger.Info("dataset exported",
		zap.String("build_id", dataset.BuildID),
		zap.String("format", format),
		zap.String("path", relPath))

	return &ExportResult{RelativePath: relPath, Token: token, Format: format, ExpiresAt: expiresAt}, nil
}

// Open validates a download token and opens the referenced export file. The
// second return value is the filename to suggest to the client.
func (s *ExportService) Open(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return file, filepath.Base(relPath), nil
}

func toTabular(dataset *Dataset) export.Dataset {
	headers := []string{"sample_id", "activity_id", "course_id", "user_id", "weight_class"}
	if dataset.Mode == ModeTraining {
		headers = append(headers, "late")
	}

	rows := make([]map[string]string, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		record := map[string]string{
			"sample_id":    strconv.FormatInt(row.SampleID, 10),
			"activity_id":  strconv.FormatInt(row.ActivityID, 10),
			"course_id":    strconv.FormatInt(row.CourseID, 10),
			"user_id":      strconv.FormatInt(row.UserID, 10),
			"weight_class": formatOptional(row.WeightClass),
		}
		if dataset.Mode == ModeTraining {
			record["late"] = formatOptional(row.Label)
		}
		rows = append(rows, record)
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func formatOptional(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
