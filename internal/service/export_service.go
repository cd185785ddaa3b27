package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/pkg/export"
	appErrors "github.com/noah-isme/faculty-workload-api/pkg/errors"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type facultyDetailLoader interface {
	Details(ctx context.Context, facultyID string) (*models.FacultyDetail, error)
}

// ExportFile is a rendered document ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders faculty timetables into downloadable documents.
type ExportService struct {
	faculty   facultyDetailLoader
	renderers map[string]datasetRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the package defaults.
func NewExportService(faculty facultyDetailLoader, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		faculty:   faculty,
		renderers: map[string]datasetRenderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
	}
}

var timetableExportHeaders = []string{"Date", "Day", "Period", "Subject", "Class Year", "Room", "Type", "Hours", "Department"}

// FacultyTimetable renders the complete timetable of a faculty member.
func (s *ExportService) FacultyTimetable(ctx context.Context, facultyID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}

	detail, err := s.faculty.Details(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   fmt.Sprintf("Timetable - %s (%g/%gh)", detail.Profile.Name, detail.Profile.CurrentHours, detail.Profile.MaxHours),
		Headers: timetableExportHeaders,
		Rows:    make([]map[string]string, 0, len(detail.Timetable)),
	}
	for _, slot := range detail.Timetable {
		data.Rows = append(data.Rows, map[string]string{
			"Date":       slot.DateString(),
			"Day":        slot.Day,
			"Period":     strconv.Itoa(slot.Period),
			"Subject":    slot.Subject,
			"Class Year": slot.ClassYear,
			"Room":       slot.RoomNumber,
			"Type":       string(slot.Type),
			"Hours":      strconv.FormatFloat(slot.Hours, 'f', -1, 64),
			"Department": slot.DepartmentName,
		})
	}

	body, err := renderer.Render(data)
	if err != nil {
		s.logger.Error("failed to render timetable export", zap.String("faculty_id", facultyID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    buildExportFilename(detail.Profile.Name, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func buildExportFilename(name, extension string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("timetable_%s_%s.%s", sanitizeFilename(strings.ToLower(name)), timestamp, extension)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
