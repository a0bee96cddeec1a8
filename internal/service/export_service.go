package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/gpa"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
	"github.com/noah-isme/gpa-tracker-api/pkg/export"
)

type transcriptSource interface {
	List(ctx context.Context, userID string) ([]models.Semester, error)
}

type attendanceSource interface {
	Get(ctx context.Context, userID string) (*dto.AttendanceResponse, error)
}

var (
	transcriptFormats = []export.Format{export.FormatCSV, export.FormatPDF, export.FormatXLSX}
	attendanceFormats = []export.Format{export.FormatCSV, export.FormatXLSX}
)

// ExportService renders the official record and the attendance report as downloadable files.
type ExportService struct {
	transcripts transcriptSource
	attendance  attendanceSource
	renderers   map[export.Format]export.Renderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(transcripts transcriptSource, attendance attendanceSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		transcripts: transcripts,
		attendance:  attendance,
		renderers:   export.Renderers(),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Transcript exports every semester with its courses, SGPA rows and a closing CGPA row.
func (s *ExportService) Transcript(ctx context.Context, userID, format string) (*dto.ExportFile, error) {
	f, err := parseFormat(format, transcriptFormats)
	if err != nil {
		return nil, err
	}
	semesters, err := s.transcripts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.render(f, "transcript", TranscriptDataset(semesters))
}

// Attendance exports per-course attendance with overall and condonation rows.
func (s *ExportService) Attendance(ctx context.Context, userID, format string) (*dto.ExportFile, error) {
	f, err := parseFormat(format, attendanceFormats)
	if err != nil {
		return nil, err
	}
	resp, err := s.attendance.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.render(f, "attendance", AttendanceDataset(resp))
}

func (s *ExportService) render(format export.Format, name string, data export.Dataset) (*dto.ExportFile, error) {
	body, err := s.renderers[format].Render(data)
	if err != nil {
		s.logger.Error("render export", zap.String("export", name), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", name, s.now().Format("20060102"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// TranscriptDataset lays out the record as one row per course followed by its semester's SGPA row.
func TranscriptDataset(semesters []models.Semester) export.Dataset {
	data := export.Dataset{
		Title:   "Academic Transcript",
		Headers: []string{"Semester", "Course", "Code", "Credits", "Grade", "GPA"},
		Rows:    [][]string{},
	}
	var all []models.Course
	for _, sem := range semesters {
		for _, c := range sem.Courses {
			code := ""
			if c.Code != nil {
				code = *c.Code
			}
			data.Rows = append(data.Rows, []string{sem.Label, c.Name, code, formatCredits(c.Credits), string(c.Grade), ""})
		}
		data.Rows = append(data.Rows, []string{sem.Label, "SGPA", "", formatCredits(gpa.TotalCredits(sem.Courses)), "", gpa.Format(gpa.SGPA(sem.Courses))})
		all = append(all, sem.Courses...)
	}
	data.Footer = [][]string{{"Overall", "CGPA", "", formatCredits(gpa.TotalCredits(all)), "", gpa.Format(gpa.CGPA(semesters))}}
	return data
}

// AttendanceDataset lays out the attendance profile and its report.
func AttendanceDataset(resp *dto.AttendanceResponse) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("Attendance Report (target %s%%)", strconv.FormatFloat(resp.Report.Target, 'f', -1, 64)),
		Headers: []string{"Course", "Attended", "Duty Leave", "Total", "Remaining", "Percentage", "Safe Bunks"},
		Rows:    [][]string{},
	}
	for i, c := range resp.Profile.Courses {
		bunks := ""
		if i < len(resp.Report.Courses) {
			bunks = strconv.Itoa(resp.Report.Courses[i].MaxBunks)
		}
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = fmt.Sprintf("Course %d", i+1)
		}
		data.Rows = append(data.Rows, []string{
			name,
			strconv.Itoa(c.Attended),
			strconv.Itoa(c.DutyLeave),
			strconv.Itoa(c.TotalClasses),
			strconv.Itoa(c.Remaining),
			strconv.Itoa(percentageOf(resp, i)),
			bunks,
		})
	}
	stats := resp.Report.Stats
	data.Footer = [][]string{
		{"Overall", strconv.Itoa(stats.TotalAttended), "", strconv.Itoa(stats.TotalClasses), strconv.Itoa(stats.TotalRemaining), strconv.Itoa(stats.OverallDisplay), strconv.Itoa(resp.Report.Global.MaxBunks)},
		{"Max possible", "", "", "", "", strconv.Itoa(resp.Report.MaxPossible.Display), ""},
		{"Condonation", resp.Report.Condonation.Reason},
	}
	return data
}

func percentageOf(resp *dto.AttendanceResponse, i int) int {
	if i < len(resp.Report.Courses) {
		return resp.Report.Courses[i].Percentage
	}
	return 0
}

func parseFormat(raw string, allowed []export.Format) (export.Format, error) {
	f := export.Format(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		f = allowed[0]
	}
	for _, candidate := range allowed {
		if f == candidate {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, candidate := range allowed {
		names[i] = string(candidate)
	}
	return "", appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("format must be one of %s", strings.Join(names, ", ")))
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
