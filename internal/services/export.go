package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

// ExportDescriptor describes a simulated export artifact. No file is
// actually rendered; the payload carries plausible metadata only.
type ExportDescriptor struct {
	Filename       string         `json:"filename"`
	Size           string         `json:"size"`
	ContentSummary string         `json:"content_summary"`
	Detail         map[string]any `json:"detail,omitempty"`
}

// LogsExport is a rendered log export in one of the supported text formats.
type LogsExport struct {
	Filename string
	Format   string
	Data     any
	Size     string
	Rows     int
}

type ExportService interface {
	ResultsExport(ctx context.Context, sessionID, format string) (*ExportDescriptor, error)
	PDFExport(ctx context.Context, sessionID string) (*ExportDescriptor, error)
	LogsExport(ctx context.Context, sessionID, format string) (*LogsExport, error)
}

type exportService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	logRepo     repos.ProcessingLogRepo
}

func NewExportService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo, logRepo repos.ProcessingLogRepo) ExportService {
	return &exportService{
		db:          db,
		log:         log.With("service", "ExportService"),
		sessionRepo: sessionRepo,
		logRepo:     logRepo,
	}
}

func (es *exportService) ResultsExport(ctx context.Context, sessionID, format string) (*ExportDescriptor, error) {
	session, err := ownedSession(ctx, es.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	format = strings.ToLower(format)
	switch format {
	case "pdf":
		return &ExportDescriptor{
			Filename:       fmt.Sprintf("%s_analytics_report.pdf", session.Title),
			Size:           "2.4 MB",
			ContentSummary: "Complete analytics report with charts and visualizations",
			Detail:         map[string]any{"pages": 15},
		}, nil
	case "csv":
		return &ExportDescriptor{
			Filename:       fmt.Sprintf("%s_data_export.csv", session.Title),
			Size:           "156 KB",
			ContentSummary: "Raw data export with all calculated metrics",
			Detail:         map[string]any{"rows": 1247, "columns": 12},
		}, nil
	case "json":
		return &ExportDescriptor{
			Filename:       fmt.Sprintf("%s_results.json", session.Title),
			Size:           "89 KB",
			ContentSummary: "Complete analysis results in JSON format",
			Detail:         map[string]any{"structure": "Hierarchical JSON with full analysis results"},
		}, nil
	case "xlsx":
		return &ExportDescriptor{
			Filename:       fmt.Sprintf("%s_workbook.xlsx", session.Title),
			Size:           "3.1 MB",
			ContentSummary: "Excel workbook with data, analysis, and visualizations",
			Detail:         map[string]any{"sheets": 8, "charts": 15},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format", ErrValidation)
	}
}

func (es *exportService) PDFExport(ctx context.Context, sessionID string) (*ExportDescriptor, error) {
	session, err := ownedSession(ctx, es.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != types.StepCompleted {
		return nil, fmt.Errorf("%w: analysis not completed yet", ErrValidation)
	}
	return &ExportDescriptor{
		Filename:       fmt.Sprintf("%s_analytics_report.pdf", strings.ReplaceAll(session.Title, " ", "_")),
		Size:           "2.4 MB",
		ContentSummary: "Complete analytics report with charts and visualizations",
		Detail: map[string]any{
			"pages": 15,
			"sections": []string{
				"Executive Summary", "Analysis Overview", "Key Findings",
				"Detailed Results", "Recommendations", "Appendix",
			},
			"charts": 8,
			"tables": 12,
		},
	}, nil
}

// LogsExport renders the session's processing logs as JSON, CSV or plain
// text. The session header lines in the text form match the UI's download.
func (es *exportService) LogsExport(ctx context.Context, sessionID, format string) (*LogsExport, error) {
	session, err := ownedSession(ctx, es.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	logs, err := es.logRepo.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load processing logs: %w", err)
	}

	switch strings.ToLower(format) {
	case "", "json":
		return es.exportJSON(session, logs)
	case "csv":
		return es.exportCSV(session, logs)
	case "txt":
		return es.exportTXT(session, logs)
	default:
		return nil, fmt.Errorf("%w: unsupported export format", ErrValidation)
	}
}

func (es *exportService) exportJSON(session *types.Session, logs []types.ProcessingLog) (*LogsExport, error) {
	entries := make([]map[string]any, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, map[string]any{
			"id":        l.ID,
			"timestamp": l.Timestamp.Format(time.RFC3339),
			"message":   l.Message,
			"type":      l.Type,
		})
	}
	payload := map[string]any{
		"session": map[string]any{
			"id":         session.ID,
			"title":      session.Title,
			"domain":     session.Domain,
			"created_at": session.CreatedAt.Format(time.RFC3339),
		},
		"logs": entries,
		"export_info": map[string]any{
			"format":      "json",
			"total_logs":  len(entries),
			"exported_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode logs export: %w", err)
	}
	return &LogsExport{
		Filename: fmt.Sprintf("%s_processing_logs.json", session.Title),
		Format:   "json",
		Data:     payload,
		Size:     fmt.Sprintf("%d bytes", len(encoded)),
		Rows:     len(entries),
	}, nil
}

func (es *exportService) exportCSV(session *types.Session, logs []types.ProcessingLog) (*LogsExport, error) {
	var b strings.Builder
	b.WriteString("Timestamp,Type,Message\n")
	for _, l := range logs {
		message := strings.ReplaceAll(l.Message, `"`, `""`)
		fmt.Fprintf(&b, "%q,%q,%q\n", l.Timestamp.Format("2006-01-02 15:04:05"), l.Type, message)
	}
	data := b.String()
	return &LogsExport{
		Filename: fmt.Sprintf("%s_processing_logs.csv", session.Title),
		Format:   "csv",
		Data:     data,
		Size:     fmt.Sprintf("%d bytes", len(data)),
		Rows:     len(logs) + 1,
	}, nil
}

func (es *exportService) exportTXT(session *types.Session, logs []types.ProcessingLog) (*LogsExport, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Processing Logs for: %s\n", session.Title)
	fmt.Fprintf(&b, "Domain: %s\n", session.Domain)
	fmt.Fprintf(&b, "Session ID: %s\n", session.ID)
	fmt.Fprintf(&b, "Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	for _, l := range logs {
		fmt.Fprintf(&b, "[%s] [%s] %s\n",
			l.Timestamp.Format("2006-01-02 15:04:05"), strings.ToUpper(l.Type), l.Message)
	}
	data := b.String()
	return &LogsExport{
		Filename: fmt.Sprintf("%s_processing_logs.txt", session.Title),
		Format:   "txt",
		Data:     data,
		Size:     fmt.Sprintf("%d bytes", len(data)),
		Rows:     len(logs) + 5,
	}, nil
}
