package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/phuslu/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SheetsService appends log records to the first worksheet of a Google
// spreadsheet. It never creates the spreadsheet.
type SheetsService struct {
	sheets          *sheets.Service
	drive           *drive.Service
	spreadsheetID   string
	spreadsheetName string
	listFormat      model.ListFormat
	timeout         time.Duration
}

// NewSheetsService authenticates with the service-account file from cfg.
// Extra options are appended after the credentials (tests use them to point
// at a local endpoint).
func NewSheetsService(ctx context.Context, cfg config.SheetsConfig, opts ...option.ClientOption) (*SheetsService, error) {
	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account file: %w", err)
		}
		clientOpts = append(clientOpts, option.WithTokenSource(creds.TokenSource))
	}
	clientOpts = append(clientOpts, opts...)

	sheetsSvc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}

	return &SheetsService{
		sheets:          sheetsSvc,
		drive:           driveSvc,
		spreadsheetID:   cfg.SpreadsheetID,
		spreadsheetName: cfg.SpreadsheetName,
		listFormat:      model.ListFormat(cfg.ListFormat),
		timeout:         cfg.Timeout,
	}, nil
}

// AppendRow appends one row in model.LogColumns order. Calling it twice with the
// same record appends two rows.
func (s *SheetsService) AppendRow(ctx context.Context, record model.LogRecord) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	spreadsheetID, err := s.resolveSpreadsheetID(ctx)
	if err != nil {
		return err
	}

	doc, err := s.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return wrapGoogleError("get spreadsheet", err)
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetID)
	}
	target := quoteSheetTitle(doc.Sheets[0].Properties.Title)

	resp, err := s.sheets.Spreadsheets.Values.Append(spreadsheetID, target, &sheets.ValueRange{
		Values: [][]interface{}{record.Row(s.listFormat)},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return wrapGoogleError("append row", err)
	}

	updatedRange := ""
	if resp.Updates != nil {
		updatedRange = resp.Updates.UpdatedRange
	}
	log.Info().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", updatedRange).
		Int("score", record.ResumeScore).
		Msg("analysis row appended")
	return nil
}

func (s *SheetsService) resolveSpreadsheetID(ctx context.Context) (string, error) {
	if s.spreadsheetID != "" {
		return s.spreadsheetID, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeDriveQuery(s.spreadsheetName), spreadsheetMimeType)
	files, err := s.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapGoogleError("find spreadsheet", err)
	}
	if len(files.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, s.spreadsheetName)
	}
	return files.Files[0].Id, nil
}

func wrapGoogleError(op string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %v", op, ErrSpreadsheetNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func escapeDriveQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
