// Package joblog appends successfully posted jobs to a Google Sheets log.
// Logging is best-effort and after the fact: a failure here never rolls
// back or fails the posting itself.
package joblog

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mesaworks/smartpost/api/schemas"
	"github.com/mesaworks/smartpost/internal/config"
)

// Logger appends one row per posted job.
type Logger struct {
	cfg    config.SheetsConfig
	logger *zap.Logger

	// newService is swapped out in tests.
	newService func(ctx context.Context) (appender, error)
}

// appender is the slice of the Sheets API the logger uses.
type appender interface {
	Append(ctx context.Context, spreadsheetID, readRange string, values [][]interface{}) error
}

// NewLogger creates a sheet-backed job logger.
func NewLogger(cfg config.SheetsConfig, logger *zap.Logger) *Logger {
	l := &Logger{
		cfg:    cfg,
		logger: logger.Named("joblog"),
	}
	l.newService = l.newSheetsService
	return l
}

func (l *Logger) newSheetsService(ctx context.Context) (appender, error) {
	data, err := os.ReadFile(l.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("could not read sheets credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("could not parse sheets credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("could not create sheets service: %w", err)
	}
	return &sheetsAppender{svc: svc}, nil
}

type sheetsAppender struct {
	svc *sheets.Service
}

func (a *sheetsAppender) Append(ctx context.Context, spreadsheetID, readRange string, values [][]interface{}) error {
	_, err := a.svc.Spreadsheets.Values.
		Append(spreadsheetID, readRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// Record appends the posted job as one row. Returns an error for the
// caller to log; callers must not treat it as a posting failure.
func (l *Logger) Record(ctx context.Context, job schemas.JobRecord) error {
	if !l.cfg.Enabled {
		l.logger.Debug("Sheet logging disabled, skipping.")
		return nil
	}

	svc, err := l.newService(ctx)
	if err != nil {
		return err
	}

	row := []interface{}{
		time.Now().Format(time.RFC3339),
		job.CompanyName,
		job.JobTitle,
		job.Location,
		string(job.JobFunction),
		job.MinSalary,
		job.MaxSalary,
		strconv.FormatBool(job.AIGenerated),
		job.PostedBy,
	}
	if err := svc.Append(ctx, l.cfg.SpreadsheetID, l.cfg.Range, [][]interface{}{row}); err != nil {
		return fmt.Errorf("could not append job row: %w", err)
	}

	l.logger.Info("Job recorded in sheet.",
		zap.String("company", job.CompanyName),
		zap.String("title", job.JobTitle))
	return nil
}
