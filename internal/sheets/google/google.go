// Package google appends payment records to a Google Sheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"paybot/internal/core"
	"paybot/internal/sheets"
)

var _ sheets.MirrorWriter = (*Client)(nil)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a Sheets client for the given spreadsheet and sheet. An empty
// sheet name defaults to "Payments". Credentials come from the environment:
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = "Payments"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendPayment appends one row: date, creator, app, amount, submitter,
// payment info, note.
func (c *Client) AppendPayment(ctx context.Context, rec core.PaymentRecord) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{{
		rec.Date.String(),
		rec.CreatorName,
		rec.AppName,
		rec.Amount,
		rec.Submitter,
		rec.PaymentInfo,
		rec.Note,
	}}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	return nil
}
