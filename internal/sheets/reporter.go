package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"hotelops/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Reporter mirrors ops aggregates into a shared spreadsheet so the duty
// managers can read them without touching the database.
type Reporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

func NewReporter(credentialsFile, spreadsheetID string) (*Reporter, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheetsapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &Reporter{service: srv, spreadsheetID: spreadsheetID}, nil
}

// TestConnection reads one cell to verify the service account has access.
func (r *Reporter) TestConnection(ctx context.Context) error {
	_, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, "Usage!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail reads the client_email from the credentials file,
// for the setup instructions shown to operators.
func (r *Reporter) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// UpdateUsageSheet rewrites the Usage sheet with the month's token counters.
func (r *Reporter) UpdateUsageSheet(ctx context.Context, month string, rows []models.AIUsage) error {
	var values [][]interface{}

	headers := []interface{}{"Hotel", "Month", "Used tokens", "Budget tokens", "Used %"}
	values = append(values, headers)

	for _, u := range rows {
		pct := 0.0
		if u.BudgetTokens > 0 {
			pct = 100 * float64(u.UsedTokens) / float64(u.BudgetTokens)
		}
		values = append(values, []interface{}{
			u.HotelID,
			month,
			u.UsedTokens,
			u.BudgetTokens,
			fmt.Sprintf("%.1f", pct),
		})
	}

	rangeData := fmt.Sprintf("Usage!A1:E%d", len(values))
	valueRange := &sheetsapi.ValueRange{Values: values}

	_, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// AppendSweepResult records one sweep run on the Sweeps sheet.
func (r *Reporter) AppendSweepResult(ctx context.Context, ranAt time.Time, alerts []string) error {
	row := []interface{}{
		ranAt.UTC().Format("2006-01-02 15:04:05"),
		len(alerts),
	}
	for _, a := range alerts {
		row = append(row, a)
	}

	valueRange := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	_, err := r.service.Spreadsheets.Values.Append(r.spreadsheetID, "Sweeps!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
