package gsheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"adaptcoach/internal/excel"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
)

// Client publishes prescriptions to Google Sheets.
type Client struct {
	sheets *sheets.Service
}

// NewClient creates a client authenticated with a service account JSON file.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("credentials config: %w", err)
	}

	return NewClientWithOptions(ctx, option.WithHTTPClient(config.Client(ctx)))
}

// NewClientWithOptions creates a client from raw API options.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{sheets: srv}, nil
}

// PublishPrescriptions replaces the athlete's tab with the current plan, creating
// the tab on first publish. Rows match the Excel plan sheet.
func (c *Client) PublishPrescriptions(ctx context.Context, spreadsheetID, athleteName string, prescriptions []models.Prescription, lang i18n.Language) error {
	tab := TabName(athleteName)

	sheetID, err := c.ensureTab(ctx, spreadsheetID, tab)
	if err != nil {
		return err
	}

	if _, err := c.sheets.Spreadsheets.Values.Clear(spreadsheetID, quote(tab), &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear tab %q: %w", tab, err)
	}

	values := [][]any{excel.PlanHeader(lang)}
	values = append(values, excel.PlanRows(prescriptions, lang)...)
	if err := c.writeRows(ctx, spreadsheetID, tab, 1, values); err != nil {
		return fmt.Errorf("write tab %q: %w", tab, err)
	}

	return c.formatHeaders(ctx, spreadsheetID, sheetID, int64(len(values[0])))
}

// ensureTab returns the sheet id of tab, adding the tab when missing.
func (c *Client) ensureTab(ctx context.Context, spreadsheetID, tab string) (int64, error) {
	ss, err := c.sheets.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return s.Properties.SheetId, nil
		}
	}

	resp, err := c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tab}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("add tab %q: %w", tab, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("add tab %q: empty reply", tab)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (c *Client) writeRows(ctx context.Context, spreadsheetID, tab string, startRow int, values [][]any) error {
	writeRange := fmt.Sprintf("%s!A%d", quote(tab), startRow)
	_, err := c.sheets.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// formatHeaders makes the first row bold on a blue background.
func (c *Client) formatHeaders(ctx context.Context, spreadsheetID string, sheetID, columns int64) error {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columns,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{Red: 0.18, Green: 0.46, Blue: 0.71},
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		},
	}
	_, err := c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("format headers: %w", err)
	}
	return nil
}

// TabName turns an athlete name into a valid sheet title.
func TabName(athleteName string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\'`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(athleteName))
	name = strings.TrimSpace(name)
	if name == "" {
		return "Atleta"
	}
	for utf8.RuneCountInString(name) > 100 {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}

func quote(tab string) string {
	return "'" + tab + "'"
}

// GetSpreadsheetURL returns the browser URL of a spreadsheet.
func GetSpreadsheetURL(spreadsheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", spreadsheetID)
}

// Publisher binds a client to one spreadsheet and language.
type Publisher struct {
	client        *Client
	spreadsheetID string
	lang          i18n.Language
}

// NewPublisher creates a Publisher.
func NewPublisher(client *Client, spreadsheetID string, lang i18n.Language) *Publisher {
	return &Publisher{client: client, spreadsheetID: spreadsheetID, lang: lang}
}

// PublishPrescriptions publishes to the bound spreadsheet.
func (p *Publisher) PublishPrescriptions(ctx context.Context, athleteName string, prescriptions []models.Prescription) error {
	return p.client.PublishPrescriptions(ctx, p.spreadsheetID, athleteName, prescriptions, p.lang)
}
