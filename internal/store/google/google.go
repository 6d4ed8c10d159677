// Package google implements the store ports on top of the Google Sheets
// and Drive APIs. The spreadsheet is addressed by name: it is looked up
// through Drive and created (with broad write access) when absent.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"expensetracker/internal/store"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Credentials selects the service account used for both APIs. Exactly one
// of JSON or File should be set; when both are empty the
// GOOGLE_APPLICATION_CREDENTIALS fallback applies.
type Credentials struct {
	JSON string
	File string
}

// Client is the process-wide handle to the Sheets and Drive services.
// Construct it once at startup and reuse it for the whole session.
type Client struct {
	sheets *gsheet.Service
	drive  *gdrive.Service
}

// NewClient builds the Sheets and Drive services from service-account
// credentials. Authentication failures surface as store.ErrConnection.
func NewClient(ctx context.Context, creds Credentials) (*Client, error) {
	credJSON, err := resolveCredentials(creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrConnection, err)
	}

	opts := []goption.ClientOption{
		goption.WithCredentialsJSON(credJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope, gdrive.DriveScope),
	}
	sheetsSvc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheets service: %v", store.ErrConnection, err)
	}
	driveSvc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create drive service: %v", store.ErrConnection, err)
	}

	slog.InfoContext(ctx, "Google API services created", "credentials_size", len(credJSON))
	return &Client{sheets: sheetsSvc, drive: driveSvc}, nil
}

func resolveCredentials(creds Credentials) ([]byte, error) {
	switch {
	case strings.TrimSpace(creds.JSON) != "":
		return []byte(creds.JSON), nil
	case strings.TrimSpace(creds.File) != "":
		data, err := os.ReadFile(creds.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	}
	if fallback := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); fallback != "" {
		data, err := os.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("read GOOGLE_APPLICATION_CREDENTIALS: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// Open resolves a spreadsheet by name. When no spreadsheet with that name
// exists it creates one and shares it so anyone with the link can write,
// matching how the tracker originally provisioned its sheet.
func (c *Client) Open(ctx context.Context, name string) (*Spreadsheet, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMimeType)
	list, err := c.drive.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: search spreadsheet %q: %v", store.ErrConnection, name, err)
	}
	if len(list.Files) > 0 {
		slog.InfoContext(ctx, "Opened spreadsheet", "name", name, "id", list.Files[0].Id)
		return &Spreadsheet{client: c, id: list.Files[0].Id}, nil
	}

	created, err := c.sheets.Spreadsheets.Create(&gsheet.Spreadsheet{
		Properties: &gsheet.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: create spreadsheet %q: %v", store.ErrConnection, name, err)
	}
	perm := &gdrive.Permission{Type: "anyone", Role: "writer"}
	if _, err := c.drive.Permissions.Create(created.SpreadsheetId, perm).Context(ctx).Do(); err != nil {
		slog.WarnContext(ctx, "Failed to share new spreadsheet", "name", name, "error", err)
	}
	slog.InfoContext(ctx, "Created spreadsheet", "name", name, "id", created.SpreadsheetId)
	return &Spreadsheet{client: c, id: created.SpreadsheetId}, nil
}

// Spreadsheet is one remote spreadsheet resolved by Open.
type Spreadsheet struct {
	client *Client
	id     string
}

var _ store.Store = (*Spreadsheet)(nil)

// EnsureTable returns a handle to the named worksheet, creating it with
// header row and seed rows when it does not exist. An existing worksheet
// whose first row is empty (freshly added by another client) gets the
// header written once; a populated header is left untouched.
func (s *Spreadsheet) EnsureTable(ctx context.Context, spec store.TableSpec) (store.Table, error) {
	meta, err := s.client.sheets.Spreadsheets.Get(s.id).Fields("sheets(properties(sheetId,title))").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read spreadsheet metadata: %v", store.ErrConnection, err)
	}

	var sheetID int64 = -1
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == spec.Name {
			sheetID = sh.Properties.SheetId
			break
		}
	}

	if sheetID < 0 {
		resp, err := s.client.sheets.Spreadsheets.BatchUpdate(s.id, &gsheet.BatchUpdateSpreadsheetRequest{
			Requests: []*gsheet.Request{{
				AddSheet: &gsheet.AddSheetRequest{
					Properties: &gsheet.SheetProperties{
						Title: spec.Name,
						GridProperties: &gsheet.GridProperties{
							RowCount:    int64(max(spec.Rows, len(spec.Seed)+1)),
							ColumnCount: int64(max(spec.Cols, len(spec.Header))),
						},
					},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", spec.Name, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	t := &Table{sheet: s, spec: spec, sheetID: sheetID}
	if err := t.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Table is one worksheet inside a spreadsheet.
type Table struct {
	sheet   *Spreadsheet
	spec    store.TableSpec
	sheetID int64
}

var _ store.Table = (*Table)(nil)

// ensureHeader writes the header (and seed rows) exactly once: only when
// the first row of the worksheet is still empty.
func (t *Table) ensureHeader(ctx context.Context) error {
	headerRange := fmt.Sprintf("%s!1:1", t.spec.Name)
	resp, err := t.values().Get(t.sheet.id, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", t.spec.Name, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	rows := [][]any{toAnyRow(t.spec.Header)}
	for _, seed := range t.spec.Seed {
		rows = append(rows, toAnyRow(seed))
	}
	writeRange := fmt.Sprintf("%s!A1", t.spec.Name)
	_, err = t.values().Update(t.sheet.id, writeRange, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header of %s: %w", t.spec.Name, err)
	}
	slog.InfoContext(ctx, "Initialized table", "table", t.spec.Name, "seed_rows", len(t.spec.Seed))
	return nil
}

func (t *Table) values() *gsheet.SpreadsheetsValuesService {
	return t.sheet.client.sheets.Spreadsheets.Values
}

// dataRange spans all data rows across the schema columns, e.g. "Expenses!A2:D".
func (t *Table) dataRange() string {
	return fmt.Sprintf("%s!A2:%s", t.spec.Name, columnLetter(len(t.spec.Header)-1))
}

func (t *Table) ReadAll(ctx context.Context) ([]store.Row, error) {
	resp, err := t.values().Get(t.sheet.id, t.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.spec.Name, err)
	}
	out := make([]store.Row, 0, len(resp.Values))
	for i, row := range resp.Values {
		out = append(out, store.Row{Position: i + 2, Fields: toStrings(row)})
	}
	return out, nil
}

func (t *Table) AppendRow(ctx context.Context, fields []string) error {
	appendRange := fmt.Sprintf("%s!A1", t.spec.Name)
	_, err := t.values().Append(t.sheet.id, appendRange, &gsheet.ValueRange{Values: [][]any{toAnyRow(fields)}}).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", t.spec.Name, err)
	}
	return nil
}

func (t *Table) OverwriteRow(ctx context.Context, position int, fields []string) error {
	last, err := t.lastRow(ctx)
	if err != nil {
		return err
	}
	if position < 2 || position > last {
		return fmt.Errorf("row %d in %s: %w", position, t.spec.Name, store.ErrNotFound)
	}
	rowRange := fmt.Sprintf("%s!A%d:%s%d", t.spec.Name, position, columnLetter(len(t.spec.Header)-1), position)
	_, err = t.values().Update(t.sheet.id, rowRange, &gsheet.ValueRange{Values: [][]any{toAnyRow(fields)}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("overwrite %s: %w", rowRange, err)
	}
	return nil
}

func (t *Table) DeleteRow(ctx context.Context, position int) error {
	last, err := t.lastRow(ctx)
	if err != nil {
		return err
	}
	if position < 2 || position > last {
		return fmt.Errorf("row %d in %s: %w", position, t.spec.Name, store.ErrNotFound)
	}
	_, err = t.sheet.client.sheets.Spreadsheets.BatchUpdate(t.sheet.id, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    t.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(position - 1), // API indices are 0-based
					EndIndex:   int64(position),
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row %d in %s: %w", position, t.spec.Name, err)
	}
	return nil
}

func (t *Table) Clear(ctx context.Context) error {
	if _, err := t.values().Clear(t.sheet.id, t.spec.Name, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", t.spec.Name, err)
	}
	headerRange := fmt.Sprintf("%s!A1", t.spec.Name)
	_, err := t.values().Update(t.sheet.id, headerRange, &gsheet.ValueRange{Values: [][]any{toAnyRow(t.spec.Header)}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rewrite header of %s: %w", t.spec.Name, err)
	}
	return nil
}

func (t *Table) FindRow(ctx context.Context, value string) (int, error) {
	colRange := fmt.Sprintf("%s!A2:A", t.spec.Name)
	resp, err := t.values().Get(t.sheet.id, colRange).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", t.spec.Name, err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && strings.TrimSpace(fmt.Sprint(row[0])) == value {
			return i + 2, nil
		}
	}
	return 0, fmt.Errorf("value %q in %s: %w", value, t.spec.Name, store.ErrNotFound)
}

// lastRow returns the sheet row number of the last data row (1 when the
// table holds only the header).
func (t *Table) lastRow(ctx context.Context) (int, error) {
	colRange := fmt.Sprintf("%s!A:A", t.spec.Name)
	resp, err := t.values().Get(t.sheet.id, colRange).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read dimensions of %s: %w", t.spec.Name, err)
	}
	return len(resp.Values), nil
}

// columnLetter converts a 0-based column index to its A1 letter ("A"..."Z",
// "AA"...). The schema never exceeds a handful of columns but the loop
// handles the general case.
func columnLetter(idx int) string {
	s := ""
	for idx >= 0 {
		s = string(rune('A'+idx%26)) + s
		idx = idx/26 - 1
	}
	return s
}

func toAnyRow(fields []string) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
