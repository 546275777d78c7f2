package bridge

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// Sheet ranges the mirror appends to
const (
	TeamsRange   = "Teams!A1"
	MembersRange = "Members!A1"
)

// Sheets appends registrations to a Google spreadsheet: one row in Teams and
// one row per person in Members
type Sheets struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewSheets creates a Sheets mirror. opts usually carry
// option.WithCredentialsFile for a service account.
func NewSheets(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Sheets, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Sheets{srv: srv, spreadsheetID: spreadsheetID}, nil
}

// Name implements Mirror
func (s *Sheets) Name() string { return "sheets" }

// Send implements Mirror
func (s *Sheets) Send(ctx context.Context, team *domain.Team) error {
	if err := s.append(ctx, TeamsRange, [][]string{team.SheetRow()}); err != nil {
		return fmt.Errorf("append team row: %w", err)
	}
	if err := s.append(ctx, MembersRange, team.MemberRows()); err != nil {
		return fmt.Errorf("append member rows: %w", err)
	}
	return nil
}

func (s *Sheets) append(ctx context.Context, rng string, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		values[i] = cells
	}

	_, err := s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
