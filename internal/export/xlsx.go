package export

import (
	"fmt"
	"io"

	"acd-tierlist/internal/domain"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Leaderboard"

// WriteXLSX writes players, already in leaderboard order, as a single-sheet
// workbook: position, name, region, rank, points and one column per kit.
func WriteXLSX(w io.Writer, players []domain.Player) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"Position", "Name", "Region", "Rank", "Points"}
	for _, k := range domain.Kits {
		header = append(header, k.DisplayName())
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range players {
		row := []any{i + 1, p.Name, p.Region, string(p.Rank), p.Points}
		for _, k := range domain.Kits {
			tier, _ := p.TierFor(k)
			row = append(row, string(tier))
		}

		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("failed to write row for player %s: %w", p.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
