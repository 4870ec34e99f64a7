package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// OrganizationPDF writes the department/position summary report to w.
func (s *Service) OrganizationPDF(ctx context.Context, w io.Writer) error {
	departments, positions, policies, err := s.store.Totals(ctx)
	if err != nil {
		return err
	}
	summaries, err := s.store.DepartmentSummaries(ctx)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Organization Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Departments: %d   Positions: %d   Leave policies: %d", departments, positions, policies))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Department", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Capacity", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Positions", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Employees", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, ds := range summaries {
		capacity := ds.PositionCount
		if capacity == "" {
			capacity = "unlimited"
		}
		pdf.CellFormat(60, 8, ds.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, capacity, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", ds.Positions), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", ds.Employees), "1", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}
