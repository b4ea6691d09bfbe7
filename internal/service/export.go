package service

import (
	"context"
	"fmt"

	"github.com/pkordes/fahrtenbuch/internal/domain"
	"github.com/pkordes/fahrtenbuch/internal/repo"
)

// ExportService assembles the flat trip export.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided TripRepo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per trip, newest first.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		row := domain.ExportRow{
			Date:     t.Date.UTC().Format("2006-01-02"),
			Purpose:  string(t.Purpose),
			Project:  deref(t.Project),
			StartKm:  t.StartKm,
			EndKm:    t.EndKm,
			Distance: t.Distance,
			Notes:    deref(t.Notes),
		}
		if a := t.StartAddress; a != nil {
			row.StartLabel, row.StartStreet, row.StartZip, row.StartCity = a.Label, deref(a.Street), deref(a.Zip), deref(a.City)
		}
		if a := t.DestAddress; a != nil {
			row.DestLabel, row.DestStreet, row.DestZip, row.DestCity = a.Label, deref(a.Street), deref(a.Zip), deref(a.City)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// deref returns the pointed-to string, or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
