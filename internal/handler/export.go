// export.go implements GET /trips/export: every trip as one CSV line with
// both addresses spelled out.

package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/fahrtenbuch/internal/domain"
)

// exportFilename is the attachment name offered to the browser.
const exportFilename = "fahrtenbuch.csv"

// csvHeaders defines the column names written as the first row of the export.
// The order is part of the file format; spreadsheets importing it rely on it.
var csvHeaders = []string{
	"date", "purpose", "project",
	"startKm", "endKm", "distance",
	"startLabel", "startStreet", "startZip", "startCity",
	"destLabel", "destStreet", "destZip", "destCity",
	"notes",
}

// ExportTrips implements GET /trips/export.
func (s *Server) ExportTrips(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	body := buildCSV(rows)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// buildCSV encodes the header plus one record per row.
// Records are separated by "\n" with no trailing newline, so an empty export
// is exactly the header line.
func buildCSV(rows []domain.ExportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // writes to a bytes.Buffer cannot fail
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(rowToCSVRecord(r))
	}
	w.Flush()

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// rowToCSVRecord encodes a domain.ExportRow in csvHeaders order.
func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.Date,
		r.Purpose,
		r.Project,
		strconv.FormatInt(r.StartKm, 10),
		strconv.FormatInt(r.EndKm, 10),
		strconv.FormatInt(r.Distance, 10),
		r.StartLabel,
		r.StartStreet,
		r.StartZip,
		r.StartCity,
		r.DestLabel,
		r.DestStreet,
		r.DestZip,
		r.DestCity,
		r.Notes,
	}
}
