package lead

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader is the column layout for lead exports
var csvHeader = []string{
	"name", "address", "phone", "website", "email",
	"description", "generated_email", "generated_whatsapp", "lead_score",
}

// ExportCSV writes leads as UTF-8 CSV with a header row. Fields containing
// quotes or commas are quoted by encoding/csv per RFC 4180.
func ExportCSV(w io.Writer, leads []Lead) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range leads {
		l := &leads[i]
		score := ""
		if l.LeadScore != 0 {
			score = strconv.FormatFloat(l.LeadScore, 'f', -1, 64)
		}
		row := []string{
			l.Name, l.Address, l.Phone, l.Website, l.Email,
			l.Description, l.GeneratedEmail, l.GeneratedWhatsApp, score,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFileName builds the export file name from the campaign id and date
func ExportFileName(campaignID string, now time.Time) string {
	return fmt.Sprintf("%s_leads_%s.csv", campaignID, now.Format("2006-01-02"))
}

// ParseCSV reads a lead export back. Used for round-trip verification and for
// re-importing edited exports via the upload endpoint.
func ParseCSV(r io.Reader) ([]Lead, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var leads []Lead
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		l := Lead{
			Name:              field(row, "name"),
			Address:           field(row, "address"),
			Phone:             field(row, "phone"),
			Website:           field(row, "website"),
			Email:             field(row, "email"),
			Description:       field(row, "description"),
			GeneratedEmail:    field(row, "generated_email"),
			GeneratedWhatsApp: field(row, "generated_whatsapp"),
		}
		if s := field(row, "lead_score"); s != "" {
			l.LeadScore, _ = strconv.ParseFloat(s, 64)
		}
		leads = append(leads, l)
	}

	return leads, nil
}
