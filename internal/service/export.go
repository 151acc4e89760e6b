package service

import (
	"context"
	"encoding/csv"
	"io"

	"lead-insights-service/internal/model"
)

// exportHeader fixes the CSV column order expected by downstream
// report tooling.
var exportHeader = []string{
	"Date", "Name", "Phone", "Source", "Campaign", "Ad-set", "Ad",
	"Keyword", "Device", "City", "Browser",
}

const exportDateFormat = "2006-01-02 15:04:05"

// ExportLeads writes the filtered leads as CSV. Missing values render
// as empty strings, never as a null literal.
func (s *leadService) ExportLeads(ctx context.Context, filter model.LeadFilter, w io.Writer) error {
	leads, err := s.ListLeads(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, lead := range leads {
		if err := cw.Write(exportRow(lead)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRow(lead model.Lead) []string {
	date := ""
	if !lead.CreatedAt.IsZero() {
		date = lead.CreatedAt.Format(exportDateFormat)
	}
	city := ""
	if lead.Location != nil {
		city = lead.Location.City
	}
	return []string{
		date,
		lead.Name,
		lead.Phone,
		lead.Source,
		deref(lead.Campaign),
		deref(lead.AdSet),
		deref(lead.Ad),
		deref(lead.Keyword),
		lead.Device,
		city,
		lead.Browser.Raw,
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
