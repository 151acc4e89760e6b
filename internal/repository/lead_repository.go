package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"

	"lead-insights-service/internal/model"
)

// LeadRepository defines database operations for leads and clients.
type LeadRepository interface {
	// Create inserts a single lead.
	Create(ctx context.Context, lead model.Lead) error

	// CreateBatch inserts multiple leads through a prepared batch.
	CreateBatch(ctx context.Context, leads []model.Lead) error

	// FetchLeads returns the leads matching the filter, ordered by
	// creation time.
	FetchLeads(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error)

	// ListClients returns all known clients ordered by id.
	ListClients(ctx context.Context) ([]model.Client, error)

	// GetClient returns one client by id.
	GetClient(ctx context.Context, id int64) (model.Client, error)
}

type leadRepository struct {
	conn clickhouse.Conn
}

// NewLeadRepository creates a LeadRepository backed by ClickHouse.
func NewLeadRepository(conn clickhouse.Conn) LeadRepository {
	return &leadRepository{conn: conn}
}

const insertLeadQuery = `
	INSERT INTO leads (id, name, phone, client_id, source, campaign, ad_set, ad, keyword, device, browser, location, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertLeadBatchQuery = `
	INSERT INTO leads (id, name, phone, client_id, source, campaign, ad_set, ad, keyword, device, browser, location, created_at)
`

func (r *leadRepository) Create(ctx context.Context, lead model.Lead) error {
	location, err := marshalLocation(lead.Location)
	if err != nil {
		return err
	}

	return r.conn.Exec(ctx, insertLeadQuery,
		lead.ID,
		lead.Name,
		lead.Phone,
		lead.ClientID,
		lead.Source,
		lead.Campaign,
		lead.AdSet,
		lead.Ad,
		lead.Keyword,
		lead.Device,
		lead.Browser.Raw,
		location,
		lead.CreatedAt,
	)
}

func (r *leadRepository) CreateBatch(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertLeadBatchQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, lead := range leads {
		location, err := marshalLocation(lead.Location)
		if err != nil {
			return err
		}
		if err := batch.Append(
			lead.ID,
			lead.Name,
			lead.Phone,
			lead.ClientID,
			lead.Source,
			lead.Campaign,
			lead.AdSet,
			lead.Ad,
			lead.Keyword,
			lead.Device,
			lead.Browser.Raw,
			location,
			lead.CreatedAt,
		); err != nil {
			return fmt.Errorf("append batch row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

const selectLeadColumns = `
	SELECT id, name, phone, client_id, source, campaign, ad_set, ad, keyword, device, browser, location, created_at
	FROM leads
`

func (r *leadRepository) FetchLeads(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error) {
	where, args := buildLeadPredicates(filter)
	query := selectLeadColumns + where + " ORDER BY created_at"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch leads: %w", err)
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var (
			lead     model.Lead
			browser  string
			location string
		)
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Phone,
			&lead.ClientID,
			&lead.Source,
			&lead.Campaign,
			&lead.AdSet,
			&lead.Ad,
			&lead.Keyword,
			&lead.Device,
			&browser,
			&location,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		lead.Browser = model.Browser{Raw: browser}
		lead.Location = unmarshalLocation(location)
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch leads: %w", err)
	}
	return leads, nil
}

// buildLeadPredicates maps the filter onto a parameterized WHERE clause:
// exact match on client id (nil means all clients, zero is a real id),
// inclusive calendar-date bounds, exact hierarchy matches, a
// case-insensitive substring OR-search over name and phone, and the
// organic-exclusion predicate.
func buildLeadPredicates(filter model.LeadFilter) (string, []any) {
	var (
		predicates []string
		args       []any
	)

	if filter.ClientID != nil {
		predicates = append(predicates, "client_id = ?")
		args = append(args, *filter.ClientID)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() {
		predicates = append(predicates, "toDate(created_at) >= toDate(?) AND toDate(created_at) <= toDate(?)")
		args = append(args, filter.From.Format(dateFormat), filter.To.Format(dateFormat))
	}

	exact := []struct {
		column string
		value  *string
	}{
		{"source", filter.Source},
		{"campaign", filter.Campaign},
		{"ad_set", filter.AdSet},
		{"ad", filter.Ad},
		{"keyword", filter.Keyword},
	}
	for _, m := range exact {
		if m.value != nil && *m.value != "" {
			predicates = append(predicates, m.column+" = ?")
			args = append(args, *m.value)
		}
	}

	if filter.Search != "" {
		predicates = append(predicates, "(positionCaseInsensitive(name, ?) > 0 OR positionCaseInsensitive(phone, ?) > 0)")
		args = append(args, filter.Search, filter.Search)
	}
	if filter.ExcludeOrganic {
		predicates = append(predicates, "positionCaseInsensitive(source, 'organic') = 0 AND positionCaseInsensitive(source, 'orgânico') = 0")
	}

	if len(predicates) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(predicates, " AND "), args
}

const dateFormat = "2006-01-02"

const listClientsQuery = `SELECT id, name, email, instance FROM clients ORDER BY id`

func (r *leadRepository) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := r.conn.Query(ctx, listClientsQuery)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Instance); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

const getClientQuery = `SELECT id, name, email, instance FROM clients WHERE id = ?`

func (r *leadRepository) GetClient(ctx context.Context, id int64) (model.Client, error) {
	row := r.conn.QueryRow(ctx, getClientQuery, id)

	var c model.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Instance); err != nil {
		return model.Client{}, fmt.Errorf("get client %d: %w", id, err)
	}
	return c, nil
}

func marshalLocation(location *model.Location) (string, error) {
	if location == nil {
		return "", nil
	}
	b, err := json.Marshal(location)
	if err != nil {
		return "", fmt.Errorf("marshal location: %w", err)
	}
	return string(b), nil
}

// unmarshalLocation tolerates malformed stored payloads; they degrade
// to a nil location rather than failing the whole fetch.
func unmarshalLocation(raw string) *model.Location {
	if raw == "" {
		return nil
	}
	var loc model.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil
	}
	return &loc
}
