package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-bridgeauth/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const defaultActivityPageSize = 25

// LoginActivityStore keeps the audit trail of handshake stage outcomes.
type LoginActivityStore struct {
	db   *bun.DB
	repo repository.Repository[*loginActivityRecord]
}

func NewLoginActivityStore(db *bun.DB) (*LoginActivityStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*loginActivityRecord](db, loginActivityHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid login activity repository wiring: %w", err)
		}
	}
	return &LoginActivityStore{db: db, repo: repo}, nil
}

func (s *LoginActivityStore) Record(ctx context.Context, entry core.LoginActivity) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: login activity store is not configured")
	}
	identity := strings.TrimSpace(entry.Identity)
	if identity == "" {
		return fmt.Errorf("sqlstore: login activity identity is required")
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	occurredAt := entry.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	_, err := s.repo.Create(ctx, &loginActivityRecord{
		ID:         id,
		Identity:   identity,
		Stage:      strings.TrimSpace(string(entry.Stage)),
		State:      strings.TrimSpace(string(entry.State)),
		Status:     entry.Status,
		ErrCode:    strings.TrimSpace(entry.ErrCode),
		OccurredAt: occurredAt,
	})
	return err
}

// List returns activity newest first.
func (s *LoginActivityStore) List(ctx context.Context, filter core.LoginActivityFilter) (core.LoginActivityPage, error) {
	if s == nil || s.repo == nil {
		return core.LoginActivityPage{}, fmt.Errorf("sqlstore: login activity store is not configured")
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = defaultActivityPageSize
	}
	offset := (page - 1) * perPage

	selectors := []repository.SelectCriteria{
		repository.OrderBy("occurred_at DESC"),
		repository.SelectPaginate(perPage, offset),
	}
	if identity := strings.TrimSpace(filter.Identity); identity != "" {
		selectors = append(selectors, repository.SelectBy("identity", "=", identity))
	}
	if stage := strings.TrimSpace(string(filter.Stage)); stage != "" {
		selectors = append(selectors, repository.SelectBy("stage", "=", stage))
	}

	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return core.LoginActivityPage{}, err
	}
	items := make([]core.LoginActivity, 0, len(records))
	for _, record := range records {
		items = append(items, loginActivityToDomain(record))
	}
	return core.LoginActivityPage{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

// Prune deletes activity recorded before cutoff.
func (s *LoginActivityStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: login activity store is not configured")
	}
	res, err := s.db.NewDelete().
		Model((*loginActivityRecord)(nil)).
		Where("occurred_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

func loginActivityToDomain(record *loginActivityRecord) core.LoginActivity {
	if record == nil {
		return core.LoginActivity{}
	}
	return core.LoginActivity{
		ID:         record.ID,
		Identity:   record.Identity,
		Stage:      core.State(record.Stage),
		State:      core.State(record.State),
		Status:     record.Status,
		ErrCode:    record.ErrCode,
		OccurredAt: record.OccurredAt.UTC(),
	}
}
