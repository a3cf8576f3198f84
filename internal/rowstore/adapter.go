// Package rowstore adapts the append-only activity sheet behind a
// typed contract: fetch everything, append one row, and the single
// audited mutation exception of deleting a wishlist row by its stable
// identifier. Historical rows are never updated; newer rows dominate
// through the engine's max/mean recomputation.
package rowstore

import (
	"context"
	"sync"
	"time"

	"github.com/matthurstrsa-droid/fastelavn/internal/engine"
	"github.com/matthurstrsa-droid/fastelavn/pkg/config"
	"github.com/matthurstrsa-droid/fastelavn/pkg/db/models"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/metrics"
	"gorm.io/gorm"
)

// Adapter wraps the sheet table with a short-TTL snapshot cache.
// FetchAll returns a recent, not necessarily latest, snapshot; writes
// invalidate it and callers can force a refresh via Invalidate.
type Adapter struct {
	db      *gorm.DB
	cfg     config.StoreConfig
	metrics *metrics.StoreMetrics

	mu        sync.Mutex
	snapshot  []engine.ActivityRow
	fetchedAt time.Time
}

// NewAdapter binds a GORM DB to the sheet contract.
func NewAdapter(db *gorm.DB, cfg config.StoreConfig, m *metrics.StoreMetrics) (*Adapter, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db handle is required")
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = 5 * time.Second
	}
	return &Adapter{db: db, cfg: cfg, metrics: m}, nil
}

// FetchAll returns every activity row in insertion order, typed and
// coerced. Serving from the snapshot cache is allowed within the TTL.
func (a *Adapter) FetchAll(ctx context.Context) ([]engine.ActivityRow, error) {
	a.mu.Lock()
	if a.snapshot != nil && time.Since(a.fetchedAt) < a.cfg.SnapshotTTL {
		rows := cloneRows(a.snapshot)
		a.mu.Unlock()
		a.metrics.IncCache("hit")
		return rows, nil
	}
	a.mu.Unlock()
	a.metrics.IncCache("miss")

	rows, err := a.fetchFresh(ctx)
	if err != nil {
		a.metrics.IncRead("error")
		return nil, err
	}
	a.metrics.IncRead("ok")

	a.mu.Lock()
	a.snapshot = rows
	a.fetchedAt = time.Now()
	rows = cloneRows(a.snapshot)
	a.mu.Unlock()

	return rows, nil
}

func (a *Adapter) fetchFresh(ctx context.Context) ([]engine.ActivityRow, error) {
	if a.cfg.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ReadTimeout)
		defer cancel()
	}

	var records []models.SheetRow
	if err := a.db.WithContext(ctx).Order("seq ASC").Find(&records).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "fetch sheet rows")
	}

	rows := make([]engine.ActivityRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, normalizeRow(record))
	}
	return rows, nil
}

// Append sanitizes and writes one activity row, then drops the cached
// snapshot so the next read observes it.
func (a *Adapter) Append(ctx context.Context, row engine.ActivityRow) error {
	if row.BakeryName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required")
	}

	if a.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.WriteTimeout)
		defer cancel()
	}

	record := sanitizeRow(row)
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		a.metrics.IncWrite("append", "error")
		return pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "append sheet row")
	}
	a.metrics.IncWrite("append", "ok")

	a.Invalidate()
	return nil
}

// Delete removes the row with the given seq. Only wishlist-marker rows
// are deletable; a rated row is part of the permanent record.
func (a *Adapter) Delete(ctx context.Context, seq int64) error {
	if seq <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "row seq is required")
	}

	if a.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.WriteTimeout)
		defer cancel()
	}

	var record models.SheetRow
	if err := a.db.WithContext(ctx).First(&record, "seq = ?", seq).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "sheet row not found")
		}
		a.metrics.IncWrite("delete", "error")
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "load sheet row")
	}

	if normalized := normalizeRow(record); !normalized.IsWishlistMarker() {
		return pkgerrors.New(pkgerrors.CodeConflict, "refusing to delete a non-wishlist row")
	}

	if err := a.db.WithContext(ctx).Delete(&models.SheetRow{}, "seq = ?", seq).Error; err != nil {
		a.metrics.IncWrite("delete", "error")
		return pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "delete sheet row")
	}
	a.metrics.IncWrite("delete", "ok")

	a.Invalidate()
	return nil
}

// Invalidate drops the cached snapshot.
func (a *Adapter) Invalidate() {
	a.mu.Lock()
	a.snapshot = nil
	a.fetchedAt = time.Time{}
	a.mu.Unlock()
}

func cloneRows(rows []engine.ActivityRow) []engine.ActivityRow {
	out := make([]engine.ActivityRow, len(rows))
	copy(out, rows)
	return out
}
