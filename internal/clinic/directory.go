package clinic

import (
	"context"

	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

type directoryRepo interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListPatients(ctx context.Context) ([]Patient, error)
}

// Directory lists doctors (through the optional roster cache) and patients.
type Directory struct {
	repo   directoryRepo
	cache  *RosterCache
	logger *logging.Logger
}

// NewDirectory creates a directory. cache may be nil.
func NewDirectory(repo directoryRepo, cache *RosterCache, logger *logging.Logger) *Directory {
	if repo == nil {
		panic("clinic: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Directory{repo: repo, cache: cache, logger: logger}
}

// ListDoctors serves the roster from cache when possible. Cache failures fall
// back to the database.
func (d *Directory) ListDoctors(ctx context.Context) ([]Doctor, error) {
	if doctors, ok, err := d.cache.Get(ctx); err != nil {
		d.logger.Warn("roster cache read failed", "error", err)
	} else if ok {
		return doctors, nil
	}

	doctors, err := d.repo.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Set(ctx, doctors); err != nil {
		d.logger.Warn("roster cache write failed", "error", err)
	}
	return doctors, nil
}

// ListPatients always reads through to the database.
func (d *Directory) ListPatients(ctx context.Context) ([]Patient, error) {
	return d.repo.ListPatients(ctx)
}
