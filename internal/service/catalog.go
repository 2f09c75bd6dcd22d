package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/repository"
)

// CatalogService answers the public browsing questions: which services
// exist and who offers them.
type CatalogService struct {
	users *repository.UserRepo
}

func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{users: repository.NewUserRepo(db)}
}

func (s *CatalogService) Services() []model.Service { return model.Catalog() }

// ListWorkers returns worker profiles with their ratings.  An empty
// service lists every worker.
func (s *CatalogService) ListWorkers(ctx context.Context, service string) ([]model.WorkerListing, error) {
	out, err := s.users.ListWorkers(ctx, service)
	if err != nil {
		return nil, storeErr("list workers", err)
	}
	return out, nil
}
