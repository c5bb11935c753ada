package service

import (
	"context"

	"library-backend/internal/domains/author/repository"
)

// AuthorListItem is the read model for the author listing.
type AuthorListItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AuthorService struct {
	query repository.QueryServiceInterface
}

func NewAuthorService(query repository.QueryServiceInterface) *AuthorService {
	return &AuthorService{query: query}
}

func (s *AuthorService) ListAuthors(ctx context.Context, search string, page, limit int) ([]AuthorListItem, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	refs, total, err := s.query.ListRefs(ctx, search, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]AuthorListItem, len(refs))
	for i, ref := range refs {
		items[i] = AuthorListItem{
			ID:   ref.ID().String(),
			Name: ref.Name().String(),
		}
	}

	return items, total, nil
}
