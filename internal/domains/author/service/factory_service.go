package service

import (
	"context"
	"errors"
	"fmt"

	"library-backend/internal/domains/author/model"
	"library-backend/internal/domains/author/repository"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
	"library-backend/pkg/logger"
)

// FactoryService resolves an ordered list of free-text author names to
// stable references, creating records for names that do not exist yet.
type FactoryService struct {
	repo  repository.RepositoryInterface
	query repository.QueryServiceInterface
}

func NewFactoryService(repo repository.RepositoryInterface, query repository.QueryServiceInterface) *FactoryService {
	return &FactoryService{repo: repo, query: query}
}

// EnsureAuthorsExist returns a reference for every input name. The
// returned slice is not ordered; the book author list pairs each
// reference back to its input position.
//
// The lookup-then-create is not transactional. Two requests introducing
// the same new name can both miss the lookup; the UNIQUE constraint on
// authors.name turns the loser's insert into ErrConflict, which means
// "someone else just created it" and is resolved by re-querying.
func (s *FactoryService) EnsureAuthorsExist(ctx context.Context, auditCtx audit.Context, names []model.AuthorName) ([]model.AuthorReference, error) {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name.String()]; dup {
			return nil, domainerr.Validation("author names contain duplicates")
		}
		seen[name.String()] = struct{}{}
	}

	refs, err := s.query.FindRefsByName(ctx, names)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		if containsName(refs, name) {
			continue
		}

		ref, err := s.createAuthor(ctx, auditCtx, name)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

func (s *FactoryService) createAuthor(ctx context.Context, auditCtx audit.Context, name model.AuthorName) (model.AuthorReference, error) {
	author, err := model.CreateNew(auditCtx, name)
	if err != nil {
		return model.AuthorReference{}, err
	}

	if err := s.repo.Save(ctx, author); err != nil {
		if !errors.Is(err, domainerr.ErrConflict) {
			return model.AuthorReference{}, err
		}

		// Lost the race: a concurrent request created this name between
		// our lookup and insert. Fetch the winner's record.
		logger.Info("author already created concurrently, re-querying", map[string]interface{}{
			"name": name.String(),
		})

		existing, err := s.query.FindRefsByName(ctx, []model.AuthorName{name})
		if err != nil {
			return model.AuthorReference{}, err
		}
		if len(existing) == 0 {
			return model.AuthorReference{}, fmt.Errorf("author %q conflicted on insert but is absent on re-query", name.String())
		}
		return existing[0], nil
	}

	return author.Reference(), nil
}

func containsName(refs []model.AuthorReference, name model.AuthorName) bool {
	for _, ref := range refs {
		if ref.Name().Equal(name) {
			return true
		}
	}
	return false
}
