package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	authorModel "library-backend/internal/domains/author/model"
	authorService "library-backend/internal/domains/author/service"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	userService "library-backend/internal/domains/user/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

const (
	bookListCachePrefix = "books:list:"
	bookListCacheTTL    = 5 * time.Minute
)

// BookService owns the load-mutate-save cycle for the Book aggregate.
// One audit context is built per operation; every stamp inside the
// operation shares its timestamp.
type BookService struct {
	clock       audit.Clock
	repo        repository.RepositoryInterface
	query       repository.QueryServiceInterface
	authors     *authorService.FactoryService
	users       *userService.UserService
	cache       cache.Cache
	asynqClient *asynq.Client
}

func NewBookService(
	clock audit.Clock,
	repo repository.RepositoryInterface,
	query repository.QueryServiceInterface,
	authors *authorService.FactoryService,
	users *userService.UserService,
	cacheLayer cache.Cache,
	asynqClient *asynq.Client,
) *BookService {
	return &BookService{
		clock:       clock,
		repo:        repo,
		query:       query,
		authors:     authors,
		users:       users,
		cache:       cacheLayer,
		asynqClient: asynqClient,
	}
}

// CreateBook resolves the author names, builds the aggregate with the
// acting user as owner and persists it.
func (s *BookService) CreateBook(ctx context.Context, actor audit.Actor, req model.CreateBookRequest) (*model.EntityCreatedResponse, error) {
	auditCtx := audit.NewContext(actor, s.clock)

	title, isbn, description, authors, err := s.resolveFields(ctx, auditCtx, req.Title, req.AuthorNames, req.ISBN, req.Description)
	if err != nil {
		return nil, err
	}

	book, err := model.CreateNew(auditCtx, title, authors, isbn, description,
		model.NewBookOwner(actor.User()))
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)

	return &model.EntityCreatedResponse{ID: book.Audit().ID().String()}, nil
}

// UpdateBook replaces the editable fields of an existing book.
func (s *BookService) UpdateBook(ctx context.Context, actor audit.Actor, bookID uuid.UUID, req model.UpdateBookRequest) error {
	auditCtx := audit.NewContext(actor, s.clock)

	book, err := s.repo.FindByID(ctx, model.BookID(bookID))
	if err != nil {
		return err
	}

	title, isbn, description, authors, err := s.resolveFields(ctx, auditCtx, req.Title, req.AuthorNames, req.ISBN, req.Description)
	if err != nil {
		return err
	}

	if err := book.Update(auditCtx, title, authors, isbn, description); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return err
	}
	s.invalidateListCache(ctx)

	return nil
}

// DeleteBook removes a book after the aggregate approves the deletion.
func (s *BookService) DeleteBook(ctx context.Context, actor audit.Actor, bookID uuid.UUID) error {
	auditCtx := audit.NewContext(actor, s.clock)

	book, err := s.repo.FindByID(ctx, model.BookID(bookID))
	if err != nil {
		return err
	}

	if err := book.ValidateDeletion(auditCtx); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, book.Audit().ID()); err != nil {
		return err
	}
	s.invalidateListCache(ctx)

	return nil
}

// ChangeOwner transfers a book to another existing user. Admin only.
func (s *BookService) ChangeOwner(ctx context.Context, actor audit.Actor, bookID uuid.UUID, req model.ChangeOwnerRequest) error {
	auditCtx := audit.NewContext(actor, s.clock)

	book, err := s.repo.FindByID(ctx, model.BookID(bookID))
	if err != nil {
		return err
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return domainerr.Validation("owner id is not a valid UUID")
	}

	newOwner, err := s.users.FindReference(ctx, ownerID)
	if err != nil {
		return err
	}

	if err := book.ChangeOwner(auditCtx, newOwner); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return err
	}
	s.invalidateListCache(ctx)

	return nil
}

// CheckoutBook lends the book to the acting user.
func (s *BookService) CheckoutBook(ctx context.Context, actor audit.Actor, bookID uuid.UUID) error {
	auditCtx := audit.NewContext(actor, s.clock)

	book, err := s.repo.FindByID(ctx, model.BookID(bookID))
	if err != nil {
		return err
	}

	if err := book.DoCheckout(auditCtx); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	s.enqueueCheckoutEvent(shared.TypeCheckoutNotify, book, actor)

	return nil
}

// ReturnBook closes the active checkout.
func (s *BookService) ReturnBook(ctx context.Context, actor audit.Actor, bookID uuid.UUID) error {
	auditCtx := audit.NewContext(actor, s.clock)

	book, err := s.repo.FindByID(ctx, model.BookID(bookID))
	if err != nil {
		return err
	}

	if err := book.DoReturn(auditCtx); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	s.enqueueCheckoutEvent(shared.TypeReturnNotify, book, actor)

	return nil
}

// GetBook serves the detail read model.
func (s *BookService) GetBook(ctx context.Context, bookID uuid.UUID) (*model.BookResponse, error) {
	book, err := s.repo.FindByID(ctx, model.BookID(bookID))
	if err != nil {
		return nil, err
	}

	resp := model.BookToResponse(book)
	return &resp, nil
}

// GetCheckoutHistory serves the full history. Admin only: the log
// exposes who borrowed what.
func (s *BookService) GetCheckoutHistory(ctx context.Context, actor audit.Actor, bookID uuid.UUID) ([]model.CheckoutResponse, error) {
	if !actor.IsAdmin() {
		return nil, domainerr.ErrForbidden
	}

	book, err := s.repo.FindByID(ctx, model.BookID(bookID))
	if err != nil {
		return nil, err
	}

	return model.CheckoutsToResponse(book.Checkouts()), nil
}

// ListBooks serves the paged list, cached per query.
func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.ListBooksResponse, int, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	type listCacheEntry struct {
		Items []model.ListBooksResponse `json:"items"`
		Total int                       `json:"total"`
	}

	cacheKey := fmt.Sprintf("%sq=%s:page=%d:limit=%d", bookListCachePrefix, req.Search, req.Page, req.Limit)

	var cached listCacheEntry
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Error("book list cache read failed", err)
	} else if found {
		return cached.Items, cached.Total, nil
	}

	items, total, err := s.query.ListBooks(ctx, req.Search, (req.Page-1)*req.Limit, req.Limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.cache.Set(ctx, cacheKey, listCacheEntry{Items: items, Total: total}, bookListCacheTTL); err != nil {
		logger.Error("book list cache write failed", err)
	}

	return items, total, nil
}

func (s *BookService) resolveFields(
	ctx context.Context,
	auditCtx audit.Context,
	rawTitle string,
	rawAuthorNames []string,
	rawISBN *string,
	rawDescription *string,
) (model.BookTitle, model.BookISBN, model.BookDescription, model.AuthorList, error) {
	var (
		zeroTitle model.BookTitle
		zeroISBN  model.BookISBN
		zeroDesc  model.BookDescription
		zeroList  model.AuthorList
	)

	title, err := model.NewBookTitle(rawTitle)
	if err != nil {
		return zeroTitle, zeroISBN, zeroDesc, zeroList, err
	}
	isbn, err := model.NewBookISBN(rawISBN)
	if err != nil {
		return zeroTitle, zeroISBN, zeroDesc, zeroList, err
	}
	description, err := model.NewBookDescription(rawDescription)
	if err != nil {
		return zeroTitle, zeroISBN, zeroDesc, zeroList, err
	}

	names := make([]authorModel.AuthorName, len(rawAuthorNames))
	for i, raw := range rawAuthorNames {
		name, err := authorModel.NewAuthorName(raw)
		if err != nil {
			return zeroTitle, zeroISBN, zeroDesc, zeroList, err
		}
		names[i] = name
	}

	refs, err := s.authors.EnsureAuthorsExist(ctx, auditCtx, names)
	if err != nil {
		return zeroTitle, zeroISBN, zeroDesc, zeroList, err
	}

	authors, err := model.NewAuthorList(names, refs)
	if err != nil {
		return zeroTitle, zeroISBN, zeroDesc, zeroList, err
	}

	return title, isbn, description, authors, nil
}

func (s *BookService) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, bookListCachePrefix+"*"); err != nil {
		logger.Error("book list cache invalidation failed", err)
	}
}

// enqueueCheckoutEvent hands the notification to the worker. Failures
// are logged, not returned: the lend already happened.
func (s *BookService) enqueueCheckoutEvent(taskType string, book *model.Book, actor audit.Actor) {
	if s.asynqClient == nil {
		return
	}

	payload, err := json.Marshal(shared.CheckoutEventPayload{
		BookID:    book.Audit().ID().String(),
		BookTitle: book.Title(),
		OwnerID:   book.Owner().ID().String(),
		ActorName: actor.Username(),
	})
	if err != nil {
		logger.Error("marshal checkout event", err)
		return
	}

	task := asynq.NewTask(taskType, payload)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue("default"), asynq.MaxRetry(3)); err != nil {
		logger.Error("enqueue checkout event", err)
	}
}
