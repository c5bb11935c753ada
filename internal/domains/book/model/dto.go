package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateBookRequest is the payload for POST /books.
type CreateBookRequest struct {
	Title       string   `json:"title"`
	AuthorNames []string `json:"author_names"`
	ISBN        *string  `json:"isbn,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.AuthorNames, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.ISBN, validation.Length(13, 13)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

// UpdateBookRequest is the payload for PUT /books/:id. The owner is
// deliberately absent; it changes only through the owner endpoint.
type UpdateBookRequest struct {
	Title       string   `json:"title"`
	AuthorNames []string `json:"author_names"`
	ISBN        *string  `json:"isbn,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.AuthorNames, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.ISBN, validation.Length(13, 13)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

// ChangeOwnerRequest is the payload for PUT /books/:id/owner.
type ChangeOwnerRequest struct {
	OwnerID string `json:"owner_id"`
}

func (r ChangeOwnerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OwnerID, validation.Required, is.UUIDv4),
	)
}

// ListBooksRequest captures the list query parameters.
type ListBooksRequest struct {
	Search string `form:"q"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (r ListBooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(1)),
		validation.Field(&r.Limit, validation.Min(1), validation.Max(100)),
	)
}

type AuthorRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookResponse is the detail read model.
type BookResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Authors     []AuthorRefDTO `json:"authors"`
	ISBN        *string        `json:"isbn,omitempty"`
	Description *string        `json:"description,omitempty"`
	Owner       UserRefDTO     `json:"owner"`
	CheckedOut  bool           `json:"checked_out"`
	CreatedAt   time.Time      `json:"created_at"`
	CreatedBy   UserRefDTO     `json:"created_by"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
	UpdatedBy   *UserRefDTO    `json:"updated_by,omitempty"`
}

// ListBooksResponse is the compact list read model.
type ListBooksResponse struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Authors    []AuthorRefDTO `json:"authors"`
	Owner      UserRefDTO     `json:"owner"`
	CheckedOut bool           `json:"checked_out"`
}

// CheckoutResponse is one checkout-history entry.
type CheckoutResponse struct {
	CheckoutID   string     `json:"checkout_id"`
	CheckedOutTo UserRefDTO `json:"checked_out_to"`
	CheckedOutAt time.Time  `json:"checked_out_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
}

// EntityCreatedResponse acknowledges a create with the new id.
type EntityCreatedResponse struct {
	ID string `json:"id"`
}

// BookToResponse maps the aggregate to its detail read model.
func BookToResponse(b *Book) BookResponse {
	a := b.Audit()

	resp := BookResponse{
		ID:          a.ID().String(),
		Title:       b.Title(),
		Authors:     authorRefDTOs(b.Authors()),
		ISBN:        b.ISBN(),
		Description: b.Description(),
		Owner:       UserRefDTO{ID: b.Owner().ID().String(), Name: b.Owner().Name()},
		CheckedOut:  b.IsCheckedOut(),
		CreatedAt:   a.CreatedAt(),
		CreatedBy:   UserRefDTO{ID: a.CreatedBy().ID().String(), Name: a.CreatedBy().Name()},
		UpdatedAt:   a.UpdatedAt(),
	}
	if by := a.UpdatedBy(); by != nil {
		resp.UpdatedBy = &UserRefDTO{ID: by.ID().String(), Name: by.Name()}
	}

	return resp
}

// CheckoutsToResponse maps the history newest-first.
func CheckoutsToResponse(h CheckoutHistory) []CheckoutResponse {
	items := h.Items()
	out := make([]CheckoutResponse, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		c := items[i]
		out = append(out, CheckoutResponse{
			CheckoutID:   c.ID().String(),
			CheckedOutTo: UserRefDTO{ID: c.CheckedOutTo().ID().String(), Name: c.CheckedOutTo().Name()},
			CheckedOutAt: c.CheckedOutAt(),
			ReturnedAt:   c.ReturnedAt(),
		})
	}
	return out
}

func authorRefDTOs(list AuthorList) []AuthorRefDTO {
	refs := list.Refs()
	out := make([]AuthorRefDTO, len(refs))
	for i, entry := range refs {
		out[i] = AuthorRefDTO{
			ID:   entry.Reference().ID().String(),
			Name: entry.Reference().Name().String(),
		}
	}
	return out
}
