package contact

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/BastianThoma/join/internal/docstore"
	"github.com/BastianThoma/join/internal/model"
)

var (
	ErrNotFound    = errors.New("contact not found")
	ErrNameMissing = errors.New("contact name is required")
)

const collectionName = "contacts"

// Patch is a partial contact update; nil pointer means "no change".
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (p Patch) fields() map[string]any {
	f := map[string]any{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Email != nil {
		f["email"] = *p.Email
	}
	if p.Phone != nil {
		f["phone"] = *p.Phone
	}
	if p.Color != nil {
		f["color"] = *p.Color
	}
	return f
}

func (p Patch) apply(c *model.Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}

type Repo interface {
	Create(ctx context.Context, c model.Contact) (model.Contact, error)
	Get(ctx context.Context, id model.ContactID) (model.Contact, error)

	// List returns all contacts sorted by display name.
	List(ctx context.Context) ([]model.Contact, error)

	Update(ctx context.Context, id model.ContactID, p Patch) (model.Contact, error)

	// Delete removes the contact record for good; contacts have no soft
	// delete.
	Delete(ctx context.Context, id model.ContactID) error
}

// StoreRepo adapts the document store into the typed contact API.
type StoreRepo struct {
	store   docstore.Store
	coll    string
	palette []string
}

func NewStoreRepo(store docstore.Store, palette []string) *StoreRepo {
	return &StoreRepo{store: store, coll: collectionName, palette: palette}
}

// ForUser returns a repo scoped to the given user's contact collection.
func (r *StoreRepo) ForUser(userID string) *StoreRepo {
	if userID == "" {
		return r
	}
	return &StoreRepo{
		store:   r.store,
		coll:    "users/" + userID + "/" + collectionName,
		palette: r.palette,
	}
}

func contactFields(c model.Contact) map[string]any {
	return map[string]any{
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
		"color": c.Color,
	}
}

func contactFromDocument(d docstore.Document) model.Contact {
	get := func(key string) string {
		s, _ := d.Fields[key].(string)
		return s
	}
	return model.Contact{
		ID:    model.ContactID(d.ID),
		Name:  get("name"),
		Email: get("email"),
		Phone: get("phone"),
		Color: get("color"),
	}
}

func (r *StoreRepo) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.Contact{}, ErrNameMissing
	}
	if c.Color == "" {
		color, err := r.nextColor(ctx)
		if err != nil {
			return model.Contact{}, err
		}
		c.Color = color
	}
	id, err := r.store.Insert(ctx, r.coll, contactFields(c))
	if err != nil {
		return model.Contact{}, err
	}
	c.ID = model.ContactID(id)
	return c, nil
}

// nextColor cycles through the fixed palette as the directory grows.
func (r *StoreRepo) nextColor(ctx context.Context) (string, error) {
	if len(r.palette) == 0 {
		return "", nil
	}
	docs, err := r.store.List(ctx, r.coll)
	if err != nil {
		return "", err
	}
	return r.palette[len(docs)%len(r.palette)], nil
}

func (r *StoreRepo) Get(ctx context.Context, id model.ContactID) (model.Contact, error) {
	docs, err := r.store.List(ctx, r.coll)
	if err != nil {
		return model.Contact{}, err
	}
	for _, d := range docs {
		if d.ID == string(id) {
			return contactFromDocument(d), nil
		}
	}
	return model.Contact{}, ErrNotFound
}

func (r *StoreRepo) List(ctx context.Context) ([]model.Contact, error) {
	docs, err := r.store.List(ctx, r.coll)
	if err != nil {
		return nil, err
	}
	out := make([]model.Contact, 0, len(docs))
	for _, d := range docs {
		out = append(out, contactFromDocument(d))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *StoreRepo) Update(ctx context.Context, id model.ContactID, p Patch) (model.Contact, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return model.Contact{}, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return model.Contact{}, ErrNameMissing
	}
	if err := r.store.Update(ctx, r.coll, string(id), p.fields()); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return model.Contact{}, ErrNotFound
		}
		return model.Contact{}, err
	}
	p.apply(&cur)
	return cur, nil
}

func (r *StoreRepo) Delete(ctx context.Context, id model.ContactID) error {
	err := r.store.Delete(ctx, r.coll, string(id))
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
