package mapper

import (
	"time"

	petstypes "github.com/petstore/go-petstore-server/internal/domains/pets/application/types"
	"github.com/petstore/go-petstore-server/internal/domains/pets/domain"
)

// Category is the HTTP representation of a pet category.
type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Tag is the HTTP representation of a pet tag.
type Tag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// NewPet captures the create payload.
type NewPet struct {
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Status    string    `json:"status,omitempty"`
	Category  *Category `json:"category,omitempty"`
	Tags      []Tag     `json:"tags,omitempty"`
	PhotoURLs []string  `json:"photoUrls,omitempty"`
}

// MutationPet captures update payloads while preserving field presence.
type MutationPet struct {
	Name      *string   `json:"name,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	Category  *Category `json:"category,omitempty"`
	Tags      *[]Tag    `json:"tags,omitempty"`
	PhotoURLs *[]string `json:"photoUrls,omitempty"`
}

// StatusChange carries the administrative status payload.
type StatusChange struct {
	Status string `json:"status"`
}

// Pet is the HTTP representation of a catalog entry.
type Pet struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	Category  *Category `json:"category,omitempty"`
	Tags      []Tag     `json:"tags,omitempty"`
	PhotoURLs []string  `json:"photoUrls"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ToAddInput converts the create payload into the application input.
func ToAddInput(model NewPet) petstypes.AddPetInput {
	input := petstypes.AddPetInput{
		Name:      model.Name,
		Price:     model.Price,
		Status:    model.Status,
		Tags:      toTagInputs(model.Tags),
		PhotoURLs: append([]string{}, model.PhotoURLs...),
	}
	if model.Category != nil {
		input.Category = &petstypes.CategoryInput{ID: model.Category.ID, Name: model.Category.Name}
	}
	return input
}

// ToUpdateInput converts an update payload into the application input,
// preserving which fields the caller actually sent.
func ToUpdateInput(id int64, model MutationPet) petstypes.UpdatePetInput {
	input := petstypes.UpdatePetInput{ID: id}
	if model.Name != nil {
		name := *model.Name
		input.Name = &name
	}
	if model.Price != nil {
		price := *model.Price
		input.Price = &price
	}
	if model.Category != nil {
		input.Category = &petstypes.CategoryInput{ID: model.Category.ID, Name: model.Category.Name}
	}
	if model.Tags != nil {
		tags := toTagInputs(*model.Tags)
		input.Tags = &tags
	}
	if model.PhotoURLs != nil {
		urls := append([]string{}, (*model.PhotoURLs)...)
		input.PhotoURLs = &urls
	}
	return input
}

// FromDomainPet maps a domain aggregate into a transport Pet.
func FromDomainPet(p *domain.Pet) Pet {
	var cat *Category
	if p.Category != nil {
		cat = &Category{ID: p.Category.ID, Name: p.Category.Name}
	}
	var tags []Tag
	for _, t := range p.Tags {
		tags = append(tags, Tag{ID: t.ID, Name: t.Name})
	}
	return Pet{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Status:    string(p.Status),
		Category:  cat,
		Tags:      tags,
		PhotoURLs: append([]string{}, p.PhotoURLs...),
	}
}

// FromProjection maps a projection into a transport pet enriched with metadata.
func FromProjection(projection *petstypes.PetProjection) Pet {
	pet := FromDomainPet(projection.Entity)
	pet.CreatedAt = projection.Metadata.CreatedAt
	pet.UpdatedAt = projection.Metadata.UpdatedAt
	return pet
}

// FromProjectionList maps a slice of projections into transport pets with metadata.
func FromProjectionList(list []*petstypes.PetProjection) []Pet {
	result := make([]Pet, 0, len(list))
	for _, projection := range list {
		result = append(result, FromProjection(projection))
	}
	return result
}

func toTagInputs(tags []Tag) []petstypes.TagInput {
	if len(tags) == 0 {
		return nil
	}
	result := make([]petstypes.TagInput, 0, len(tags))
	for _, tag := range tags {
		result = append(result, petstypes.TagInput{ID: tag.ID, Name: tag.Name})
	}
	return result
}
