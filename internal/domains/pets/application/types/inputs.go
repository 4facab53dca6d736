package types

// PetIdentifier addresses a single pet aggregate.
type PetIdentifier struct {
	ID int64
}

// CategoryInput carries an inbound category reference.
type CategoryInput struct {
	ID   int64
	Name string
}

// TagInput carries an inbound tag reference.
type TagInput struct {
	ID   int64
	Name string
}

// AddPetInput captures the create flow. Status may be empty or "available";
// order-path statuses are rejected by the use case.
type AddPetInput struct {
	Name      string
	Price     float64
	Status    string
	Category  *CategoryInput
	Tags      []TagInput
	PhotoURLs []string
}

// UpdatePetInput captures a partial mutation, preserving field presence.
type UpdatePetInput struct {
	ID        int64
	Name      *string
	Price     *float64
	Category  *CategoryInput
	Tags      *[]TagInput
	PhotoURLs *[]string
}

// UpdatePetStatusInput captures the administrative status path.
type UpdatePetStatusInput struct {
	ID     int64
	Status string
}

// FindPetsByStatusInput filters pets by any of the provided statuses.
type FindPetsByStatusInput struct {
	Statuses []string
}
