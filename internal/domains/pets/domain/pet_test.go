package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPet_Defaults(t *testing.T) {
	pet, err := NewPet(1, "Buddy", 249.99)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, pet.Status)
	assert.Equal(t, "Buddy", pet.Name)
	assert.Equal(t, 249.99, pet.Price)
}

func TestNewPet_Invalid(t *testing.T) {
	_, err := NewPet(1, "   ", 10)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewPet(1, "Buddy", -0.01)
	require.ErrorIs(t, err, ErrNegativePrice)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, status)

	status, err = ParseStatus(" Pending ")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)

	_, err = ParseStatus("adopted")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusAvailable, StatusPending, true},
		{StatusAvailable, StatusWithdrawn, true},
		{StatusAvailable, StatusSold, false},
		{StatusPending, StatusAvailable, true},
		{StatusPending, StatusSold, true},
		{StatusPending, StatusWithdrawn, false},
		{StatusWithdrawn, StatusAvailable, true},
		{StatusWithdrawn, StatusPending, false},
		{StatusSold, StatusAvailable, false},
		{StatusSold, StatusPending, false},
		{StatusSold, StatusWithdrawn, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionTo(t *testing.T) {
	pet, err := NewPet(1, "Buddy", 100)
	require.NoError(t, err)

	require.NoError(t, pet.TransitionTo(StatusPending))
	require.NoError(t, pet.TransitionTo(StatusSold))

	err = pet.TransitionTo(StatusAvailable)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusSold, pet.Status)
}

func TestOrderPath(t *testing.T) {
	assert.True(t, OrderPath(StatusPending))
	assert.True(t, OrderPath(StatusSold))
	assert.False(t, OrderPath(StatusAvailable))
	assert.False(t, OrderPath(StatusWithdrawn))
}

func TestClone_Isolated(t *testing.T) {
	pet, err := NewPet(1, "Buddy", 100)
	require.NoError(t, err)
	pet.UpdateCategory(&Category{ID: 2, Name: "Dogs"})
	pet.ReplaceTags([]Tag{{ID: 3, Name: "fluffy"}})

	clone := pet.Clone()
	clone.Category.Name = "Cats"
	clone.Tags[0].Name = "short-haired"

	assert.Equal(t, "Dogs", pet.Category.Name)
	assert.Equal(t, "fluffy", pet.Tags[0].Name)
}
