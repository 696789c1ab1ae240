package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/testutil"
	"backoffice/internal/users"
)

func registration(email, phone string, age int, city, country string) users.Registration {
	return users.Registration{
		FirstName: "Ana",
		LastName:  "Quispe",
		Age:       age,
		Phone:     phone,
		Email:     email,
		Password:  "secret",
		City:      city,
		Country:   country,
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := users.NewStore(testutil.NewDB(t))
	ctx := context.Background()

	u, err := store.Register(ctx, registration(" Ana@Example.com ", "111", 28, "Lima", "Peru"))
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotEqual(t, "secret", u.PasswordHash)

	got, err := store.Authenticate(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = store.Authenticate(ctx, "ana@example.com", "nope")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	_, err = store.Authenticate(ctx, "ghost@example.com", "secret")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicatesAndMissingFields(t *testing.T) {
	store := users.NewStore(testutil.NewDB(t))
	ctx := context.Background()

	_, err := store.Register(ctx, registration("a@x.com", "1", 20, "Lima", "Peru"))
	require.NoError(t, err)

	_, err = store.Register(ctx, registration("A@x.com", "2", 20, "Lima", "Peru"))
	assert.ErrorIs(t, err, users.ErrDuplicate)
	_, err = store.Register(ctx, registration("b@x.com", "1", 20, "Lima", "Peru"))
	assert.ErrorIs(t, err, users.ErrDuplicate)

	_, err = store.Register(ctx, registration("", "3", 20, "Lima", "Peru"))
	assert.ErrorIs(t, err, users.ErrInvalid)
	_, err = store.Register(ctx, registration("c@x.com", "3", -1, "Lima", "Peru"))
	assert.ErrorIs(t, err, users.ErrInvalid)
}

func TestListFilters(t *testing.T) {
	store := users.NewStore(testutil.NewDB(t))
	ctx := context.Background()
	for _, r := range []users.Registration{
		registration("a@x.com", "1", 18, "Lima", "Peru"),
		registration("b@x.com", "2", 35, "Cusco", "Peru"),
		registration("c@x.com", "3", 50, "Quito", "Ecuador"),
	} {
		_, err := store.Register(ctx, r)
		require.NoError(t, err)
	}

	peru, err := store.List(ctx, users.Filter{Country: "Peru"})
	require.NoError(t, err)
	assert.Len(t, peru, 2)

	lo, hi := 30, 40
	mid, err := store.List(ctx, users.Filter{MinAge: &lo, MaxAge: &hi})
	require.NoError(t, err)
	require.Len(t, mid, 1)
	assert.Equal(t, "b@x.com", mid[0].Email)

	cusco, err := store.List(ctx, users.Filter{Country: "Peru", City: "Cusco"})
	require.NoError(t, err)
	assert.Len(t, cusco, 1)

	byEmail, err := store.List(ctx, users.Filter{Email: "C@X.com"})
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)
}

func TestUpdateAndDelete(t *testing.T) {
	store := users.NewStore(testutil.NewDB(t))
	ctx := context.Background()
	a, err := store.Register(ctx, registration("a@x.com", "1", 18, "Lima", "Peru"))
	require.NoError(t, err)
	_, err = store.Register(ctx, registration("b@x.com", "2", 18, "Lima", "Peru"))
	require.NoError(t, err)

	_, err = store.Update(ctx, a.ID, users.Changes{})
	assert.ErrorIs(t, err, users.ErrNoChanges)

	taken := "b@x.com"
	_, err = store.Update(ctx, a.ID, users.Changes{Email: &taken})
	assert.ErrorIs(t, err, users.ErrDuplicate)

	same := "a@x.com"
	city, age := "Arequipa", 19
	got, err := store.Update(ctx, a.ID, users.Changes{Email: &same, City: &city, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Arequipa", got.City)
	assert.Equal(t, 19, got.Age)

	_, err = store.Update(ctx, 999, users.Changes{City: &city})
	assert.ErrorIs(t, err, users.ErrNotFound)

	require.NoError(t, store.Delete(ctx, a.ID))
	_, err = store.Get(ctx, a.ID)
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, a.ID), users.ErrNotFound)
}
