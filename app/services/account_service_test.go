package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/pkg/auth"
)

type fakeAccounts struct {
	byEmail map[string]*models.User
	byID    map[primitive.ObjectID]*models.User
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byEmail: map[string]*models.User{},
		byID:    map[primitive.ObjectID]*models.User{},
	}
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeAccounts) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeAccounts) Create(_ context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	user.ID = primitive.NewObjectID()
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeAccounts) Update(_ context.Context, user *models.User) error {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func TestRegisterNormalizesEmailAndHashes(t *testing.T) {
	store := newFakeAccounts()
	svc := NewAccountService(store)

	user, token, err := svc.Register(context.Background(), "Jo Reed", "  Jo@Example.COM ", "hunter22", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "jo@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "hunter22", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "hunter22"))

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newFakeAccounts()
	svc := NewAccountService(store)

	_, _, err := svc.Register(context.Background(), "Jo", "jo@example.com", "hunter22", "")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "Other Jo", "JO@example.com", "hunter23", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	store := newFakeAccounts()
	svc := NewAccountService(store)

	_, _, err := svc.Register(context.Background(), "Jo", "jo@example.com", "hunter22", "")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "Jo@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", user.Email)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), "jo@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileReplacesAddresses(t *testing.T) {
	store := newFakeAccounts()
	svc := NewAccountService(store)

	user, _, err := svc.Register(context.Background(), "Jo", "jo@example.com", "hunter22", "")
	require.NoError(t, err)

	addrs := []models.Address{
		{AddressLine1: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701", IsDefault: true},
	}
	name := "Jo R."
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Name:      &name,
		Addresses: &addrs,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jo R.", updated.Name)
	require.Len(t, updated.Addresses, 1)
	assert.Equal(t, "USA", updated.Addresses[0].Country)

	// A second replace drops the old entry rather than merging.
	addrs2 := []models.Address{
		{AddressLine1: "9 Elm St", City: "Dallas", State: "TX", ZipCode: "75201"},
	}
	updated, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Addresses: &addrs2})
	require.NoError(t, err)
	require.Len(t, updated.Addresses, 1)
	assert.Equal(t, "9 Elm St", updated.Addresses[0].AddressLine1)
}

func TestAddAddressAppends(t *testing.T) {
	store := newFakeAccounts()
	svc := NewAccountService(store)

	user, _, err := svc.Register(context.Background(), "Jo", "jo@example.com", "hunter22", "")
	require.NoError(t, err)

	updated, err := svc.AddAddress(context.Background(), user.ID, models.Address{
		AddressLine1: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701",
	})
	require.NoError(t, err)
	require.Len(t, updated.Addresses, 1)

	updated, err = svc.AddAddress(context.Background(), user.ID, models.Address{
		AddressLine1: "9 Elm St", City: "Dallas", State: "TX", ZipCode: "75201",
	})
	require.NoError(t, err)
	require.Len(t, updated.Addresses, 2)
}
