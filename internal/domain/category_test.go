package domain

import (
	"testing"

	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestCategoryDomain() CategoryDomain {
	return NewCategoryDomain(
		repository.NewCategoryRepository(),
		repository.NewUserRepository(),
	)
}

func Test_categoryDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	categoryDomain := newTestCategoryDomain()

	resp, err := categoryDomain.Create(ctx, &model.CreateCategoryRequest{Name: "Electronics"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Category.ID)
	require.Equal(t, "Electronics", resp.Category.Name)
	require.Equal(t, testutil.User1.ID, resp.Category.CreatedBy)

	_, err = categoryDomain.Create(ctx, &model.CreateCategoryRequest{Name: "Electronics"})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Duplicated category name"), err)

	_, err = categoryDomain.Create(ctx, &model.CreateCategoryRequest{Name: ""})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow empty category name"), err)

	// Only a global admin can manage categories.
	userCtx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(userCtx)
	_, err = categoryDomain.Create(userCtx, &model.CreateCategoryRequest{Name: "Cars"})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
}

func Test_categoryDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	categoryDomain := newTestCategoryDomain()

	_, err := categoryDomain.Create(ctx, &model.CreateCategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	resp, err := categoryDomain.GetList(ctx, &model.GetListCategoryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Categories, 2)
}

func Test_categoryDomain_UpdateByID(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	categoryDomain := newTestCategoryDomain()

	_, err := categoryDomain.UpdateByID(ctx, &model.UpdateCategoryByIDRequest{
		ID:   testutil.Category1.ID,
		Name: "Supercars",
	})
	require.NoError(t, err)

	resp, err := categoryDomain.GetList(ctx, &model.GetListCategoryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Categories, 1)
	require.Equal(t, "Supercars", resp.Categories[0].Name)

	_, err = categoryDomain.UpdateByID(ctx, &model.UpdateCategoryByIDRequest{
		ID:   "invalid-id",
		Name: "Supercars",
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found category"), err)
}

func Test_categoryDomain_DeleteByID(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	categoryDomain := newTestCategoryDomain()

	_, err := categoryDomain.DeleteByID(ctx, &model.DeleteCategoryByIDRequest{
		ID: testutil.Category1.ID,
	})
	require.NoError(t, err)

	resp, err := categoryDomain.GetList(ctx, &model.GetListCategoryRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Categories)

	_, err = categoryDomain.DeleteByID(ctx, &model.DeleteCategoryByIDRequest{
		ID: testutil.Category1.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found category"), err)
}
