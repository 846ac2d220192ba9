package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = &DataAccessError{Op: "test", Kind: "connection", Err: errors.New("connection refused")}

func requireServiceError(t *testing.T, err error, cause string) {
	t.Helper()
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, cause, svcErr.Cause)
	assert.ErrorIs(t, err, errStore)
	assert.NotErrorIs(t, err, ErrBookNotFound)
}

func TestService_ListAllBooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		books := []Book{{ID: 1, Title: "Dune", Author: "Herbert", Price: 19.99}}
		mockRepo.EXPECT().ListAll(ctx).Return(books, nil)

		got, err := service.ListAllBooks(ctx)

		require.NoError(t, err)
		assert.Equal(t, books, got)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().ListAll(ctx).Return(nil, errStore)

		got, err := service.ListAllBooks(ctx)

		assert.Nil(t, got)
		requireServiceError(t, err, "failed to list books")
	})
}

func TestService_InsertBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("success ignores id", func(t *testing.T) {
		mockRepo.EXPECT().Insert(ctx, "Dune", "Herbert", 19.99).Return(true, nil)

		ok, err := service.InsertBook(ctx, Book{ID: 42, Title: "Dune", Author: "Herbert", Price: 19.99})

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().Insert(ctx, "Dune", "Herbert", 19.99).Return(false, errStore)

		ok, err := service.InsertBook(ctx, Book{Title: "Dune", Author: "Herbert", Price: 19.99})

		assert.False(t, ok)
		requireServiceError(t, err, "failed to insert a book")
	})
}

func TestService_UpdateBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	existing := Book{ID: 1, Title: "Dune", Author: "Herbert", Price: 19.99}
	revised := Book{ID: 1, Title: "Dune (rev)", Author: "Herbert", Price: 24.99}

	t.Run("success", func(t *testing.T) {
		gomock.InOrder(
			mockRepo.EXPECT().GetByID(ctx, int64(1)).Return(existing, true, nil),
			mockRepo.EXPECT().Update(ctx, int64(1), "Dune (rev)", "Herbert", 24.99).Return(true, nil),
		)

		ok, err := service.UpdateBook(ctx, revised)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not found issues no update", func(t *testing.T) {
		// Any Update call would fail the test as unexpected.
		mockRepo.EXPECT().GetByID(ctx, int64(1)).Return(Book{}, false, nil)

		ok, err := service.UpdateBook(ctx, revised)

		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrBookNotFound)
		var svcErr *ServiceError
		assert.False(t, errors.As(err, &svcErr))
	})

	t.Run("existence check fails", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(1)).Return(Book{}, false, errStore)

		ok, err := service.UpdateBook(ctx, revised)

		assert.False(t, ok)
		requireServiceError(t, err, "failed to update a book")
	})

	t.Run("update fails", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(1)).Return(existing, true, nil)
		mockRepo.EXPECT().Update(ctx, int64(1), "Dune (rev)", "Herbert", 24.99).Return(false, errStore)

		ok, err := service.UpdateBook(ctx, revised)

		assert.False(t, ok)
		requireServiceError(t, err, "failed to update a book")
	})

	t.Run("row vanished between check and update", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(1)).Return(existing, true, nil)
		mockRepo.EXPECT().Update(ctx, int64(1), "Dune (rev)", "Herbert", 24.99).Return(false, nil)

		ok, err := service.UpdateBook(ctx, revised)

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestService_DeleteBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	existing := Book{ID: 7, Title: "Emma", Author: "Austen", Price: 8.5}

	t.Run("success", func(t *testing.T) {
		gomock.InOrder(
			mockRepo.EXPECT().GetByID(ctx, int64(7)).Return(existing, true, nil),
			mockRepo.EXPECT().Delete(ctx, int64(7)).Return(true, nil),
		)

		ok, err := service.DeleteBook(ctx, 7)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not found issues no delete", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(7)).Return(Book{}, false, nil)

		ok, err := service.DeleteBook(ctx, 7)

		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("existence check fails", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(7)).Return(Book{}, false, errStore)

		ok, err := service.DeleteBook(ctx, 7)

		assert.False(t, ok)
		requireServiceError(t, err, "failed to delete book")
	})

	t.Run("delete fails", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(7)).Return(existing, true, nil)
		mockRepo.EXPECT().Delete(ctx, int64(7)).Return(false, errStore)

		ok, err := service.DeleteBook(ctx, 7)

		assert.False(t, ok)
		requireServiceError(t, err, "failed to delete book")
	})
}

func TestService_GetBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		want := Book{ID: 3, Title: "Ulysses", Author: "Joyce", Price: 12}
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(want, true, nil)

		got, found, err := service.GetBook(ctx, 3)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, want, got)
	})

	t.Run("absent", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Book{}, false, nil)

		_, found, err := service.GetBook(ctx, 3)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Book{}, false, errStore)

		_, found, err := service.GetBook(ctx, 3)

		assert.False(t, found)
		requireServiceError(t, err, "failed to retrieve book")
	})
}

func TestServiceError_Error(t *testing.T) {
	err := &ServiceError{Cause: "failed to list books", Err: errors.New("boom")}
	assert.Equal(t, "failed to list books: boom", err.Error())
	assert.Equal(t, "failed to list books", (&ServiceError{Cause: "failed to list books"}).Error())
}
