package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTagTestApp(tagRepo *MockAttributeRepository[models.Tag]) (*fiber.App, *Server) {
	s := &Server{config: testConfig(), tagRepo: tagRepo}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Get("/recipe/tags", s.GetTags)
	app.Post("/recipe/tags", s.CreateTag)
	app.Get("/recipe/tags/:id", s.GetTag)
	app.Patch("/recipe/tags/:id", s.UpdateTag)
	app.Delete("/recipe/tags/:id", s.DeleteTag)
	return app, s
}

func TestGetTags(t *testing.T) {
	tagRepo := new(MockAttributeRepository[models.Tag])
	app, _ := newTagTestApp(tagRepo)

	tagRepo.On("List", mock.Anything, uint(1), false).
		Return([]models.Tag{{ID: 2, Name: "Vegan", UserID: 1}, {ID: 1, Name: "Dessert", UserID: 1}}, nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipe/tags", nil))
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var tags []map[string]any
	require.NoError(t, json.Unmarshal(raw, &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "Vegan", tags[0]["name"])
	// Owner is internal and never serialized.
	_, hasUserID := tags[0]["user_id"]
	assert.False(t, hasUserID)
}

func TestGetTagsAssignedOnly(t *testing.T) {
	tagRepo := new(MockAttributeRepository[models.Tag])
	app, _ := newTagTestApp(tagRepo)

	tagRepo.On("List", mock.Anything, uint(1), true).Return([]models.Tag{}, nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipe/tags?assigned_only=1", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	tagRepo.AssertCalled(t, "List", mock.Anything, uint(1), true)
}

func TestCreateTag(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(tagRepo *MockAttributeRepository[models.Tag])
		expectedStatus int
	}{
		{
			name: "Success",
			body: `{"name":"Vegan"}`,
			mockSetup: func(tagRepo *MockAttributeRepository[models.Tag]) {
				tagRepo.On("Create", mock.Anything, mock.MatchedBy(func(tag *models.Tag) bool {
					return tag.Name == "Vegan" && tag.UserID == 1
				})).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Blank name",
			body:           `{"name":"  "}`,
			mockSetup:      func(tagRepo *MockAttributeRepository[models.Tag]) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid body",
			body:           `nope`,
			mockSetup:      func(tagRepo *MockAttributeRepository[models.Tag]) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagRepo := new(MockAttributeRepository[models.Tag])
			tt.mockSetup(tagRepo)
			app, _ := newTagTestApp(tagRepo)

			resp, _ := app.Test(jsonRequest(http.MethodPost, "/recipe/tags", tt.body))
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus != http.StatusCreated {
				tagRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGetTagNotFoundForOtherUser(t *testing.T) {
	tagRepo := new(MockAttributeRepository[models.Tag])
	app, _ := newTagTestApp(tagRepo)

	tagRepo.On("GetByID", mock.Anything, uint(9), uint(1)).
		Return(nil, models.NewNotFoundError("Tag", 9))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipe/tags/9", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTag(t *testing.T) {
	tagRepo := new(MockAttributeRepository[models.Tag])
	app, _ := newTagTestApp(tagRepo)

	stored := &models.Tag{ID: 3, Name: "Old", UserID: 1}
	tagRepo.On("GetByID", mock.Anything, uint(3), uint(1)).Return(stored, nil)
	tagRepo.On("Update", mock.Anything, stored).Return(nil)

	resp, _ := app.Test(jsonRequest(http.MethodPatch, "/recipe/tags/3", `{"name":"New"}`))
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "New", body["name"])
}

func TestDeleteTag(t *testing.T) {
	tagRepo := new(MockAttributeRepository[models.Tag])
	app, _ := newTagTestApp(tagRepo)

	tagRepo.On("Delete", mock.Anything, uint(3), uint(1)).Return(nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/recipe/tags/3", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTagInvalidIDParam(t *testing.T) {
	tagRepo := new(MockAttributeRepository[models.Tag])
	app, _ := newTagTestApp(tagRepo)

	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/recipe/tags/abc", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetIngredients(t *testing.T) {
	ingredientRepo := new(MockAttributeRepository[models.Ingredient])
	s := &Server{config: testConfig(), ingredientRepo: ingredientRepo}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Get("/recipe/ingredients", s.GetIngredients)

	ingredientRepo.On("List", mock.Anything, uint(1), false).
		Return([]models.Ingredient{{ID: 1, Name: "Salt", UserID: 1}}, nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipe/ingredients", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
