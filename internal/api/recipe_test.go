package api

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealdex/backend/internal/models"
)

func TestListRecipesRequiresAuth(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "GET", "/api/v1/recipes", "", nil)
	assert.Equal(t, 401, w.Code)
}

func TestListRecipes(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	first := createTestRecipe(t, engine, token, nil)
	second := createTestRecipe(t, engine, token, map[string]interface{}{"title": "Second recipe"})

	w := doJSON(t, engine, "GET", "/api/v1/recipes", token, nil)
	require.Equal(t, 200, w.Code)

	var resp struct {
		Recipes []RecipeResponse `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recipes, 2)

	// Most recently created first.
	assert.Equal(t, second, resp.Recipes[0].ID)
	assert.Equal(t, first, resp.Recipes[1].ID)

	// The list form omits description.
	var raw struct {
		Recipes []map[string]interface{} `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw.Recipes[0], "description")
}

func TestListRecipesLimitedToUser(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	otherToken := registerTestUser(t, engine, "other@example.com")

	createTestRecipe(t, engine, token, nil)
	createTestRecipe(t, engine, otherToken, map[string]interface{}{"title": "Someone else's"})

	w := doJSON(t, engine, "GET", "/api/v1/recipes", token, nil)
	require.Equal(t, 200, w.Code)

	var resp struct {
		Recipes []RecipeResponse `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Sample title", resp.Recipes[0].Title)
}

func TestGetRecipeDetail(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "GET", fmt.Sprintf("/api/v1/recipes/%d", id), token, nil)
	require.Equal(t, 200, w.Code)

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "Sample title", resp.Title)
	assert.Equal(t, 4, resp.TimeMinutes)
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("1.50")))
	assert.Equal(t, "Sample description", resp.Description)
	assert.Equal(t, "https://example.com/recipe.pdf", resp.Link)
}

func TestGetRecipeOtherUser(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	otherToken := registerTestUser(t, engine, "other@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "GET", fmt.Sprintf("/api/v1/recipes/%d", id), otherToken, nil)
	assert.Equal(t, 404, w.Code)
}

func TestCreateRecipe(t *testing.T) {
	engine, db := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, sampleRecipe(nil))
	require.Equal(t, 201, w.Code, w.Body.String())

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sample title", resp.Title)
	assert.Equal(t, 4, resp.TimeMinutes)
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("1.50")))

	// The stored row belongs to the caller.
	var stored models.Recipe
	require.NoError(t, db.First(&stored, resp.ID).Error)
	var user models.User
	require.NoError(t, db.Where("email = ?", "user@example.com").First(&user).Error)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestCreateRecipeDefaultsTimeMinutes(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	payload := sampleRecipe(nil)
	delete(payload, "time_minutes")
	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, payload)
	require.Equal(t, 201, w.Code, w.Body.String())

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TimeMinutes)
}

func TestCreateRecipeMissingRequiredFields(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	payload := sampleRecipe(nil)
	delete(payload, "price")
	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, payload)
	require.Equal(t, 400, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "price")
}

func TestCreateRecipeInvalidPrice(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	for _, price := range []string{"12345.67", "1.505", "-1.50"} {
		w := doJSON(t, engine, "POST", "/api/v1/recipes", token, sampleRecipe(map[string]interface{}{"price": price}))
		assert.Equal(t, 400, w.Code, "price %s should be rejected", price)
	}
}

func TestCreateRecipeWithTags(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	tag1 := createTestTag(t, engine, token, "tag1")
	tag2 := createTestTag(t, engine, token, "tag2")

	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, sampleRecipe(map[string]interface{}{
		"tags": []uint{tag1, tag2},
	}))
	require.Equal(t, 201, w.Code, w.Body.String())

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uint{tag1, tag2}, resp.TagIDs)
}

func TestCreateRecipeUnknownTag(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, sampleRecipe(map[string]interface{}{
		"tags": []uint{99},
	}))
	assert.Equal(t, 400, w.Code)
}

func TestPartialUpdateRecipe(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "PATCH", fmt.Sprintf("/api/v1/recipes/%d", id), token, map[string]interface{}{
		"title":        "New title",
		"time_minutes": 120,
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "New title", resp.Title)
	assert.Equal(t, 120, resp.TimeMinutes)

	// Fields absent from the payload stay untouched.
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("1.50")))
	assert.Equal(t, "Sample description", resp.Description)
	assert.Equal(t, "https://example.com/recipe.pdf", resp.Link)
}

func TestUpdateCannotChangeOwner(t *testing.T) {
	engine, db := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	registerTestUser(t, engine, "newuser@example.com")
	id := createTestRecipe(t, engine, token, nil)

	var newUser models.User
	require.NoError(t, db.Where("email = ?", "newuser@example.com").First(&newUser).Error)

	w := doJSON(t, engine, "PATCH", fmt.Sprintf("/api/v1/recipes/%d", id), token, map[string]interface{}{
		"user_id": newUser.ID.String(),
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var stored models.Recipe
	require.NoError(t, db.First(&stored, id).Error)
	var owner models.User
	require.NoError(t, db.Where("email = ?", "user@example.com").First(&owner).Error)
	assert.Equal(t, owner.ID, stored.UserID)
}

func TestFullUpdateRecipe(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "PUT", fmt.Sprintf("/api/v1/recipes/%d", id), token, map[string]interface{}{
		"title":        "New title",
		"time_minutes": 133,
		"price":        "1.00",
		"description":  "New description",
		"link":         "https://newlink.com",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "New title", resp.Title)
	assert.Equal(t, 133, resp.TimeMinutes)
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("1.00")))
	assert.Equal(t, "New description", resp.Description)
	assert.Equal(t, "https://newlink.com", resp.Link)
}

func TestFullUpdateMissingRequiredField(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "PUT", fmt.Sprintf("/api/v1/recipes/%d", id), token, map[string]interface{}{
		"title":        "New title",
		"time_minutes": 133,
		"description":  "New description",
	})
	require.Equal(t, 400, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "price")
}

func TestUpdateOtherUsersRecipe(t *testing.T) {
	engine, db := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	otherToken := registerTestUser(t, engine, "other@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "PATCH", fmt.Sprintf("/api/v1/recipes/%d", id), otherToken, map[string]interface{}{
		"title": "Hijacked",
	})
	assert.Equal(t, 404, w.Code)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, id).Error)
	assert.Equal(t, "Sample title", stored.Title)
}

func TestDeleteRecipe(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "DELETE", fmt.Sprintf("/api/v1/recipes/%d", id), token, nil)
	assert.Equal(t, 204, w.Code)

	// Both get and delete now report not found.
	w = doJSON(t, engine, "GET", fmt.Sprintf("/api/v1/recipes/%d", id), token, nil)
	assert.Equal(t, 404, w.Code)
	w = doJSON(t, engine, "DELETE", fmt.Sprintf("/api/v1/recipes/%d", id), token, nil)
	assert.Equal(t, 404, w.Code)
}

func TestDeleteOtherUsersRecipe(t *testing.T) {
	engine, db := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")
	otherToken := registerTestUser(t, engine, "other@example.com")
	id := createTestRecipe(t, engine, token, nil)

	w := doJSON(t, engine, "DELETE", fmt.Sprintf("/api/v1/recipes/%d", id), otherToken, nil)
	assert.Equal(t, 404, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReplaceTagsOnUpdate(t *testing.T) {
	engine, _ := setupTestRouter(t)
	token := registerTestUser(t, engine, "user@example.com")

	tag1 := createTestTag(t, engine, token, "breakfast")
	tag2 := createTestTag(t, engine, token, "dinner")
	id := createTestRecipe(t, engine, token, map[string]interface{}{"tags": []uint{tag1}})

	w := doJSON(t, engine, "PATCH", fmt.Sprintf("/api/v1/recipes/%d", id), token, map[string]interface{}{
		"tags": []uint{tag2},
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var resp RecipeDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uint{tag2}, resp.TagIDs)
}
