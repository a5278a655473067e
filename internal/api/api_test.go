package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/db"
	"foodgram/internal/domain"
	"foodgram/internal/media"
	"foodgram/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var pixel = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

var pixelURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(pixel)

type testEnv struct {
	t         *testing.T
	router    *gin.Engine
	deps      *Deps
	redis     *miniredis.Miniredis
	mediaRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	gdb, err := db.Open("sqlite", dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	root := t.TempDir()
	deps := &Deps{
		Store:       store.New(gdb),
		Redis:       rdb,
		Media:       media.NewLocalStore(root, "/media/"),
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		CacheTTL:    time.Minute,
		PageSize:    6,
		MaxPageSize: 100,
	}
	return &testEnv{
		t:         t,
		router:    NewRouter(deps, RouterOptions{MediaURL: "/media/", MediaRoot: root}),
		deps:      deps,
		redis:     mr,
		mediaRoot: root,
	}
}

// do sends a JSON request, authenticating with token when it is not empty
func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// signUp registers and logs in a user, returning its id and token
func (e *testEnv) signUp(name string) (uint, string) {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/users/", "", gin.H{
		"email":      name + "@example.com",
		"username":   name,
		"first_name": name,
		"last_name":  "Test",
		"password":   "s3cret-pass",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[UserResponse](e.t, w)

	w = e.do(http.MethodPost, "/api/auth/token/login/", "", gin.H{
		"email":    name + "@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return user.ID, decode[AuthResponse](e.t, w).Token
}

func (e *testEnv) ingredient(name, unit string) uint {
	e.t.Helper()
	i := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(e.t, e.deps.Store.DB().Create(i).Error)
	return i.ID
}

func (e *testEnv) tag(slug string) uint {
	e.t.Helper()
	tag := &domain.Tag{Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(e.t, e.deps.Store.CreateTag(context.Background(), tag))
	return tag.ID
}

func recipeBody(name string, tags []uint, ingredients ...gin.H) gin.H {
	if tags == nil {
		tags = []uint{}
	}
	return gin.H{
		"name":         name,
		"text":         "Mix and bake.",
		"cooking_time": 60,
		"image":        pixelURI,
		"tags":         tags,
		"ingredients":  ingredients,
	}
}

// createRecipe posts a recipe as token and returns its read shape
func (e *testEnv) createRecipe(token string, body gin.H) RecipeResponse {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/recipes/", token, body)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[RecipeResponse](e.t, w)
}
