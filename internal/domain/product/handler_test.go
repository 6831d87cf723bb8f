package product

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productcatalog/internal/domain/upload"
	"productcatalog/internal/pkg/flash"
	"productcatalog/internal/web"
)

type testApp struct {
	router *gin.Engine
	repo   Repository
	store  *upload.Store
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepository(setupTestDB(t))
	store := upload.NewStore(filepath.Join(t.TempDir(), "public", "images"), "/images", 1<<20)

	tmpl, err := web.Templates(store.URL)
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(flash.Middleware("test_session", "0123456789abcdef", false))
	RegisterRoutes(r, NewHandler(NewService(repo, store), store.MaxSize()))

	return &testApp{router: r, repo: repo, store: store}
}

func pngData(seed byte) []byte {
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	data[len(data)-1] = seed
	return data
}

func productFields(name string) map[string]string {
	return map[string]string{
		"name":        name,
		"brand":       "Acme",
		"category":    "Phones",
		"price":       "199.99",
		"description": "A dependable phone with a long battery life.",
	}
}

func doMultipart(t *testing.T, r http.Handler, path string, fields map[string]string, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile(ImageField, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func doGet(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) all(t *testing.T) []Product {
	t.Helper()
	products, err := a.repo.FindAll(context.Background())
	require.NoError(t, err)
	return products
}

func (a *testApp) create(t *testing.T, name string, seed byte) *Product {
	t.Helper()
	rr := doMultipart(t, a.router, "/products/create", productFields(name), name+".png", pngData(seed))
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
	products := a.all(t)
	require.NotEmpty(t, products)
	return &products[0]
}

func TestHandler_CreateStoresImageAndRow(t *testing.T) {
	app := setupTestApp(t)

	rr := doMultipart(t, app.router, "/products/create", productFields("Phone"), "phone.png", pngData(1))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/products", rr.Header().Get("Location"))

	products := app.all(t)
	require.Len(t, products, 1)
	p := products[0]

	name := p.Image()
	require.NotEmpty(t, name)
	assert.True(t, app.store.Exists(name), "stored image must exist")
	assert.True(t, strings.HasSuffix(name, "_phone.png"))

	prefix := strings.SplitN(name, "_", 2)[0]
	millis, err := strconv.ParseInt(prefix, 10, 64)
	require.NoError(t, err)
	assert.Equal(t, millis, p.CreatedAt.UnixMilli(), "file name prefix and created_at share one instant")

	// flash message is shown once on the list page
	list := doGet(app.router, "/products", rr.Result().Cookies()...)
	assert.Contains(t, list.Body.String(), "created.")
}

func TestHandler_CreateWithEmptyImageRerendersForm(t *testing.T) {
	app := setupTestApp(t)

	rr := doMultipart(t, app.router, "/products/create", productFields("Phone"), "empty.png", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "The image file is required!")
	assert.Contains(t, rr.Body.String(), `value="Phone"`)

	rr = doMultipart(t, app.router, "/products/create", productFields("Phone"), "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Empty(t, app.all(t))
	images, err := app.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestHandler_CreateWithInvalidFields(t *testing.T) {
	app := setupTestApp(t)
	fields := productFields("")
	fields["price"] = "-1"

	rr := doMultipart(t, app.router, "/products/create", fields, "phone.png", pngData(1))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "The name is required")
	assert.Empty(t, app.all(t))
}

func TestHandler_EditWithoutImageKeepsFile(t *testing.T) {
	app := setupTestApp(t)
	p := app.create(t, "phone", 1)
	oldName := p.Image()

	fields := productFields("Renamed")
	fields["price"] = "149.50"
	rr := doMultipart(t, app.router, "/products/edit?id="+strconv.FormatInt(p.ID, 10), fields, "", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	updated, err := app.repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "149.50", updated.Price.StringFixed(2))
	assert.Equal(t, oldName, updated.Image())
	assert.True(t, app.store.Exists(oldName))
	assert.Equal(t, p.CreatedAt.UnixMilli(), updated.CreatedAt.UnixMilli())
}

func TestHandler_EditWithImageReplacesFile(t *testing.T) {
	app := setupTestApp(t)
	p := app.create(t, "phone", 1)
	oldName := p.Image()

	rr := doMultipart(t, app.router, "/products/edit?id="+strconv.FormatInt(p.ID, 10), productFields("phone"), "phone.png", pngData(2))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	updated, err := app.repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	newName := updated.Image()

	assert.NotEqual(t, oldName, newName)
	assert.False(t, app.store.Exists(oldName), "old image must be removed")
	assert.True(t, app.store.Exists(newName), "new image must exist")
}

func TestHandler_EditValidationShowsStoredProduct(t *testing.T) {
	app := setupTestApp(t)
	p := app.create(t, "phone", 1)

	fields := productFields("Changed")
	fields["description"] = "short"
	rr := doMultipart(t, app.router, "/products/edit?id="+strconv.FormatInt(p.ID, 10), fields, "", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "at least 10 characters")
	assert.Contains(t, body, `value="`+strconv.FormatInt(p.ID, 10)+`"`)
	assert.Contains(t, body, `value="Changed"`)

	unchanged, err := app.repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "phone", unchanged.Name)
}

func TestHandler_ShowEdit(t *testing.T) {
	app := setupTestApp(t)
	p := app.create(t, "phone", 1)

	rr := doGet(app.router, "/products/edit?id="+strconv.FormatInt(p.ID, 10))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="phone"`)
	assert.Contains(t, rr.Body.String(), "/images/"+p.Image())

	for _, path := range []string{"/products/edit?id=999", "/products/edit?id=abc", "/products/edit"} {
		rr = doGet(app.router, path)
		assert.Equal(t, http.StatusSeeOther, rr.Code, path)
		assert.Equal(t, "/products", rr.Header().Get("Location"), path)
	}
}

func TestHandler_DeleteRemovesRowAndFile(t *testing.T) {
	app := setupTestApp(t)
	p := app.create(t, "phone", 1)
	name := p.Image()

	rr := doGet(app.router, "/products/delete?id="+strconv.FormatInt(p.ID, 10))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	_, err := app.repo.FindByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.False(t, app.store.Exists(name))
}

func TestHandler_ListOrdersByIDDesc(t *testing.T) {
	app := setupTestApp(t)
	app.create(t, "one", 1)
	app.create(t, "two", 2)
	app.create(t, "three", 3)

	products := app.all(t)
	require.Len(t, products, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{products[0].ID, products[1].ID, products[2].ID})

	rr := doGet(app.router, "/products")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	i3 := strings.Index(body, `id="product-3"`)
	i2 := strings.Index(body, `id="product-2"`)
	i1 := strings.Index(body, `id="product-1"`)
	require.True(t, i3 >= 0 && i2 >= 0 && i1 >= 0)
	assert.True(t, i3 < i2 && i2 < i1)
}

func TestHandler_UnknownIDIsNoOp(t *testing.T) {
	app := setupTestApp(t)
	p := app.create(t, "phone", 1)

	rr := doMultipart(t, app.router, "/products/edit?id=999", productFields("ghost"), "ghost.png", pngData(9))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/products", rr.Header().Get("Location"))

	rr = doGet(app.router, "/products/delete?id=999")
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	products := app.all(t)
	require.Len(t, products, 1)
	assert.Equal(t, "phone", products[0].Name)

	images, err := app.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, p.Image(), images[0].Name)
}

func TestHandler_RootRedirects(t *testing.T) {
	app := setupTestApp(t)

	rr := doGet(app.router, "/")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/products", rr.Header().Get("Location"))

	rr = doGet(app.router, "/products/create")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="imageFile"`)
}

func TestHandler_CreateAcceptsAnyNonEmptyFile(t *testing.T) {
	app := setupTestApp(t)

	rr := doMultipart(t, app.router, "/products/create", productFields("Manual"), "manual.pdf", []byte("hello, plain text body"))
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())

	products := app.all(t)
	require.Len(t, products, 1)
	name := products[0].Image()
	assert.True(t, strings.HasSuffix(name, "_manual.pdf"), name)
	assert.True(t, app.store.Exists(name))
}

func TestHandler_CreateRejectsOutOfRangePrice(t *testing.T) {
	app := setupTestApp(t)
	fields := productFields("Phone")
	fields["price"] = "123456789012345.99"

	rr := doMultipart(t, app.router, "/products/create", fields, "phone.png", pngData(1))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "The price must be a non-negative amount below 100000000")
	assert.Empty(t, app.all(t))

	images, err := app.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, images)
}
