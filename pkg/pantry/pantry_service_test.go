package pantry

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/pkg/product"
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	products map[string]string
	err      error
	calls    []string
}

func (f *fakeLookup) Lookup(_ context.Context, barcode string) (*product.Lookup, error) {
	f.calls = append(f.calls, barcode)
	if f.err != nil {
		return nil, f.err
	}
	raw, ok := f.products[barcode]
	if !ok {
		return nil, nil
	}
	return product.ParseLookup(raw), nil
}

type fakeS3 struct {
	uploaded []string
	deleted  []string
}

func (f *fakeS3) UploadFile(_ context.Context, fileName string, file *multipart.FileHeader, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.test/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	const prefix = "https://bucket.test/"
	if len(link) > len(prefix) && link[:len(prefix)] == prefix {
		return link[len(prefix):]
	}
	return ""
}

func newTestService(t *testing.T, lookup *fakeLookup, s3 *fakeS3) *pantryService {
	t.Helper()
	svc := NewPantryService(NewPantryRepository(newTestDB(t)), lookup, nil).(*pantryService)
	if s3 != nil {
		svc.s3 = s3
	}
	svc.now = func() time.Time { return time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC) }
	return svc
}

func onlyItem(t *testing.T, svc PantryService, owner string) domain.PantryItemResponse {
	t.Helper()
	items, err := svc.ListItems(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	return items[0]
}

func TestAddProduct_FoundInDatabase(t *testing.T) {
	lookup := &fakeLookup{products: map[string]string{
		"123": `{"product_name_en":"Oat Milk","labels_tags":["en:vegan"],"ecoscore_grade":"b"}`,
	}}
	svc := newTestService(t, lookup, nil)

	res, err := svc.AddProduct(context.Background(), "alice", domain.AddProductRequest{
		Barcode: " 123 ", Quantity: "3", ExpirationDate: "2025-01-01",
	})
	require.NoError(t, err)
	assert.True(t, res.FoundInDatabase)
	assert.Equal(t, "Oat Milk", res.ProductName)
	assert.Equal(t, []string{"123"}, lookup.calls)

	item := onlyItem(t, svc, "alice")
	assert.Equal(t, "Oat Milk", item.ProductName)
	assert.Equal(t, "yes", item.IsVegan)
	assert.Equal(t, "yes", item.HasPalmOil)
	assert.Equal(t, "b", item.EcoScore)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, domain.StatusExpired, item.Status)
}

func TestAddProduct_AccumulatesAcrossScans(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "alice", domain.AddProductRequest{Barcode: "123", Quantity: "3", ExpirationDate: "2025-01-01"})
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, "alice", domain.AddProductRequest{Barcode: "123", Quantity: "5", ExpirationDate: "2025-01-01"})
	require.NoError(t, err)

	assert.Equal(t, 8, onlyItem(t, svc, "alice").Quantity)
}

func TestAddProduct_LookupFailureDegrades(t *testing.T) {
	svc := newTestService(t, &fakeLookup{err: domain.ErrExternalService}, nil)

	res, err := svc.AddProduct(context.Background(), "alice", domain.AddProductRequest{Barcode: "123", Quantity: "1"})
	require.NoError(t, err)
	assert.False(t, res.FoundInDatabase)

	item := onlyItem(t, svc, "alice")
	assert.Equal(t, product.NoProductName, item.ProductName)
	assert.Equal(t, product.NoInformation, item.EcoScore)
	assert.Equal(t, product.ImageNotAvailable, item.ImageURL)
	assert.Equal(t, "unknown", item.HasPalmOil)
	assert.Equal(t, "unknown", item.IsVegan)
	assert.Equal(t, domain.StatusUndated, item.Status)
}

func TestAddProduct_NoBarcodeSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	svc := newTestService(t, lookup, nil)

	_, err := svc.AddProduct(context.Background(), "alice", domain.AddProductRequest{Quantity: "2"})
	require.NoError(t, err)

	assert.Empty(t, lookup.calls)
	assert.Equal(t, product.OutsideProductName, onlyItem(t, svc, "alice").ProductName)
}

func TestAddProduct_MissingQuantityIsZero(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)

	_, err := svc.AddProduct(context.Background(), "alice", domain.AddProductRequest{Barcode: "123"})
	require.NoError(t, err)

	assert.Equal(t, 0, onlyItem(t, svc, "alice").Quantity)
}

func TestAddProduct_TrimsFields(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)

	res, err := svc.AddProduct(context.Background(), "alice", domain.AddProductRequest{
		Barcode: "123", Quantity: " 3", ExpirationDate: " 2025-01-01 ",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.QuantityAdded)

	item := onlyItem(t, svc, "alice")
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "2025-01-01", item.ExpirationDate)
}

func TestAddProduct_Validation(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)

	_, err := svc.AddProduct(context.Background(), "alice", domain.AddProductRequest{
		Barcode: "123", Quantity: "three", ExpirationDate: "01/01/2025",
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var fieldErrs *domain.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs.Errors, 2)

	_, err = svc.AddProduct(context.Background(), "alice", domain.AddProductRequest{Barcode: "123", Quantity: "-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetDashboard_Stats(t *testing.T) {
	lookup := &fakeLookup{products: map[string]string{
		"vegan":   `{"product_name":"Tofu","labels_tags":["en:vegan","en:no-palm-oil"]}`,
		"regular": `{"product_name":"Biscuits"}`,
	}}
	svc := newTestService(t, lookup, nil)
	ctx := context.Background()

	for _, req := range []domain.AddProductRequest{
		{Barcode: "vegan", Quantity: "2", ExpirationDate: "2025-01-11"},
		{Barcode: "regular", Quantity: "4", ExpirationDate: "2025-01-09"},
		{Barcode: "regular", Quantity: "1", ExpirationDate: "2025-03-01"},
		{Quantity: "1"},
	} {
		_, err := svc.AddProduct(ctx, "alice", req)
		require.NoError(t, err)
	}

	dash, err := svc.GetDashboard(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", dash.Username)
	assert.Len(t, dash.Items, 4)
	assert.Equal(t, domain.DashboardStats{
		TotalItems:        4,
		TotalQuantity:     8,
		VeganItems:        1,
		PalmOilFreeItems:  1,
		ExpiringSoonItems: 1,
		ExpiredItems:      1,
	}, dash.Stats)
}

func TestGetItem_NotFound(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)

	_, err := svc.GetItem(context.Background(), "5b0e7c8e-8f3a-4c1e-9a57-2d3c0e0f1a11")
	assert.ErrorIs(t, err, domain.ErrPantryItemNotFound)
}

func TestUpdateItem_ImageRule(t *testing.T) {
	svc := newTestService(t, &fakeLookup{products: map[string]string{
		"123": `{"product_name":"Oat Milk","image_url":"https://images.example/oat.jpg"}`,
	}}, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "alice", domain.AddProductRequest{Barcode: "123", Quantity: "1"})
	require.NoError(t, err)
	id := onlyItem(t, svc, "alice").ID

	require.NoError(t, svc.UpdateItem(ctx, "alice", id, domain.UpdatePantryItemRequest{
		ProductName: "X", Quantity: "2", ExpirationDate: "2025-02-01", ImageURL: "  ",
	}))
	item := onlyItem(t, svc, "alice")
	assert.Equal(t, "X", item.ProductName)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "2025-02-01", item.ExpirationDate)
	assert.Equal(t, "https://images.example/oat.jpg", item.ImageURL)

	require.NoError(t, svc.UpdateItem(ctx, "alice", id, domain.UpdatePantryItemRequest{
		ProductName: "X", Quantity: "2", ExpirationDate: "2025-02-01", ImageURL: "https://images.example/new.jpg",
	}))
	assert.Equal(t, "https://images.example/new.jpg", onlyItem(t, svc, "alice").ImageURL)
}

func TestUpdateItem_Validation(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "alice", domain.AddProductRequest{Barcode: "123", Quantity: "1"})
	require.NoError(t, err)
	id := onlyItem(t, svc, "alice").ID

	err = svc.UpdateItem(ctx, "alice", id, domain.UpdatePantryItemRequest{
		ProductName: "", Quantity: "abc", ExpirationDate: "",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	var fieldErrs *domain.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, []domain.FieldError{
		{Field: "product_name", Message: domain.MessageProductNameRequired},
		{Field: "quantity", Message: domain.MessageInvalidQuantity},
		{Field: "expiration_date", Message: domain.MessageExpirationRequired},
	}, fieldErrs.Errors)

	err = svc.UpdateItem(ctx, "alice", id, domain.UpdatePantryItemRequest{
		ProductName: "X", Quantity: "  ", ExpirationDate: "2025/02/01",
	})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, []domain.FieldError{
		{Field: "quantity", Message: domain.MessageQuantityRequired},
		{Field: "expiration_date", Message: domain.MessageInvalidExpirationDate},
	}, fieldErrs.Errors)
}

func TestUpdateItem_OtherOwner(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "alice", domain.AddProductRequest{Barcode: "123", Quantity: "1"})
	require.NoError(t, err)
	id := onlyItem(t, svc, "alice").ID

	err = svc.UpdateItem(ctx, "bob", id, domain.UpdatePantryItemRequest{
		ProductName: "X", Quantity: "1", ExpirationDate: "2025-02-01",
	})
	assert.ErrorIs(t, err, domain.ErrPantryItemNotFound)
}

func TestUpdateItem_UploadsImage(t *testing.T) {
	s3 := &fakeS3{}
	svc := newTestService(t, &fakeLookup{}, s3)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "alice", domain.AddProductRequest{Barcode: "123", Quantity: "1"})
	require.NoError(t, err)
	id := onlyItem(t, svc, "alice").ID

	require.NoError(t, svc.UpdateItem(ctx, "alice", id, domain.UpdatePantryItemRequest{
		ProductName: "X", Quantity: "1", ExpirationDate: "2025-02-01",
		ImageURL: "https://ignored.example/a.jpg",
		Image:    newFileHeader(t, "photo.png"),
	}))

	require.Len(t, s3.uploaded, 1)
	assert.Equal(t, "https://bucket.test/"+s3.uploaded[0], onlyItem(t, svc, "alice").ImageURL)

	require.NoError(t, svc.DeleteItem(ctx, "alice", id))
	assert.Equal(t, s3.uploaded, s3.deleted)
}

func TestUpdateItem_ImageWithoutStorage(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)

	err := svc.UpdateItem(context.Background(), "alice", "any", domain.UpdatePantryItemRequest{
		ProductName: "X", Quantity: "1", ExpirationDate: "2025-02-01",
		Image: newFileHeader(t, "photo.png"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteItem_Idempotent(t *testing.T) {
	svc := newTestService(t, &fakeLookup{}, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "alice", domain.AddProductRequest{Barcode: "123", Quantity: "1"})
	require.NoError(t, err)
	id := onlyItem(t, svc, "alice").ID

	require.NoError(t, svc.DeleteItem(ctx, "bob", id))
	assert.Equal(t, id, onlyItem(t, svc, "alice").ID)

	require.NoError(t, svc.DeleteItem(ctx, "alice", id))
	require.NoError(t, svc.DeleteItem(ctx, "alice", id))

	items, err := svc.ListItems(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDetermineStatus(t *testing.T) {
	today := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.StatusExpired, determineStatus("2025-01-09", today))
	assert.Equal(t, domain.StatusWarning, determineStatus("2025-01-10", today))
	assert.Equal(t, domain.StatusWarning, determineStatus("2025-01-12", today))
	assert.Equal(t, domain.StatusSafe, determineStatus("2025-01-13", today))
	assert.Equal(t, domain.StatusUndated, determineStatus("", today))
}

func newFileHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}
