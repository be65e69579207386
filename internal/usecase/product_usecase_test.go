package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

func newProductUC() (*MockProductRepository, *stubTxRepos, *usecase.ProductUsecase) {
	productRepo := new(MockProductRepository)
	r, tx := newStubTx()
	return productRepo, r, usecase.NewProductUsecase(productRepo, tx)
}

// =====================
// 公開一覧・詳細
// =====================

func TestListPublicProducts_Success(t *testing.T) {
	ctx := context.Background()
	productRepo, _, u := newProductUC()

	productRepo.On("ListPublic", mock.Anything, mock.MatchedBy(func(q repository.ProductListQuery) bool {
		return q.Page == 1 && q.Limit == 20 && q.Q == "widget" && q.Sort == "price_asc"
	})).Return([]model.Product{
		{ID: 10, Name: "Widget", Price: decimal.RequireFromString("9.99"), IsActive: true},
	}, int64(1), nil)

	out, err := u.ListPublicProducts(ctx, usecase.ListProductsInput{
		Page:  1,
		Limit: 20,
		Q:     " widget ", // 前後の空白はtrimされる
		Sort:  "price_asc",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)

	productRepo.AssertExpectations(t)
}

func TestListPublicProducts_InvalidSort(t *testing.T) {
	productRepo, _, u := newProductUC()

	_, err := u.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page:  1,
		Limit: 20,
		Sort:  "cheapest",
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	productRepo.AssertNotCalled(t, "ListPublic", mock.Anything, mock.Anything)
}

func TestListPublicProducts_MinGreaterThanMax(t *testing.T) {
	_, _, u := newProductUC()

	minP := decimal.RequireFromString("10.00")
	maxP := decimal.RequireFromString("5.00")

	_, err := u.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page:     1,
		Limit:    20,
		MinPrice: &minP,
		MaxPrice: &maxP,
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

// 非公開商品の詳細は404（存在を教えない）
func TestGetProductDetail_Inactive(t *testing.T) {
	ctx := context.Background()
	productRepo, _, u := newProductUC()

	productRepo.On("FindByID", mock.Anything, int64(30)).Return(model.Product{
		ID:       30,
		Name:     "Hidden",
		IsActive: false,
	}, nil)

	_, err := u.GetProductDetail(ctx, 30)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

// =====================
// 管理者CRUD
// =====================

func TestAdminCreateProduct_WritesAuditLog(t *testing.T) {
	ctx := context.Background()
	_, r, u := newProductUC()

	adminID := int64(9)

	r.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Widget" && p.Price.Equal(decimal.RequireFromString("9.99")) && p.IsActive
	})).Return(model.Product{
		ID:       10,
		Name:     "Widget",
		Price:    decimal.RequireFromString("9.99"),
		IsActive: true,
	}, nil)

	r.auditLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == adminID &&
			l.Action == model.AuditActionCreateProduct &&
			l.ResourceID == 10
	})).Return(nil)

	id, err := u.AdminCreateProduct(ctx, adminID, usecase.AdminProductInput{
		Name:     "Widget",
		Price:    decimal.RequireFromString("9.99"),
		IsActive: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), id)

	r.products.AssertExpectations(t)
	r.auditLogs.AssertExpectations(t)
}

func TestAdminCreateProduct_NegativePrice(t *testing.T) {
	_, r, u := newProductUC()

	_, err := u.AdminCreateProduct(context.Background(), 9, usecase.AdminProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("-1.00"),
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	r.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 削除はsoft-delete + カート明細のカスケード + 監査ログが1トランザクション
func TestAdminDeleteProduct_CascadesCartLines(t *testing.T) {
	ctx := context.Background()
	_, r, u := newProductUC()

	adminID := int64(9)
	productID := int64(10)

	r.products.On("FindByID", mock.Anything, productID).Return(model.Product{
		ID:       productID,
		Name:     "Widget",
		Price:    decimal.RequireFromString("9.99"),
		IsActive: true,
	}, nil)
	r.products.On("SoftDelete", mock.Anything, productID).Return(nil)
	r.cartLines.On("DeleteAllByProductID", mock.Anything, productID).Return(nil)
	r.auditLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteProduct && l.ResourceID == productID
	})).Return(nil)

	err := u.AdminDeleteProduct(ctx, adminID, productID)
	assert.NoError(t, err)

	r.products.AssertExpectations(t)
	r.cartLines.AssertExpectations(t)
	r.auditLogs.AssertExpectations(t)
}

// =====================
// 監査ログ一覧
// =====================

func TestAdminListAuditLogs_FilterPassedThrough(t *testing.T) {
	ctx := context.Background()
	_, r, u := newProductUC()

	actor := int64(9)

	r.auditLogs.On("List", mock.Anything, mock.MatchedBy(func(f repository.AuditLogFilter) bool {
		return f.ActorUserID != nil && *f.ActorUserID == actor &&
			f.Action != nil && *f.Action == model.AuditActionDeleteProduct &&
			f.Limit == 20 && f.Offset == 20
	})).Return([]model.AuditLog{
		{ID: 1, ActorUserID: actor, Action: model.AuditActionDeleteProduct, ResourceID: 10},
	}, nil)

	out, err := u.AdminListAuditLogs(ctx, usecase.ListAuditLogsInput{
		Page:        2,
		Limit:       20,
		Action:      "DELETE_PRODUCT",
		ActorUserID: &actor,
	})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, actor, out.Items[0].ActorUserID)

	r.auditLogs.AssertExpectations(t)
}

func TestAdminListAuditLogs_UnknownAction(t *testing.T) {
	_, r, u := newProductUC()

	_, err := u.AdminListAuditLogs(context.Background(), usecase.ListAuditLogsInput{
		Page:   1,
		Limit:  20,
		Action: "DROP_TABLE",
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	r.auditLogs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAdminDeleteProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	_, r, u := newProductUC()

	r.products.On("FindByID", mock.Anything, int64(999)).Return(model.Product{}, repository.ErrNotFound)

	err := u.AdminDeleteProduct(ctx, 9, 999)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)

	r.products.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	r.cartLines.AssertNotCalled(t, "DeleteAllByProductID", mock.Anything, mock.Anything)
}
