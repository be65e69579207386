package usecase

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	repo "storefront/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 識別は必ず引数のuserIDで行う（グローバルなセッション状態は持たない）。
type CartUsecase struct {
	cartLineRepo repo.CartLineRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartLineRepo repo.CartLineRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartLineRepo: cartLineRepo,
		productRepo:  productRepo,
	}
}

type CartLineResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartLineInput struct {
	Quantity int64
}

// GetCart はカート取得。明細が無ければ空のまま返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.buildCartResponse(ctx, userID)
}

// AddToCart はカートに追加（同一商品は数量加算）。
// upsertはDB側のON CONFLICTで原子的に行う。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	//数量未指定は1個
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartLineRepo.UpsertIncrement(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 数量変更（所有チェックはrepo側のWHERE user_idで行う）。
func (u *CartUsecase) UpdateLine(ctx context.Context, userID int64, lineID int64, in UpdateCartLineInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if lineID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if err := u.cartLineRepo.UpdateQuantityOwnedByUser(ctx, lineID, userID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 明細削除。他人の明細は「見つからない」で返し、何も消さない。
func (u *CartUsecase) RemoveLine(ctx context.Context, userID int64, lineID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if lineID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.cartLineRepo.DeleteOwnedByUser(ctx, lineID, userID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// ユーザーの明細をまとめてCartResponseを作る。
// 非公開になった商品は表示しない（checkout側で別途止める）。
func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	lines, err := u.cartLineRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respLines := make([]CartLineResponse, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		p, err := u.productRepo.FindByID(ctx, l.ProductID)
		if err == repo.ErrNotFound {
			//削除済み商品の明細は表示しない
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			continue
		}

		respLines = append(respLines, CartLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
		})

		total = total.Add(p.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}

	return CartResponse{Lines: respLines, Total: total}, nil
}
