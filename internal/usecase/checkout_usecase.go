package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CheckoutUsecase はカート→注文の遷移だけを扱います。
// 読み→計算→注文作成→カート全削除を1トランザクションで行い、
// 途中で失敗したら何も残さない。
type CheckoutUsecase struct {
	tx repo.TransactionManager
}

func NewCheckoutUsecase(tx repo.TransactionManager) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx}
}

// Checkout はuserIDのカートを注文に変換する。
//
// 並行して同じカートをcheckoutした場合、2本目はFOR UPDATEで待たされ、
// 1本目のcommit後に空カートを見て「cart empty」で終わる。
// 1世代のカートからは最大1件しか注文が生まれない。
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート明細を行ロック付きで取得
		lines, err := r.CartLines().ListByUserIDForUpdate(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//空カートは失敗ではなく「何もしない」合図
		if len(lines) == 0 {
			return NewHTTPError(http.StatusConflict, "cart empty")
		}

		//合計は現在価格×数量。decimalで正確に計算する
		now := time.Now()
		orderLines := make([]model.OrderLine, 0, len(lines))
		total := decimal.Zero

		for _, cl := range lines {
			p, err := r.Products().FindByID(ctx, cl.ProductID)
			if err == repo.ErrNotFound {
				//商品削除はカート明細ごとカスケードされるのでここには来ないはず
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			//非公開商品は価格が付けられないのでcheckoutを止める
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}

			total = total.Add(p.Price.Mul(decimal.NewFromInt(cl.Quantity)))

			//スナップショット
			orderLines = append(orderLines, model.OrderLine{
				ProductID:           cl.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            cl.Quantity,
				CreatedAt:           now,
			})
		}

		//注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:      userID,
			TotalAmount: total,
			CreatedAt:   now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderLines().CreateBulk(ctx, orderID, orderLines); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空にする（同一トランザクション）
		if err := r.CartLines().DeleteAllByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:          orderID,
			UserID:      userID,
			TotalAmount: total,
			CreatedAt:   now,
		}
		out = toOrderOutput(created, orderLines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
