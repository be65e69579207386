package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartLineRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)

	// checkout用。行ロック（FOR UPDATE）付きで読む。
	// 同一ユーザーのcheckoutはここで直列化される。
	ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error)

	// 同一(user, product)は1行のまま数量加算。ON CONFLICTで原子的に行う。
	UpsertIncrement(ctx context.Context, userID int64, productID int64, addQty int64) error

	// 本人の行だけを対象にする。他人の行はErrNotFound。
	UpdateQuantityOwnedByUser(ctx context.Context, lineID int64, userID int64, qty int64) error
	DeleteOwnedByUser(ctx context.Context, lineID int64, userID int64) error

	DeleteAllByUserID(ctx context.Context, userID int64) error

	// 商品削除のカスケード用
	DeleteAllByProductID(ctx context.Context, productID int64) error
}
