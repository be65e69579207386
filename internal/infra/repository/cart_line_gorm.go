package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CartLineGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartLineGormRepository(db *gorm.DB) *CartLineGormRepository {
	return &CartLineGormRepository{db: db}
}

// ユーザーのカート明細を一覧取得
func (r *CartLineGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

// checkout用。FOR UPDATEで行ロックして読む。
// 同じカートに対する2本目のcheckoutはここでブロックされ、
// 1本目のcommit後に空のカートを見る。
func (r *CartLineGormRepository) ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

// 同一(user, product)は1行のまま数量加算。
// unique制約 + ON CONFLICT なので同時addでも行は増えず加算も落ちない。
func (r *CartLineGormRepository) UpsertIncrement(ctx context.Context, userID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	line := model.CartLine{
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_lines.quantity + ?", addQty),
				"updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(&line).Error
}

// 本人の行だけ数量を更新。他人の行は見つからない扱い。
func (r *CartLineGormRepository) UpdateQuantityOwnedByUser(ctx context.Context, lineID int64, userID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ? AND user_id = ?", lineID, userID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 本人の行だけ削除。他人の行は見つからない扱い。
func (r *CartLineGormRepository) DeleteOwnedByUser(ctx context.Context, lineID int64, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カートを空にする（checkoutの最後）
func (r *CartLineGormRepository) DeleteAllByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLine{}).Error
}

// 商品削除時のカスケード
func (r *CartLineGormRepository) DeleteAllByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.CartLine{}).Error
}
