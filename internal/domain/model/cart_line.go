package model

import "time"

// カート明細。1ユーザー×1商品につき1行のみ。
// 同じ商品を追加したときは行を増やさず数量を加算する。
type CartLine struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:uq_cart_lines_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;index;uniqueIndex:uq_cart_lines_user_product" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
