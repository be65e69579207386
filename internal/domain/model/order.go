package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文。checkoutだけが作成し、作成後は更新も削除もしない。
// total_amountは作成時点のΣ(数量×単価)と一致する。
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
