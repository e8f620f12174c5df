// Package journal persists fills and hedge fills for post-trade review.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"auto-trader-go/order"
)

// FillRecord 一条成交流水。
type FillRecord struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  int64 `gorm:"index"`
	Side     string
	Price    int64 // 分，交易所回报原值
	Volume   int64
	Hedge    bool
	FilledAt time.Time
}

// Journal SQLite 成交流水，纯 Go 驱动，无 cgo。
type Journal struct {
	db *gorm.DB
}

// Open 打开（或创建）流水库并完成迁移。
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.AutoMigrate(&FillRecord{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record 落盘一条成交。实现 engine.FillRecorder。
func (j *Journal) Record(orderID int64, side order.Side, price, volume int64, hedge bool, at time.Time) error {
	rec := FillRecord{
		OrderID:  orderID,
		Side:     side.String(),
		Price:    price,
		Volume:   volume,
		Hedge:    hedge,
		FilledAt: at,
	}
	return j.db.Create(&rec).Error
}

// Fills 按时间顺序返回全部流水（复盘工具用）。
func (j *Journal) Fills() ([]FillRecord, error) {
	var recs []FillRecord
	err := j.db.Order("id asc").Find(&recs).Error
	return recs, err
}

// Close 关闭底层连接。
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
