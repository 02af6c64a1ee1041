package main

import (
	"time"

	"github.com/purinorder/purinorder/internal/config"
	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	seedProducts(stdLog.Printf)
	seedDiscounts(stdLog.Printf)
	seedSettings(stdLog.Printf)

	stdLog.Printf("Seed finished")
}

func seedProducts(printf func(string, ...interface{})) {
	deadline := time.Now().Add(72 * time.Hour)
	stock30 := 30
	stock5 := 5
	products := []models.Product{
		{
			Name:         "Áo thun Purin oversize",
			Price:        models.NewMoneyFromInt(150000),
			DisplayPrice: "150k",
			Category:     "Thời trang",
			Subcategory:  "Áo",
			Status:       "Sẵn",
			Master:       "xuongA",
			Images:       models.StringArray{"/uploads/product/ao-thun-purin.jpg"},
			OptionGroups: models.JSON{
				"groups": []interface{}{
					map[string]interface{}{"name": "Size", "options": []interface{}{"M", "L"}},
					map[string]interface{}{"name": "Màu", "options": []interface{}{"Kem", "Nâu"}},
				},
			},
			Variants: []models.ProductVariant{
				{Name: "M Kem", Price: models.NewMoneyFromInt(150000), Stock: &stock30},
				{Name: "M Nâu", Price: models.NewMoneyFromInt(150000), Stock: &stock30},
				{Name: "L Kem", Price: models.NewMoneyFromInt(160000), Stock: &stock30},
				{Name: "L Nâu", Price: models.NewMoneyFromInt(160000), Stock: &stock30},
			},
		},
		{
			Name:          "Móc khóa Purin",
			Price:         models.NewMoneyFromInt(45000),
			DisplayPrice:  "45k",
			Category:      "Phụ kiện",
			Status:        "Order",
			Master:        "xuongB",
			OrderDeadline: &deadline,
			Stock:         &stock5,
			Images:        models.StringArray{"/uploads/product/moc-khoa-purin.jpg"},
		},
		{
			Name:         "Gối ôm Purin 40cm",
			Price:        models.NewMoneyFromInt(320000),
			DisplayPrice: "320k",
			Category:     "Đồ dùng",
			Status:       "Sẵn",
			Master:       "xuongA",
			Images:       models.StringArray{"/uploads/product/goi-om-purin.jpg"},
		},
	}

	for i := range products {
		product := products[i]
		var existing models.Product
		err := models.DB.Where("name = ?", product.Name).First(&existing).Error
		if err == nil {
			printf("Product already exists: %s", product.Name)
			continue
		}
		if err := models.DB.Create(&product).Error; err != nil {
			printf("Failed to create product %s: %v", product.Name, err)
			continue
		}
		printf("Created product: %s", product.Name)
	}
}

func seedDiscounts(printf func(string, ...interface{})) {
	minOrder := models.NewMoneyFromInt(200000)
	maxDiscount := models.NewMoneyFromInt(50000)
	maxUses := 100
	codes := []models.DiscountCode{
		{
			Code:          "PURIN10",
			Type:          constants.DiscountTypePercentage,
			Value:         models.NewMoneyFromInt(10),
			MinOrderValue: &minOrder,
			MaxDiscount:   &maxDiscount,
			MaxUses:       &maxUses,
			IsActive:      true,
		},
		{
			Code:     "FREESHIP30",
			Type:     constants.DiscountTypeFixed,
			Value:    models.NewMoneyFromInt(30000),
			IsActive: true,
		},
	}

	for i := range codes {
		code := codes[i]
		var existing models.DiscountCode
		err := models.DB.Where("code = ?", code.Code).First(&existing).Error
		if err == nil {
			printf("Discount already exists: %s", code.Code)
			continue
		}
		if err := models.DB.Create(&code).Error; err != nil {
			printf("Failed to create discount %s: %v", code.Code, err)
			continue
		}
		printf("Created discount: %s", code.Code)
	}
}

func seedSettings(printf func(string, ...interface{})) {
	settings := map[string]models.JSON{
		constants.SettingKeyPageVisibility: {
			"catalog":   true,
			"listings":  true,
			"affiliate": true,
		},
		constants.SettingKeyBankAccount: {
			"bank":    "Vietcombank",
			"account": "0123456789",
			"holder":  "NGUYEN THI PURIN",
		},
		constants.SettingKeyShopNotice: {
			"text": "Đơn order dự kiến về sau 2-3 tuần, mọi người kiểm tra kỹ trước khi chốt nhé!",
		},
	}

	for key, value := range settings {
		var existing models.Setting
		err := models.DB.Where("key = ?", key).First(&existing).Error
		if err == nil {
			printf("Setting already exists: %s", key)
			continue
		}
		if err := models.DB.Create(&models.Setting{Key: key, ValueJSON: value}).Error; err != nil {
			printf("Failed to create setting %s: %v", key, err)
			continue
		}
		printf("Created setting: %s", key)
	}
}
