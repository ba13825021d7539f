package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
)

// EnsureSeedData inserts the starter catalog when the products table is
// empty, so a fresh database serves a browsable store immediately. Existing
// data is never touched.
func (r *sqliteCatalogRepository) EnsureSeedData(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range sampleProducts() {
		if err := r.insertProduct(ctx, p); err != nil {
			return fmt.Errorf("seeding product %q: %w", p.Name, err)
		}
	}
	logger.Info("Sample catalog data inserted")
	return nil
}

func sampleProducts() []domain.Product {
	// Staggered creation times keep the "newest" sort meaningful.
	base := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	originalPrice := func(v float64) *float64 { return &v }

	return []domain.Product{
		{
			ID: 1, Name: "Arduino UNO R3 Original", Category: "arduino",
			Price: 1844.00, OriginalPrice: originalPrice(2000.00),
			Image:  "https://images.unsplash.com/photo-1553406830-ef2513450d76?w=300",
			Rating: 4.8, ReviewsCount: 342,
			Description:    "The Arduino UNO R3 is a microcontroller board based on the ATmega328P. Perfect for learning electronics and programming.",
			Specifications: "{}", InStock: true, StockCount: 156,
			CreatedAt: base,
		},
		{
			ID: 2, Name: "Raspberry Pi 4 Model B 8GB", Category: "raspberry-pi",
			Price:  8500.00,
			Image:  "https://images.unsplash.com/photo-1558618047-3c8c76ca7d13?w=300",
			Rating: 4.9, ReviewsCount: 289,
			Description:    "Latest Raspberry Pi 4 with 8GB RAM for advanced computing projects.",
			Specifications: "{}", InStock: true, StockCount: 89,
			CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: 3, Name: "ESP32 DevKit V1 WiFi + Bluetooth", Category: "development-boards",
			Price:  650.00,
			Image:  "https://images.unsplash.com/photo-1581092160562-40aa08e78837?w=300",
			Rating: 4.7, ReviewsCount: 456,
			Description:    "ESP32 development board with WiFi and Bluetooth capabilities.",
			Specifications: "{}", InStock: true, StockCount: 245,
			CreatedAt: base.Add(48 * time.Hour),
		},
		{
			ID: 4, Name: "HC-SR04 Ultrasonic Sensor", Category: "sensors",
			Price:  85.00,
			Image:  "https://images.unsplash.com/photo-1581092160607-ee22621dd758?w=300",
			Rating: 4.6, ReviewsCount: 567,
			Description:    "Ultrasonic distance sensor for Arduino projects.",
			Specifications: "{}", InStock: true, StockCount: 389,
			CreatedAt: base.Add(72 * time.Hour),
		},
		{
			ID: 5, Name: "SG90 Micro Servo Motor", Category: "motors",
			Price:  120.00,
			Image:  "https://images.unsplash.com/photo-1581092162384-8987c1d64718?w=300",
			Rating: 4.5, ReviewsCount: 234,
			Description:    "9g micro servo motor for robotics projects.",
			Specifications: "{}", InStock: true, StockCount: 456,
			CreatedAt: base.Add(96 * time.Hour),
		},
		{
			ID: 6, Name: "DHT22 Temperature Sensor", Category: "sensors",
			Price:  280.00,
			Image:  "https://images.unsplash.com/photo-1581092162384-8987c1d64718?w=300",
			Rating: 4.7, ReviewsCount: 312,
			Description:    "High precision temperature and humidity sensor.",
			Specifications: "{}", InStock: true, StockCount: 178,
			CreatedAt: base.Add(120 * time.Hour),
		},
	}
}
