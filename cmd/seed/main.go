package main

import (
	"fmt"

	"github.com/prostore-next/internal/authz"
	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
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

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加示例用户
	users := []struct {
		Name     string
		Email    string
		Password string
		Role     string
	}{
		{Name: "Admin", Email: "admin@example.com", Password: "admin123", Role: constants.UserRoleAdmin},
		{Name: "Jane", Email: "jane@example.com", Password: "123456", Role: constants.UserRoleUser},
		{Name: "Steve", Email: "steve@example.com", Password: "123456", Role: constants.UserRoleUser},
	}

	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", u.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", u.Email, err)
			continue
		}
		user := models.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
		} else {
			stdLog.Printf("Created user: %s (%s)", u.Email, u.Role)
		}
	}

	// 同步管理员 RBAC 角色
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap builtin roles: %v", err)
	}
	var admins []models.User
	if err := models.DB.Where("role = ?", constants.UserRoleAdmin).Find(&admins).Error; err != nil {
		stdLog.Printf("Failed to load admin users: %v", err)
	}
	for _, admin := range admins {
		if err := authzService.SetUserRoles(admin.ID, []string{authz.RoleAdmin}); err != nil {
			stdLog.Printf("Failed to assign admin role to %s: %v", admin.Email, err)
		} else {
			stdLog.Printf("Assigned admin role: %s", admin.Email)
		}
	}

	// 添加商品
	products := []models.Product{
		{
			Name:        "Polo Sporting Stretch Shirt",
			Slug:        "polo-sporting-stretch-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Polo",
			Description: "Classic Polo style with modern comfort",
			Images: models.StringArray([]string{
				"/uploads/products/p1-1.jpg",
				"/uploads/products/p1-2.jpg",
			}),
			Price:      models.MustMoney("59.99"),
			Stock:      5,
			IsFeatured: true,
			Banner:     "/uploads/banners/banner-1.jpg",
		},
		{
			Name:        "Brooks Brothers Long Sleeved Shirt",
			Slug:        "brooks-brothers-long-sleeved-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Brooks Brothers",
			Description: "Timeless style and premium comfort",
			Images: models.StringArray([]string{
				"/uploads/products/p2-1.jpg",
				"/uploads/products/p2-2.jpg",
			}),
			Price:      models.MustMoney("85.90"),
			Stock:      10,
			IsFeatured: true,
			Banner:     "/uploads/banners/banner-2.jpg",
		},
		{
			Name:        "Tommy Hilfiger Classic Fit Dress Shirt",
			Slug:        "tommy-hilfiger-classic-fit-dress-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Tommy Hilfiger",
			Description: "A perfect blend of sophistication and comfort",
			Images: models.StringArray([]string{
				"/uploads/products/p3-1.jpg",
				"/uploads/products/p3-2.jpg",
			}),
			Price: models.MustMoney("99.95"),
			Stock: 0,
		},
		{
			Name:        "Calvin Klein Slim Fit Stretch Shirt",
			Slug:        "calvin-klein-slim-fit-stretch-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Calvin Klein",
			Description: "Streamlined design with flexible stretch fabric",
			Images: models.StringArray([]string{
				"/uploads/products/p4-1.jpg",
				"/uploads/products/p4-2.jpg",
			}),
			Price: models.MustMoney("39.95"),
			Stock: 10,
		},
		{
			Name:        "Polo Ralph Lauren Oxford Shirt",
			Slug:        "polo-ralph-lauren-oxford-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Polo",
			Description: "Iconic Polo design with refined oxford tailoring",
			Images: models.StringArray([]string{
				"/uploads/products/p5-1.jpg",
				"/uploads/products/p5-2.jpg",
			}),
			Price: models.MustMoney("79.99"),
			Stock: 6,
		},
		{
			Name:        "Polo Classic Pink Hoodie",
			Slug:        "polo-classic-pink-hoodie",
			Category:    "Men's Sweatshirts",
			Brand:       "Polo",
			Description: "Soft, stylish, and perfect for laid-back days",
			Images: models.StringArray([]string{
				"/uploads/products/p6-1.jpg",
				"/uploads/products/p6-2.jpg",
			}),
			Price: models.MustMoney("99.99"),
			Stock: 8,
		},
	}

	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
			continue
		}
		existing.Name = prod.Name
		existing.Category = prod.Category
		existing.Brand = prod.Brand
		existing.Description = prod.Description
		existing.Images = prod.Images
		existing.Price = prod.Price
		existing.Stock = prod.Stock
		existing.IsFeatured = prod.IsFeatured
		existing.Banner = prod.Banner
		if err := models.DB.Save(&existing).Error; err != nil {
			stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
		} else {
			stdLog.Printf("Updated product: %s", prod.Slug)
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Users (1 admin + 2 customers)")
	fmt.Println("- 6 Products (2 featured)")
	fmt.Println("- Builtin RBAC roles")
}
