package service

import (
	"strings"

	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"

	"gorm.io/gorm"
)

// CartOwner 购物车归属标识。已登录用户以 UserID 定位，
// 游客以会话购物车 Cookie 定位，两者都有时优先 UserID。
type CartOwner struct {
	UserID        uint
	SessionCartID string
}

// CartService 购物车服务
type CartService struct {
	cfg         *config.Config
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cfg *config.Config, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cfg:         cfg,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart 获取当前归属者的购物车，不存在时返回 nil
func (s *CartService) GetCart(owner CartOwner) (*models.Cart, error) {
	return s.findCart(s.cartRepo, owner)
}

func (s *CartService) findCart(repo repository.CartRepository, owner CartOwner) (*models.Cart, error) {
	if owner.UserID != 0 {
		cart, err := repo.GetByUser(owner.UserID)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
	}
	sessionCartID := strings.TrimSpace(owner.SessionCartID)
	if sessionCartID == "" {
		return nil, nil
	}
	return repo.GetBySession(sessionCartID)
}

// AddItem 向购物车加入一件商品。商品已在购物车中时数量加一，
// 加入后数量不能超过商品库存。购物车不存在时按归属者创建。
func (s *CartService) AddItem(owner CartOwner, productID uint) (*models.Cart, *models.Product, error) {
	if productID == 0 || strings.TrimSpace(owner.SessionCartID) == "" {
		return nil, nil, ErrInvalidParams
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}

	var cartID uint
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := s.findCart(cartRepo, owner)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{SessionCartID: strings.TrimSpace(owner.SessionCartID)}
			if owner.UserID != 0 {
				userID := owner.UserID
				cart.UserID = &userID
			}
			if err := cartRepo.Create(cart); err != nil {
				return ErrCartUpdateFailed
			}
		}

		quantity := 1
		for _, item := range cart.Items {
			if item.ProductID == product.ID {
				quantity = item.Quantity + 1
				break
			}
		}
		if quantity > product.Stock {
			return ErrInsufficientStock
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Image:     image,
			UnitPrice: product.Price,
			Quantity:  quantity,
		}
		if err := cartRepo.UpsertItem(item); err != nil {
			return ErrCartUpdateFailed
		}

		cartID = cart.ID
		return s.recalcPrices(cartRepo, cart.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, nil, err
	}
	return cart, product, nil
}

// RemoveItem 从购物车减去一件商品。数量大于一时数量减一，
// 等于一时删除该购物车项。
func (s *CartService) RemoveItem(owner CartOwner, productID uint) (*models.Cart, *models.Product, error) {
	if productID == 0 {
		return nil, nil, ErrInvalidParams
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}

	var cartID uint
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := s.findCart(cartRepo, owner)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartItemNotFound
		}

		var existing *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == product.ID {
				existing = &cart.Items[i]
				break
			}
		}
		if existing == nil {
			return ErrCartItemNotFound
		}

		if existing.Quantity <= 1 {
			if err := cartRepo.DeleteItem(cart.ID, product.ID); err != nil {
				return ErrCartUpdateFailed
			}
		} else {
			updated := *existing
			updated.Quantity = existing.Quantity - 1
			if err := cartRepo.UpsertItem(&updated); err != nil {
				return ErrCartUpdateFailed
			}
		}

		cartID = cart.ID
		return s.recalcPrices(cartRepo, cart.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, nil, err
	}
	return cart, product, nil
}

// MergeOnSignIn 登录时归并购物车。会话购物车存在时整体归属给该用户，
// 用户名下原有的购物车被丢弃。
func (s *CartService) MergeOnSignIn(sessionCartID string, userID uint) error {
	sessionCartID = strings.TrimSpace(sessionCartID)
	if sessionCartID == "" || userID == 0 {
		return nil
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		sessionCart, err := cartRepo.GetBySession(sessionCartID)
		if err != nil {
			return err
		}
		if sessionCart == nil {
			return nil
		}
		if sessionCart.UserID != nil && *sessionCart.UserID == userID {
			return nil
		}

		userCart, err := cartRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if userCart != nil && userCart.ID != sessionCart.ID {
			if err := cartRepo.Delete(userCart.ID); err != nil {
				return ErrCartUpdateFailed
			}
		}

		if err := cartRepo.AdoptUser(sessionCart.ID, userID); err != nil {
			return ErrCartUpdateFailed
		}
		return nil
	})
}

// recalcPrices 重新加载购物车项并落库四项金额
func (s *CartService) recalcPrices(cartRepo repository.CartRepository, cartID uint) error {
	cart, err := cartRepo.GetByID(cartID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartUpdateFailed
	}
	prices, err := CalcCartPrices(s.cfg.Cart, cart.Items)
	if err != nil {
		return err
	}
	if err := cartRepo.UpdatePrices(cart.ID, prices.ItemsPrice, prices.ShippingPrice, prices.TaxPrice, prices.TotalPrice); err != nil {
		return ErrCartUpdateFailed
	}
	return nil
}
