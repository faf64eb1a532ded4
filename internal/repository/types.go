package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page      int
	PageSize  int
	Query     string // 名称模糊搜索
	Category  string
	PriceMin  string // 十进制字符串，空串表示不限
	PriceMax  string
	RatingMin string
	Sort      string // newest / lowest / highest / rating
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page      int
	PageSize  int
	UserID    uint
	BuyerName string // 管理端按下单用户昵称模糊过滤
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Query    string // 邮箱或昵称模糊搜索
}
