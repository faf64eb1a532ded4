package repository

import (
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// monthExpr 构建按月分组表达式（YYYY-MM），兼容 sqlite 与 postgres。
func monthExpr(db *gorm.DB, column string) string {
	return monthExprByDialect(dbDialectName(db), column)
}

func monthExprByDialect(dialect, column string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "to_char(" + column + ", 'YYYY-MM')"
	default:
		return "strftime('%Y-%m', " + column + ")"
	}
}

// likeOperator 返回模糊匹配操作符，postgres 下使用不区分大小写的 ILIKE。
func likeOperator(db *gorm.DB) string {
	return likeOperatorByDialect(dbDialectName(db))
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}
