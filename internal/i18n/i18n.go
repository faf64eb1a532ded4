package i18n

import (
	"fmt"
	"strings"

	"github.com/prostore-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认站点语言
const DefaultLocale = constants.LocaleEnUS

// ResolveLocale 解析请求语言：优先 lang 参数，其次 Accept-Language，最后回退默认语言。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := normalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if lang := normalizeLocale(tag); lang != "" {
			return lang
		}
	}
	return DefaultLocale
}

// T 返回指定语言的消息文案，未命中时按回退顺序查找，最终回退为 key 本身。
func T(locale string, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	for _, fallback := range constants.SupportedLocales {
		if fallback == locale {
			continue
		}
		if msg, ok := messages[fallback][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 返回带格式化参数的消息文案。
func Sprintf(locale string, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// NormalizeLocale 将任意语言标签归一化为受支持的站点语言，未识别时回退默认语言。
func NormalizeLocale(raw string) string {
	if lang := normalizeLocale(raw); lang != "" {
		return lang
	}
	return DefaultLocale
}

func normalizeLocale(raw string) string {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return ""
	}
	lower := strings.ToLower(tag)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return constants.LocaleEnUS
	}
	return ""
}
