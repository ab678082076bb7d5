package util

import (
	"fmt"
	"strconv"
	"strings"

	"finance-ledger/internal/datecycle"
)

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParseID 解析路径里的 id（必须为正整数）
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

// ParseOptionalID 解析可选 id，空字符串返回 nil
func ParseOptionalID(s string) (*uint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseOptionalDate 解析可选日期（YYYY-MM-DD），空字符串返回零值
func ParseOptionalDate(s string) (datecycle.Date, error) {
	if strings.TrimSpace(s) == "" {
		return datecycle.Date{}, nil
	}
	return datecycle.Parse(strings.TrimSpace(s))
}

// ParsePage 解析分页参数，非法值回落到默认
func ParsePage(pageStr, sizeStr string) (page, size int) {
	page, _ = strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(sizeStr)
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}
