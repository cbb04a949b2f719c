package domain

import "errors"

var (
	// ErrInvalidRange 现价区间为空或颠倒
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidGap gap 不在 [1,10]
	ErrInvalidGap = errors.New("invalid gap")
	// ErrDomain 波动率或剩余期限非正等定价域外输入
	ErrDomain = errors.New("domain error")
	// ErrStorageUnavailable 平面文件或数据库缺失、不可读
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidInput 其他非法参数，例如 Top-N 的 n <= 0
	ErrInvalidInput = errors.New("invalid input")
	// ErrDateNotFound 数据集中没有该日期
	ErrDateNotFound = errors.New("date not found")
)
