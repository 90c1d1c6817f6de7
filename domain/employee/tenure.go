package employee

import "time"

// 工龄分组标签
const (
	TenureUnderOne  = "0-1 years"
	TenureOneToFive = "1-5 years"
	TenureFivePlus  = "5+ years"
)

// TenureLabels 按展示顺序返回分组标签
func TenureLabels() []string {
	return []string{TenureUnderOne, TenureOneToFive, TenureFivePlus}
}

// YearsOfService 计算从雇佣日期到 now 的整年数。
// 当年纪念日（月/日）未到时减一；雇佣日期晚于 now 时结果为负。
func YearsOfService(hireDate, now time.Time) int {
	hy, hm, hd := hireDate.Date()
	ny, nm, nd := now.Date()

	years := ny - hy
	if nm < hm || (nm == hm && nd < hd) {
		years--
	}
	return years
}

// TenureBucket 返回工龄所属分组：
// 不满 1 年（含未来日期）、满 1 年不满 5 年、满 5 年及以上
func TenureBucket(hireDate, now time.Time) string {
	years := YearsOfService(hireDate, now)
	switch {
	case years < 1:
		return TenureUnderOne
	case years < 5:
		return TenureOneToFive
	default:
		return TenureFivePlus
	}
}
