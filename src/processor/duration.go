package processor

import (
	"math"
	"regexp"
	"strconv"

	"github.com/go-gota/gota/series"
)

// ISO 8601 时长，仅小时与分钟，如 PT5H30M
var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// ParseDuration 将时长元素转换为总分钟数
// 缺失值或格式不符时第二个返回值为false
func ParseDuration(el series.Element) (int, bool) {
	if el == nil || el.IsNA() {
		return 0, false
	}
	return ParseDurationText(el.String())
}

// ParseDurationText 解析 PT#H#M 文本，"PT" 返回 0
// 整个文本必须匹配，前后空白也视为格式不符
func ParseDurationText(s string) (int, bool) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	hours, ok := groupValue(m[1])
	if !ok {
		return 0, false
	}
	minutes, ok := groupValue(m[2])
	if !ok {
		return 0, false
	}
	if hours > (math.MaxInt-minutes)/60 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func groupValue(g string) (int, bool) {
	if g == "" {
		return 0, true
	}
	v, err := strconv.Atoi(g)
	if err != nil {
		return 0, false
	}
	return v, true
}
