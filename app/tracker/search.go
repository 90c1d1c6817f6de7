package tracker

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"employeetracker/domain/employee"
)

// FindByName 按姓名子串查找，忽略大小写、重音与全半角差异。
// 空白查询不匹配任何记录。
func (s *EmployeeService) FindByName(query string) []*employee.Employee {
	needle := foldName(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var out []*employee.Employee
	for _, e := range s.employees {
		if strings.Contains(foldName(e.Name), needle) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// foldName 归一化：NFD 分解后去除组合符号，折叠全角字符，再做大小写折叠
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), width.Fold, norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Fold().String(folded)
}
