package model

import "errors"

type Kind uint

const (
	Index Kind = iota + 1
	Stock
)

var kindList = []string{"index", "stock"}
var kindTitles = []string{"Indices", "Stocks"}

func (k Kind) String() string {
	if k == 0 || int(k) > len(kindList) {
		return ""
	}
	return kindList[k-1]
}

// Title is the section heading used by the grouped message layout.
func (k Kind) Title() string {
	if k == 0 || int(k) > len(kindTitles) {
		return "Others"
	}
	return kindTitles[k-1]
}

func ToKind(s string) (Kind, error) {

	for i, k := range kindList {
		if s == k {
			return Kind(i + 1), nil
		}
	}
	return 0, errors.New("unknown instrument kind: " + s)
}
