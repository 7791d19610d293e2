package deterministic

import "fmt"

type balances map[string]int

func RangeMap() {
	m := map[string]int{"a": 1}
	for k, v := range m { // want "ranging over map is forbidden"
		fmt.Println(k, v)
	}
}

func RangeNamedMap(b balances) {
	for k := range b { // want "ranging over map is forbidden"
		fmt.Println(k)
	}
}

func RangeSlice() {
	for _, v := range []string{"a", "b"} {
		fmt.Println(v)
	}
}

func LookupOnly(m map[string]int) int {
	return m["a"]
}
