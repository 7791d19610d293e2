package withtests

import "testing"

func TestSum(t *testing.T) {
	cases := map[string][]int{"one": {1}}
	for name, values := range cases {
		if Sum(values) != 1 {
			t.Fatal(name)
		}
	}
}
