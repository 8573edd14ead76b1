package services

import "testing"

func TestClosestAvailableYear(t *testing.T) {
	t.Parallel()

	available := []int{2010, 2013, 2017, 2020}

	cases := []struct {
		name string
		year int
		want int
		ok   bool
	}{
		{"exact match", 2013, 2013, true},
		{"greatest earlier year wins", 2016, 2013, true},
		{"between data years", 2019, 2017, true},
		{"before all data falls forward", 2005, 2010, true},
		{"after all data falls back", 2030, 2020, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ClosestAvailableYear(available, tc.year)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ClosestAvailableYear(%d): got=(%d,%v) want=(%d,%v)", tc.year, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestClosestAvailableYearWithNoData(t *testing.T) {
	t.Parallel()

	if _, ok := ClosestAvailableYear(nil, 2020); ok {
		t.Fatalf("expected ok=false for empty availability")
	}
}
