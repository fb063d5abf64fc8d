package pagination

import "testing"

func TestPageRequest(t *testing.T) {
	t.Run("zero_value_is_unset", func(t *testing.T) {
		var p PageRequest
		if p.IsSet() {
			t.Error("expected zero PageRequest to be unset")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		p := PageRequest{Page: 3}
		p.Defaults()
		if p.PageSize != DefaultPageSize {
			t.Errorf("expected page size %d, got %d", DefaultPageSize, p.PageSize)
		}
		if p.Offset() != 40 {
			t.Errorf("expected offset 40, got %d", p.Offset())
		}
	})

	t.Run("total_pages", func(t *testing.T) {
		p := PageRequest{Page: 1, PageSize: 10}
		tests := map[int64]int{0: 0, 1: 1, 10: 1, 11: 2, 95: 10}
		for total, want := range tests {
			if got := p.TotalPages(total); got != want {
				t.Errorf("TotalPages(%d) = %d, want %d", total, got, want)
			}
		}
	})
}
