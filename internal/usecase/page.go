package usecase

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage clamps page and size to valid bounds. The result is always
// directly usable as offset = (page-1)*size, limit = size, and the
// function is idempotent.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
