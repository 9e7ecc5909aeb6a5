package services

import "math"

// PageSize is the number of projects returned per page of the public listing.
const PageSize = 6

// MaxPage is the highest page whose offset and end row still fit in an int.
func MaxPage(size int) int {
	if size <= 0 {
		size = PageSize
	}
	return math.MaxInt/size - 1
}

// Offset is the first row index of page (zero based).
func Offset(page, size int) int {
	page, size = ClampPage(page, size)
	return page * size
}

// HasMore reports whether rows remain after page, given the total row count.
func HasMore(total int64, page, size int) bool {
	page, size = ClampPage(page, size)
	return total > int64(page+1)*int64(size)
}

// ClampPage coerces a requested page and size into a usable range.
func ClampPage(page, size int) (int, int) {
	if size <= 0 || size > 50 {
		size = PageSize
	}
	if page < 0 {
		page = 0
	}
	if maxPage := MaxPage(size); page > maxPage {
		page = maxPage
	}
	return page, size
}
